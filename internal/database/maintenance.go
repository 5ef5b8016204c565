package database

import "context"

// Optimize runs SQLite's PRAGMA optimize to refresh planner stats.
func (s *Session) Optimize(ctx context.Context) error {
	if _, err := s.exec(ctx, "PRAGMA optimize"); err != nil {
		return newStoreError("optimize database", err)
	}
	return nil
}

// Vacuum rebuilds the database file to reclaim unused space.
func (s *Session) Vacuum(ctx context.Context) error {
	if _, err := s.exec(ctx, "VACUUM"); err != nil {
		return newStoreError("vacuum database", err)
	}
	return nil
}
