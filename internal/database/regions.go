package database

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"strings"
)

// Region is a row of the region table
type Region struct {
	RegionID    int64  `db:"region_id" json:"region_id"`
	RegionCode  string `db:"region_code" json:"region_code"`
	LocalCode   string `db:"local_code" json:"local_code"`
	Name        string `db:"name" json:"name"`
	ContinentID *int64 `db:"continent_id" json:"continent_id"`
	CountryID   *int64 `db:"country_id" json:"country_id"`
}

// RegionFilter holds the optional region search fields.
type RegionFilter struct {
	RegionCode *string
	LocalCode  *string
	Name       *string
}

const regionColumns = "region_id, region_code, local_code, name, continent_id, country_id"

// SearchRegions returns regions matching every filter field that is present.
// Absent fields are left out of the condition; with no fields the whole table
// is returned.
func (s *Session) SearchRegions(ctx context.Context, filter RegionFilter) iter.Seq2[*Region, error] {
	var where filterClause
	where.equals("region_code", filter.RegionCode)
	where.equals("local_code", filter.LocalCode)
	where.equals("name", filter.Name)

	query := `SELECT ` + regionColumns + ` FROM region`
	if len(where.conditions) > 0 {
		query += ` WHERE ` + strings.Join(where.conditions, " AND ")
	}

	return queryEach[Region](ctx, s.mustConn(), "search regions", query, where.args...)
}

// GetRegion retrieves a region by ID. Returns nil if it does not exist.
func (s *Session) GetRegion(ctx context.Context, id int64) (*Region, error) {
	var region Region
	err := s.get(ctx, &region, `SELECT `+regionColumns+` FROM region WHERE region_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, newStoreError("get region", err)
	}
	return &region, nil
}

// CreateRegion inserts a new region and returns the ID assigned by the store
func (s *Session) CreateRegion(ctx context.Context, region Region) (int64, error) {
	result, err := s.exec(ctx, `
		INSERT INTO region (region_code, local_code, name, continent_id, country_id)
		VALUES (?, ?, ?, ?, ?)
	`, region.RegionCode, region.LocalCode, region.Name, nullableInt64(region.ContinentID), nullableInt64(region.CountryID))
	if err != nil {
		return 0, newStoreError("insert region", err)
	}
	return lastInsertID(result), nil
}

// UpdateRegion rewrites the region with the same ID and returns the number of rows changed
func (s *Session) UpdateRegion(ctx context.Context, region Region) (int64, error) {
	result, err := s.exec(ctx, `
		UPDATE region
		SET region_code = ?, local_code = ?, name = ?, continent_id = ?, country_id = ?
		WHERE region_id = ?
	`, region.RegionCode, region.LocalCode, region.Name, nullableInt64(region.ContinentID), nullableInt64(region.CountryID), region.RegionID)
	if err != nil {
		return 0, newStoreError("update region", err)
	}
	return rowsAffected(result), nil
}
