package database

import (
	"context"
	"database/sql"
	"errors"
	"iter"
)

// Continent is a row of the continent table
type Continent struct {
	ContinentID   int64  `db:"continent_id" json:"continent_id"`
	ContinentCode string `db:"continent_code" json:"continent_code"`
	Name          string `db:"name" json:"name"`
}

// ContinentFilter holds the optional continent search fields.
type ContinentFilter struct {
	ContinentCode *string
	Name          *string
}

const continentColumns = "continent_id, continent_code, name"

// SearchContinents returns continents whose code OR name equals the filter.
// Both fields are always compared; an absent field binds NULL, which matches
// nothing, so a search with no fields at all returns no rows.
func (s *Session) SearchContinents(ctx context.Context, filter ContinentFilter) iter.Seq2[*Continent, error] {
	return queryEach[Continent](ctx, s.mustConn(), "search continents", `
		SELECT `+continentColumns+`
		FROM continent
		WHERE continent_code = ? OR name = ?
	`, nullableString(filter.ContinentCode), nullableString(filter.Name))
}

// GetContinent retrieves a continent by ID. Returns nil if it does not exist.
func (s *Session) GetContinent(ctx context.Context, id int64) (*Continent, error) {
	var continent Continent
	err := s.get(ctx, &continent, `SELECT `+continentColumns+` FROM continent WHERE continent_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, newStoreError("get continent", err)
	}
	return &continent, nil
}

// CreateContinent inserts a new continent and returns the ID assigned by the store.
// The ContinentID of the argument is ignored.
func (s *Session) CreateContinent(ctx context.Context, continent Continent) (int64, error) {
	result, err := s.exec(ctx, `
		INSERT INTO continent (continent_code, name)
		VALUES (?, ?)
	`, continent.ContinentCode, continent.Name)
	if err != nil {
		return 0, newStoreError("insert continent", err)
	}
	return lastInsertID(result), nil
}

// UpdateContinent rewrites the continent with the same ID and returns the
// number of rows changed (0 when no continent has that ID).
func (s *Session) UpdateContinent(ctx context.Context, continent Continent) (int64, error) {
	result, err := s.exec(ctx, `
		UPDATE continent
		SET continent_code = ?, name = ?
		WHERE continent_id = ?
	`, continent.ContinentCode, continent.Name, continent.ContinentID)
	if err != nil {
		return 0, newStoreError("update continent", err)
	}
	return rowsAffected(result), nil
}

func lastInsertID(result sql.Result) int64 {
	id, err := result.LastInsertId()
	if err != nil {
		return 0
	}
	return id
}

func rowsAffected(result sql.Result) int64 {
	n, err := result.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
