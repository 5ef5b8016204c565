package database

import (
	"context"
	"database/sql"
	"errors"
	"iter"
)

// Country is a row of the country table.
// ContinentID and WikipediaLink are nullable.
type Country struct {
	CountryID     int64   `db:"country_id" json:"country_id"`
	CountryCode   string  `db:"country_code" json:"country_code"`
	Name          string  `db:"name" json:"name"`
	ContinentID   *int64  `db:"continent_id" json:"continent_id"`
	WikipediaLink *string `db:"wikipedia_link" json:"wikipedia_link"`
}

// CountryFilter holds the optional country search fields.
type CountryFilter struct {
	CountryCode *string
	Name        *string
}

const countryColumns = "country_id, country_code, name, continent_id, wikipedia_link"

// SearchCountries returns countries whose code OR name equals the filter,
// with the same NULL semantics as SearchContinents.
func (s *Session) SearchCountries(ctx context.Context, filter CountryFilter) iter.Seq2[*Country, error] {
	return queryEach[Country](ctx, s.mustConn(), "search countries", `
		SELECT `+countryColumns+`
		FROM country
		WHERE country_code = ? OR name = ?
	`, nullableString(filter.CountryCode), nullableString(filter.Name))
}

// GetCountry retrieves a country by ID. Returns nil if it does not exist.
func (s *Session) GetCountry(ctx context.Context, id int64) (*Country, error) {
	var country Country
	err := s.get(ctx, &country, `SELECT `+countryColumns+` FROM country WHERE country_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, newStoreError("get country", err)
	}
	return &country, nil
}

// CreateCountry inserts a new country and returns the ID assigned by the store
func (s *Session) CreateCountry(ctx context.Context, country Country) (int64, error) {
	result, err := s.exec(ctx, `
		INSERT INTO country (country_code, name, continent_id, wikipedia_link)
		VALUES (?, ?, ?, ?)
	`, country.CountryCode, country.Name, nullableInt64(country.ContinentID), nullableString(country.WikipediaLink))
	if err != nil {
		return 0, newStoreError("insert country", err)
	}
	return lastInsertID(result), nil
}

// UpdateCountry rewrites the country with the same ID and returns the number of rows changed
func (s *Session) UpdateCountry(ctx context.Context, country Country) (int64, error) {
	result, err := s.exec(ctx, `
		UPDATE country
		SET country_code = ?, name = ?, continent_id = ?, wikipedia_link = ?
		WHERE country_id = ?
	`, country.CountryCode, country.Name, nullableInt64(country.ContinentID), nullableString(country.WikipediaLink), country.CountryID)
	if err != nil {
		return 0, newStoreError("update country", err)
	}
	return rowsAffected(result), nil
}
