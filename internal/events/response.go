package events

import "github.com/saltyorg/geoedit/internal/database"

// Response is an outcome produced by the engine for one request
type Response interface {
	Kind() string
	isResponse()
}

// Response kinds
const (
	KindDatabaseOpened        = "database_opened"
	KindDatabaseOpenFailed    = "database_open_failed"
	KindDatabaseClosed        = "database_closed"
	KindEndApplication        = "end_application"
	KindContinentSearchResult = "continent_search_result"
	KindContinentLoaded       = "continent_loaded"
	KindContinentSaved        = "continent_saved"
	KindSaveContinentFailed   = "save_continent_failed"
	KindCountrySearchResult   = "country_search_result"
	KindCountryLoaded         = "country_loaded"
	KindCountrySaved          = "country_saved"
	KindSaveCountryFailed     = "save_country_failed"
	KindRegionSearchResult    = "region_search_result"
	KindRegionLoaded          = "region_loaded"
	KindRegionSaved           = "region_saved"
	KindSaveRegionFailed      = "save_region_failed"
	KindError                 = "error"
)

type DatabaseOpened struct {
	Path string `json:"path"`
}

type DatabaseOpenFailed struct {
	Message string `json:"message"`
}

type DatabaseClosed struct{}

type EndApplication struct{}

type ContinentSearchResult struct {
	Continent database.Continent `json:"continent"`
}

type ContinentLoaded struct {
	Continent database.Continent `json:"continent"`
}

type ContinentSaved struct {
	Continent database.Continent `json:"continent"`
}

type SaveContinentFailed struct {
	Message string `json:"message"`
}

type CountrySearchResult struct {
	Country database.Country `json:"country"`
}

type CountryLoaded struct {
	Country database.Country `json:"country"`
}

type CountrySaved struct {
	Country database.Country `json:"country"`
}

type SaveCountryFailed struct {
	Message string `json:"message"`
}

type RegionSearchResult struct {
	Region database.Region `json:"region"`
}

type RegionLoaded struct {
	Region database.Region `json:"region"`
}

type RegionSaved struct {
	Region database.Region `json:"region"`
}

type SaveRegionFailed struct {
	Message string `json:"message"`
}

// Error answers a request the engine could not handle
type Error struct {
	Message string `json:"message"`
}

func (DatabaseOpened) Kind() string        { return KindDatabaseOpened }
func (DatabaseOpenFailed) Kind() string    { return KindDatabaseOpenFailed }
func (DatabaseClosed) Kind() string        { return KindDatabaseClosed }
func (EndApplication) Kind() string        { return KindEndApplication }
func (ContinentSearchResult) Kind() string { return KindContinentSearchResult }
func (ContinentLoaded) Kind() string       { return KindContinentLoaded }
func (ContinentSaved) Kind() string        { return KindContinentSaved }
func (SaveContinentFailed) Kind() string   { return KindSaveContinentFailed }
func (CountrySearchResult) Kind() string   { return KindCountrySearchResult }
func (CountryLoaded) Kind() string         { return KindCountryLoaded }
func (CountrySaved) Kind() string          { return KindCountrySaved }
func (SaveCountryFailed) Kind() string     { return KindSaveCountryFailed }
func (RegionSearchResult) Kind() string    { return KindRegionSearchResult }
func (RegionLoaded) Kind() string          { return KindRegionLoaded }
func (RegionSaved) Kind() string           { return KindRegionSaved }
func (SaveRegionFailed) Kind() string      { return KindSaveRegionFailed }
func (Error) Kind() string                 { return KindError }

func (DatabaseOpened) isResponse()        {}
func (DatabaseOpenFailed) isResponse()    {}
func (DatabaseClosed) isResponse()        {}
func (EndApplication) isResponse()        {}
func (ContinentSearchResult) isResponse() {}
func (ContinentLoaded) isResponse()       {}
func (ContinentSaved) isResponse()        {}
func (SaveContinentFailed) isResponse()   {}
func (CountrySearchResult) isResponse()   {}
func (CountryLoaded) isResponse()         {}
func (CountrySaved) isResponse()          {}
func (SaveCountryFailed) isResponse()     {}
func (RegionSearchResult) isResponse()    {}
func (RegionLoaded) isResponse()          {}
func (RegionSaved) isResponse()           {}
func (SaveRegionFailed) isResponse()      {}
func (Error) isResponse()                 {}
