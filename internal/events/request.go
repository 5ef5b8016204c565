package events

import (
	"encoding/json"

	"github.com/saltyorg/geoedit/internal/database"
)

// Request is an instruction sent to the engine
type Request interface {
	Kind() string
	isRequest()
}

// Request kinds
const (
	KindOpenDatabase         = "open_database"
	KindCloseDatabase        = "close_database"
	KindQuit                 = "quit"
	KindStartContinentSearch = "start_continent_search"
	KindLoadContinent        = "load_continent"
	KindSaveNewContinent     = "save_new_continent"
	KindSaveContinent        = "save_continent"
	KindStartCountrySearch   = "start_country_search"
	KindLoadCountry          = "load_country"
	KindSaveNewCountry       = "save_new_country"
	KindSaveCountry          = "save_country"
	KindStartRegionSearch    = "start_region_search"
	KindLoadRegion           = "load_region"
	KindSaveNewRegion        = "save_new_region"
	KindSaveRegion           = "save_region"
)

type OpenDatabase struct {
	Path string `json:"path"`
}

type CloseDatabase struct{}

type Quit struct{}

// StartContinentSearch searches by code OR name. Nil fields are absent.
type StartContinentSearch struct {
	ContinentCode *string `json:"continent_code"`
	Name          *string `json:"name"`
}

type LoadContinent struct {
	ContinentID int64 `json:"continent_id"`
}

type SaveNewContinent struct {
	Continent database.Continent `json:"continent"`
}

type SaveContinent struct {
	Continent database.Continent `json:"continent"`
}

// StartCountrySearch searches by code OR name. Nil fields are absent.
type StartCountrySearch struct {
	CountryCode *string `json:"country_code"`
	Name        *string `json:"name"`
}

type LoadCountry struct {
	CountryID int64 `json:"country_id"`
}

type SaveNewCountry struct {
	Country database.Country `json:"country"`
}

type SaveCountry struct {
	Country database.Country `json:"country"`
}

// StartRegionSearch matches every field that is present. Nil fields are absent.
type StartRegionSearch struct {
	RegionCode *string `json:"region_code"`
	LocalCode  *string `json:"local_code"`
	Name       *string `json:"name"`
}

type LoadRegion struct {
	RegionID int64 `json:"region_id"`
}

type SaveNewRegion struct {
	Region database.Region `json:"region"`
}

type SaveRegion struct {
	Region database.Region `json:"region"`
}

// Unrecognized carries a request whose type tag is not known. The engine
// answers it with an Error response.
type Unrecognized struct {
	Type    string          `json:"-"`
	Payload json.RawMessage `json:"-"`
}

func (OpenDatabase) Kind() string         { return KindOpenDatabase }
func (CloseDatabase) Kind() string        { return KindCloseDatabase }
func (Quit) Kind() string                 { return KindQuit }
func (StartContinentSearch) Kind() string { return KindStartContinentSearch }
func (LoadContinent) Kind() string        { return KindLoadContinent }
func (SaveNewContinent) Kind() string     { return KindSaveNewContinent }
func (SaveContinent) Kind() string        { return KindSaveContinent }
func (StartCountrySearch) Kind() string   { return KindStartCountrySearch }
func (LoadCountry) Kind() string          { return KindLoadCountry }
func (SaveNewCountry) Kind() string       { return KindSaveNewCountry }
func (SaveCountry) Kind() string          { return KindSaveCountry }
func (StartRegionSearch) Kind() string    { return KindStartRegionSearch }
func (LoadRegion) Kind() string           { return KindLoadRegion }
func (SaveNewRegion) Kind() string        { return KindSaveNewRegion }
func (SaveRegion) Kind() string           { return KindSaveRegion }
func (u Unrecognized) Kind() string       { return u.Type }

func (OpenDatabase) isRequest()         {}
func (CloseDatabase) isRequest()        {}
func (Quit) isRequest()                 {}
func (StartContinentSearch) isRequest() {}
func (LoadContinent) isRequest()        {}
func (SaveNewContinent) isRequest()     {}
func (SaveContinent) isRequest()        {}
func (StartCountrySearch) isRequest()   {}
func (LoadCountry) isRequest()          {}
func (SaveNewCountry) isRequest()       {}
func (SaveCountry) isRequest()          {}
func (StartRegionSearch) isRequest()    {}
func (LoadRegion) isRequest()           {}
func (SaveNewRegion) isRequest()        {}
func (SaveRegion) isRequest()           {}
func (Unrecognized) isRequest()         {}
