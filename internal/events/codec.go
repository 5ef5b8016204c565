package events

import (
	"encoding/json"
	"fmt"
)

// envelope is the part common to every event on the wire
type envelope struct {
	Type string `json:"type"`
}

type requestDecoder func(data []byte) (Request, error)

var requestDecoders = map[string]requestDecoder{
	KindOpenDatabase:         decodeAs[OpenDatabase],
	KindCloseDatabase:        decodeAs[CloseDatabase],
	KindQuit:                 decodeAs[Quit],
	KindStartContinentSearch: decodeAs[StartContinentSearch],
	KindLoadContinent:        decodeAs[LoadContinent],
	KindSaveNewContinent:     decodeAs[SaveNewContinent],
	KindSaveContinent:        decodeAs[SaveContinent],
	KindStartCountrySearch:   decodeAs[StartCountrySearch],
	KindLoadCountry:          decodeAs[LoadCountry],
	KindSaveNewCountry:       decodeAs[SaveNewCountry],
	KindSaveCountry:          decodeAs[SaveCountry],
	KindStartRegionSearch:    decodeAs[StartRegionSearch],
	KindLoadRegion:           decodeAs[LoadRegion],
	KindSaveNewRegion:        decodeAs[SaveNewRegion],
	KindSaveRegion:           decodeAs[SaveRegion],
}

func decodeAs[T Request](data []byte) (Request, error) {
	var req T
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return req, nil
}

// DecodeRequest parses one JSON request. An unknown or missing type tag is
// not an error: it decodes to Unrecognized so the engine can answer it.
func DecodeRequest(data []byte) (Request, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}

	decode, ok := requestDecoders[env.Type]
	if !ok {
		return Unrecognized{Type: env.Type, Payload: json.RawMessage(data)}, nil
	}

	req, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s request: %w", env.Type, err)
	}
	return req, nil
}

// EncodeRequest renders a request in its wire form
func EncodeRequest(req Request) ([]byte, error) {
	if u, ok := req.(Unrecognized); ok && len(u.Payload) > 0 {
		return u.Payload, nil
	}
	return encodeTagged(req.Kind(), req)
}

// EncodeResponse renders a response in its wire form
func EncodeResponse(resp Response) ([]byte, error) {
	return encodeTagged(resp.Kind(), resp)
}

// DecodeResponse parses one JSON response. Clients and tests use it to read
// what the engine wrote.
func DecodeResponse(data []byte) (Response, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	decode, ok := responseDecoders[env.Type]
	if !ok {
		return nil, fmt.Errorf("decode response: unknown type %q", env.Type)
	}

	resp, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", env.Type, err)
	}
	return resp, nil
}

type responseDecoder func(data []byte) (Response, error)

var responseDecoders = map[string]responseDecoder{
	KindDatabaseOpened:        decodeResponseAs[DatabaseOpened],
	KindDatabaseOpenFailed:    decodeResponseAs[DatabaseOpenFailed],
	KindDatabaseClosed:        decodeResponseAs[DatabaseClosed],
	KindEndApplication:        decodeResponseAs[EndApplication],
	KindContinentSearchResult: decodeResponseAs[ContinentSearchResult],
	KindContinentLoaded:       decodeResponseAs[ContinentLoaded],
	KindContinentSaved:        decodeResponseAs[ContinentSaved],
	KindSaveContinentFailed:   decodeResponseAs[SaveContinentFailed],
	KindCountrySearchResult:   decodeResponseAs[CountrySearchResult],
	KindCountryLoaded:         decodeResponseAs[CountryLoaded],
	KindCountrySaved:          decodeResponseAs[CountrySaved],
	KindSaveCountryFailed:     decodeResponseAs[SaveCountryFailed],
	KindRegionSearchResult:    decodeResponseAs[RegionSearchResult],
	KindRegionLoaded:          decodeResponseAs[RegionLoaded],
	KindRegionSaved:           decodeResponseAs[RegionSaved],
	KindSaveRegionFailed:      decodeResponseAs[SaveRegionFailed],
	KindError:                 decodeResponseAs[Error],
}

func decodeResponseAs[T Response](data []byte) (Response, error) {
	var resp T
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// encodeTagged marshals v as a flat object and adds the type tag. Keys come
// out sorted, which keeps the output stable.
func encodeTagged(kind string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}

	tag, err := json.Marshal(kind)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	fields["type"] = tag

	return json.Marshal(fields)
}
