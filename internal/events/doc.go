// Package events defines the request and response events exchanged between a
// user interface and the engine.
//
// Requests form a closed set: every request type lives in this package and
// implements Request through an unexported marker method, so the engine can
// switch over them exhaustively. Input that names a type this package does not
// know decodes to Unrecognized rather than failing.
//
// On the wire each event is a flat JSON object with a snake_case "type" tag:
//
//	{"type":"start_region_search","local_code":"WA"}
//	{"type":"region_search_result","region":{"region_id":3,...}}
package events
