// Package engine turns request events into database operations and response
// events.
//
// Engine.Process is the single entry point. It routes each request to the
// connection session or to one of the entity managers and returns the
// responses as a lazy sequence: nothing touches the database until the caller
// ranges over it, and search results are produced one row at a time.
//
// Store failures on open, insert and update become typed failure responses
// (DatabaseOpenFailed, Save*Failed). Loads and searches that find nothing
// produce no responses. Issuing an entity request while no database is open
// is a caller bug and panics with database.ErrNoConnection.
//
// The engine holds no locks. Callers process one request at a time and drain
// its sequence before sending the next.
package engine
