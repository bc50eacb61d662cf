// Package syncer orchestrates the record lifecycle: load the state
// document, back it up, sign it, push the signed document and its record to
// remote targets, and persist the per-target sync status. Remote targets
// store what they receive opaquely; the only assumption made about them is
// success or failure.
package syncer
