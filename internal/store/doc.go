// Package store provides durable snapshot history for signed state
// documents. Every sign or sync appends a row pairing the full document
// JSON with the integrity record that certified it, so any historical
// version can be re-verified or restored after a tamper detection.
package store
