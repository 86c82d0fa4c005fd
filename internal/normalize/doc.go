// Package normalize canonicalizes raw prompt text and derives dedup
// fingerprints.
//
// CleanText produces the display form: control characters stripped, HTML
// escapes resolved, whitespace collapsed, original casing preserved.
// Fingerprint hashes a case-folded, punctuation-insensitive rendering of the
// same text, so "A Lone Samurai..." and "a lone samurai" collapse to one
// identity. The quality filter rejects placeholder artifacts and scrape
// noise before they reach classification.
package normalize
