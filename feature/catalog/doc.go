// Package catalog serves card lookups from the identity index.
//
// A card can be looked up by passcode, by internal identifier or by print code,
// and searched by localized name. Search normalizes names (NFKC and case
// folding) before fuzzy matching, then ranks exact, prefix and substring hits
// ahead of looser matches.
//
// Export writes the cross-reference to the configured database (cards,
// card_names and card_prints tables) for consumers that prefer SQL.
package catalog
