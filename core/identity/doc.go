// Package identity cross-references the identifier spaces of the card feeds.
//
// A card is known by a passcode (the number printed on the card, one per
// artwork), an internal identifier used by the name and print feeds, localized
// names, and print codes such as "LOB-EN001". The index is built in two passes:
//
//  1. The catalog is joined with the primary name feed. The first identifier
//     listed under a name claims every artwork passcode of that card; all
//     identifiers under one name form a group.
//  2. Identifiers still lacking a passcode are completed from their
//     supplemental {id}.json record. Those that stay unresolved are reported.
//
// Groups are shared values: every member of a group points at the same *Group,
// so membership is symmetric by construction.
//
// A Repository builds the index on first use and keeps it until Reset, which
// callers invoke after a revision sync changed the feeds.
package identity
