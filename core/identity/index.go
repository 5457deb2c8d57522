package identity

import (
	"slices"
	"sort"
	"strings"

	"card-mirror/core/filestore"
)

// Group is a shared list of identifiers. Every member of a group points to the
// same *Group, so membership is symmetric.
type Group struct {
	Members []int
}

// Contains reports whether v is a member.
func (g *Group) Contains(v int) bool {
	return g != nil && slices.Contains(g.Members, v)
}

func (g *Group) add(v int) {
	if !g.Contains(v) {
		g.Members = append(g.Members, v)
	}
}

// CardRecord is the resolved view of one card across every identifier space.
type CardRecord struct {
	Passcode      int               `json:"passcode,omitempty"`
	KonamiID      int               `json:"konami_id"`
	AlternateIDs  []int             `json:"alternate_ids,omitempty"`
	Names         map[string]string `json:"names,omitempty"`
	Archetype     string            `json:"archetype,omitempty"`
	PrintVariants []int             `json:"print_variants,omitempty"`
	Card          *Card             `json:"card,omitempty"`
}

// Index is the cross-reference between passcodes, internal identifiers, print
// codes and localized names. It is read-only once built.
type Index struct {
	// PasscodeToID maps every passcode to exactly one internal identifier.
	PasscodeToID map[int]int
	// IDToPasscode holds the canonical passcode of an internal identifier.
	IDToPasscode map[int]int
	// PasscodeGroups links the print variants of a passcode.
	PasscodeGroups map[int]*Group
	// IDGroups links co-named internal identifiers.
	IDGroups map[int]*Group
	// IDToArchetype holds the archetype of an internal identifier.
	IDToArchetype map[int]string
	// Passcodes lists every known passcode in ascending order.
	Passcodes []int

	// Cards holds the catalog entry of each passcode.
	Cards map[int]*Card
	// Names maps language to internal identifier to name.
	Names map[string]map[int]string
	// PrintCodes maps a full print code ("LOB-EN001") to an internal identifier.
	PrintCodes map[string]int
	// PrintSets lists the set codes whose tables were loaded.
	PrintSets []string
	// Archetypes lists the archetype names of the archetype feed.
	Archetypes []string
	// Unresolved lists the internal identifiers left without a passcode.
	Unresolved []int
}

func newIndex() *Index {
	return &Index{
		PasscodeToID:   make(map[int]int),
		IDToPasscode:   make(map[int]int),
		PasscodeGroups: make(map[int]*Group),
		IDGroups:       make(map[int]*Group),
		IDToArchetype:  make(map[int]string),
		Cards:          make(map[int]*Card),
		Names:          make(map[string]map[int]string),
		PrintCodes:     make(map[string]int),
	}
}

// NameFor returns the name of id in lang. When id has no entry of its own the
// first member of its group that has one is used.
func (idx *Index) NameFor(lang string, id int) (string, bool) {
	table := idx.Names[lang]
	if name := table[id]; name != "" {
		return name, true
	}
	if g := idx.IDGroups[id]; g != nil {
		for _, member := range g.Members {
			if name := table[member]; name != "" {
				return name, true
			}
		}
	}
	return "", false
}

// LookupPrintCode returns the internal identifier of a print code.
func (idx *Index) LookupPrintCode(code string) (int, bool) {
	pc, ok := ParsePrintCode(code)
	if !ok {
		return 0, false
	}
	id, ok := idx.PrintCodes[pc.String()]
	return id, ok
}

// Record builds the resolved view of a passcode.
func (idx *Index) Record(passcode int) (CardRecord, bool) {
	id, ok := idx.PasscodeToID[passcode]
	if !ok {
		return CardRecord{}, false
	}
	return idx.withPasscode(idx.record(id), passcode), true
}

// RecordByID builds the resolved view of an internal identifier, using its
// canonical passcode when it has one.
func (idx *Index) RecordByID(id int) (CardRecord, bool) {
	if passcode, ok := idx.IDToPasscode[id]; ok {
		return idx.withPasscode(idx.record(id), passcode), true
	}
	if _, ok := idx.IDGroups[id]; !ok {
		return CardRecord{}, false
	}
	return idx.record(id), true
}

func (idx *Index) withPasscode(rec CardRecord, passcode int) CardRecord {
	rec.Passcode = passcode
	rec.Card = idx.Cards[passcode]
	if g := idx.PasscodeGroups[passcode]; g != nil {
		rec.PrintVariants = slices.Clone(g.Members)
	}
	return rec
}

func (idx *Index) record(id int) CardRecord {
	return CardRecord{
		KonamiID:     id,
		AlternateIDs: alternates(idx.IDGroups[id], id),
		Names:        idx.names(id),
		Archetype:    idx.IDToArchetype[id],
	}
}

func (idx *Index) names(id int) map[string]string {
	out := make(map[string]string, len(idx.Names))
	for lang := range idx.Names {
		if name, ok := idx.NameFor(lang, id); ok {
			out[lang] = name
		}
	}
	return out
}

// Languages returns the languages with a loaded name table, sorted.
func (idx *Index) Languages() []string {
	out := make([]string, 0, len(idx.Names))
	for lang := range idx.Names {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Known returns the identifiers the bulk sweep should materialize.
func (idx *Index) Known() filestore.Known {
	return filestore.Known{
		Passcodes: slices.Clone(idx.Passcodes),
		PrintSets: slices.Clone(idx.PrintSets),
	}
}

func alternates(g *Group, self int) []int {
	if g == nil {
		return nil
	}
	var out []int
	for _, m := range g.Members {
		if m != self {
			out = append(out, m)
		}
	}
	return out
}

// normalizePrintNumber upper-cases a table key so lookups are case-insensitive.
func normalizePrintNumber(n string) string {
	return strings.ToUpper(strings.TrimSpace(n))
}
