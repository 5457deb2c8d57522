package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"card-mirror/core/identity"

	levenshtein "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultSearchLimit caps search results when no limit is given.
const DefaultSearchLimit = 20

// SearchResult is one name match.
type SearchResult struct {
	KonamiID int    `json:"konami_id"`
	Passcode int    `json:"passcode,omitempty"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// nameIndex implements fuzzy.Source over the normalized names of one language.
type nameIndex struct {
	ids        []int
	names      []string
	normalized []string
}

func (n *nameIndex) String(i int) string { return n.normalized[i] }

func (n *nameIndex) Len() int { return len(n.ids) }

// searchCache keeps one name index per language for the current identity index.
type searchCache struct {
	mu    sync.Mutex
	owner *identity.Index
	langs map[string]*nameIndex
}

func (c *searchCache) get(idx *identity.Index, lang string) *nameIndex {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.owner != idx {
		c.owner = idx
		c.langs = make(map[string]*nameIndex)
	}
	if ni, ok := c.langs[lang]; ok {
		return ni
	}

	table := idx.Names[lang]
	ids := make([]int, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	ni := &nameIndex{ids: ids}
	for _, id := range ids {
		ni.names = append(ni.names, table[id])
		ni.normalized = append(ni.normalized, normalize(table[id]))
	}
	c.langs[lang] = ni
	return ni
}

// normalize folds width variants and case so "ＢＬＵＥ" matches "blue".
// A Caser is stateful, so each call gets its own.
func normalize(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}

// Search finds cards whose name in lang matches query. Exact and prefix
// matches rank first, the remaining fuzzy matches by edit distance.
func (s *Service) Search(ctx context.Context, query, lang string, limit int) ([]SearchResult, error) {
	idx, err := s.resolver.Index(ctx)
	if err != nil {
		return nil, err
	}
	q := normalize(query)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	names := s.search.get(idx, lang)
	matches := fuzzy.FindFrom(q, names)

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		id := names.ids[m.Index]
		results = append(results, SearchResult{
			KonamiID: id,
			Passcode: idx.IDToPasscode[id],
			Name:     names.names[m.Index],
			Score:    rank(names.normalized[m.Index], q),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		return results[i].KonamiID < results[j].KonamiID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// rank scores a match, lower is better.
func rank(name, query string) int {
	switch {
	case name == query:
		return 0
	case strings.HasPrefix(name, query):
		return 10
	case strings.Contains(name, query):
		return 50
	default:
		return 100 + levenshtein.LevenshteinDistance(query, name)
	}
}
