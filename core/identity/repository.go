package identity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"card-mirror/core/address"
	"card-mirror/core/filestore"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrBootstrap means a primary feed is missing and no index can be built.
var ErrBootstrap = errors.New("identity bootstrap failed")

// Feed element names.
const (
	CatalogElement   = "cardinfo.json"
	ArchetypeElement = "archetypes.json"
	SetListElement   = "_sets.txt"
)

// PrimaryLanguage is the name feed that defines identifier groups.
const PrimaryLanguage = "en"

// Languages lists the name feeds loaded into the index.
var Languages = []string{"en", "fr", "ja"}

// fanOut bounds the goroutines used for per-item and per-set loads.
const fanOut = 32

// Store is the read side of the file store used by the resolver.
type Store interface {
	Get(ctx context.Context, name string) (*filestore.Document, error)
	Discover(token string) ([]string, error)
}

// Repository owns the identity index. The index is built lazily on first use
// and kept until Reset.
type Repository struct {
	store  Store
	logger *zap.Logger

	mu    sync.Mutex
	index *Index
}

// NewRepository creates a repository reading feeds from store.
func NewRepository(store Store, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{store: store, logger: logger}
}

// Index returns the cross-reference, building it on first call. A failed build
// is not cached.
func (r *Repository) Index(ctx context.Context) (*Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index != nil {
		return r.index, nil
	}
	idx, err := r.build(ctx)
	if err != nil {
		return nil, err
	}
	r.index = idx
	return idx, nil
}

// Reset drops the index so the next call rebuilds it from the store.
func (r *Repository) Reset() {
	r.mu.Lock()
	r.index = nil
	r.mu.Unlock()
}

// NameFor returns the localized name of an internal identifier, falling back to
// the names of its co-named identifiers. A miss is reported, not an error.
func (r *Repository) NameFor(ctx context.Context, lang string, id int) (string, bool, error) {
	idx, err := r.Index(ctx)
	if err != nil {
		return "", false, err
	}
	name, ok := idx.NameFor(lang, id)
	return name, ok, nil
}

func (r *Repository) build(ctx context.Context) (*Index, error) {
	start := time.Now()
	idx := newIndex()

	nameFeed, err := r.loadNames(ctx, PrimaryLanguage)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBootstrap, err)
	}
	var catalog catalogFeed
	if err := r.decode(ctx, CatalogElement, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBootstrap, err)
	}

	names := sortedKeys(nameFeed)
	for _, name := range names {
		idx.groupIDs(nameFeed[name])
	}
	idx.Names[PrimaryLanguage] = invert(names, nameFeed)

	idx.applyCatalog(catalog.Data, nameFeed)
	r.fillGaps(ctx, idx)

	for _, lang := range Languages {
		if lang == PrimaryLanguage {
			continue
		}
		feed, err := r.loadNames(ctx, lang)
		if err != nil {
			r.logger.Warn("Name feed unavailable", zap.String("language", lang), zap.Error(err))
			continue
		}
		idx.Names[lang] = invert(sortedKeys(feed), feed)
	}

	r.loadArchetypes(ctx, idx)
	r.loadPrintCodes(ctx, idx)

	idx.Passcodes = make([]int, 0, len(idx.PasscodeToID))
	for p := range idx.PasscodeToID {
		idx.Passcodes = append(idx.Passcodes, p)
	}
	sort.Ints(idx.Passcodes)

	r.logger.Info("Identity index built",
		zap.Int("passcodes", len(idx.Passcodes)),
		zap.Int("identifiers", len(idx.IDGroups)),
		zap.Int("print_codes", len(idx.PrintCodes)),
		zap.Int("unresolved", len(idx.Unresolved)),
		zap.Duration("duration", time.Since(start)))
	return idx, nil
}

// groupIDs puts co-named identifiers into one shared group.
func (idx *Index) groupIDs(ids []int) {
	link(idx.IDGroups, ids)
}

// link puts members into one shared group, merging any group a member already
// belongs to.
func link(groups map[int]*Group, members []int) {
	var g *Group
	for _, m := range members {
		existing := groups[m]
		switch {
		case existing == nil:
		case g == nil:
			g = existing
		case existing != g:
			for _, other := range existing.Members {
				g.add(other)
				groups[other] = g
			}
		}
	}
	if g == nil {
		g = &Group{}
	}
	for _, m := range members {
		g.add(m)
		groups[m] = g
	}
}

// applyCatalog is the primary pass: the first identifier of a card's name
// claims every artwork passcode, and the artworks join one print group. Entries
// sharing an artwork end up in the same group.
func (idx *Index) applyCatalog(cards []Card, nameFeed map[string][]int) {
	for i := range cards {
		card := &cards[i]
		ids := nameFeed[card.Name]
		if len(ids) == 0 {
			continue
		}
		primary := ids[0]

		if card.Archetype != "" {
			for _, id := range ids {
				if _, ok := idx.IDToArchetype[id]; !ok {
					idx.IDToArchetype[id] = card.Archetype
				}
			}
		}

		passcodes := card.Passcodes()
		link(idx.PasscodeGroups, passcodes)
		for _, p := range passcodes {
			if _, ok := idx.PasscodeToID[p]; !ok {
				idx.PasscodeToID[p] = primary
			}
			if _, ok := idx.IDToPasscode[primary]; !ok {
				idx.IDToPasscode[primary] = p
			}
			if _, ok := idx.Cards[p]; !ok {
				idx.Cards[p] = card
			}
		}
	}
}

type gapResult struct {
	card *Card
	err  error
}

// fillGaps is the second pass: identifiers without a passcode are completed
// from their supplemental record. Records are fetched concurrently and applied
// in ascending identifier order.
func (r *Repository) fillGaps(ctx context.Context, idx *Index) {
	var missing []int
	for id := range idx.IDGroups {
		if _, ok := idx.IDToPasscode[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return
	}
	sort.Ints(missing)

	results := make([]gapResult, len(missing))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOut)
	for i, id := range missing {
		g.Go(func() error {
			var feed catalogFeed
			if err := r.decode(gctx, strconv.Itoa(id)+".json", &feed); err != nil {
				results[i].err = err
				return nil
			}
			for j := range feed.Data {
				if feed.Data[j].ID != 0 {
					results[i].card = &feed.Data[j]
					return nil
				}
			}
			results[i].err = errors.New("record has no data")
			return nil
		})
	}
	_ = g.Wait()

	for i, id := range missing {
		res := results[i]
		if res.err != nil {
			idx.Unresolved = append(idx.Unresolved, id)
			r.logger.Warn("Identifier left unresolved", zap.Int("konami_id", id), zap.Error(res.err))
			continue
		}

		passcode := res.card.ID
		idx.IDToPasscode[id] = passcode
		if _, ok := idx.PasscodeToID[passcode]; !ok {
			idx.PasscodeToID[passcode] = id
		}
		if _, ok := idx.PasscodeGroups[passcode]; !ok {
			idx.PasscodeGroups[passcode] = &Group{Members: []int{passcode}}
		}
		if _, ok := idx.Cards[passcode]; !ok {
			idx.Cards[passcode] = res.card
		}
		if res.card.Archetype != "" {
			if _, ok := idx.IDToArchetype[id]; !ok {
				idx.IDToArchetype[id] = res.card.Archetype
			}
		}
	}
}

func (r *Repository) loadArchetypes(ctx context.Context, idx *Index) {
	var feed archetypeFeed
	if err := r.decode(ctx, ArchetypeElement, &feed); err != nil {
		r.logger.Warn("Archetype feed unavailable", zap.Error(err))
		return
	}
	for _, a := range feed.Data {
		if a.Name != "" {
			idx.Archetypes = append(idx.Archetypes, a.Name)
		}
	}
}

type printTable struct {
	set     string
	numbers map[string]int
	err     error
}

// loadPrintCodes reads the table of every set listed in the set list or
// already present on disk. Bad tables are skipped.
func (r *Repository) loadPrintCodes(ctx context.Context, idx *Index) {
	seen := make(map[string]bool)
	var sets []string
	addSet := func(s string) {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			sets = append(sets, s)
		}
	}

	if doc, err := r.store.Get(ctx, SetListElement); err != nil {
		r.logger.Warn("Set list unavailable", zap.Error(err))
	} else {
		for _, line := range doc.Lines {
			addSet(line)
		}
	}
	onDisk, err := r.store.Discover(address.TokenPrintCode)
	if err != nil {
		r.logger.Warn("Failed to list print tables on disk", zap.Error(err))
	}
	for _, s := range onDisk {
		addSet(s)
	}
	sort.Strings(sets)

	tables := make([]printTable, len(sets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOut)
	for i, set := range sets {
		g.Go(func() error {
			tables[i].set = set
			tables[i].err = r.decode(gctx, set+".json", &tables[i].numbers)
			return nil
		})
	}
	_ = g.Wait()

	for _, t := range tables {
		if t.err != nil {
			r.logger.Warn("Skipping print table", zap.String("set", t.set), zap.Error(t.err))
			continue
		}
		for number, id := range t.numbers {
			code := t.set + normalizePrintNumber(number)
			if _, ok := idx.PrintCodes[code]; !ok {
				idx.PrintCodes[code] = id
			}
		}
		idx.PrintSets = append(idx.PrintSets, t.set)
	}
}

func (r *Repository) loadNames(ctx context.Context, lang string) (map[string][]int, error) {
	var feed map[string][]int
	if err := r.decode(ctx, lang+".json", &feed); err != nil {
		return nil, err
	}
	return feed, nil
}

func (r *Repository) decode(ctx context.Context, name string, v any) error {
	doc, err := r.store.Get(ctx, name)
	if err != nil {
		return err
	}
	return doc.Decode(v)
}

func sortedKeys(feed map[string][]int) []string {
	keys := make([]string, 0, len(feed))
	for k := range feed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// invert maps each identifier to the first name listing it.
func invert(names []string, feed map[string][]int) map[int]string {
	out := make(map[int]string)
	for _, name := range names {
		for _, id := range feed[name] {
			if _, ok := out[id]; !ok {
				out[id] = name
			}
		}
	}
	return out
}
