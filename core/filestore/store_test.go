package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"card-mirror/core/address"
	"card-mirror/core/invalidation"
	"card-mirror/core/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const registryJSON = `{
  "cardinfo.json": "https://feed.example/cardinfo.json",
  "archetypes.json": "https://feed.example/archetypes.json",
  "names": {"en.json": "https://names.example/en.json"},
  "images": {"<passcode>.jpg": "https://img.example/<passcode>.jpg"},
  "prints": {
    "_sets.txt": "https://prints.example/_sets.txt",
    "<printcode>.json": "https://prints.example/<printcode>.json"
  }
}`

// mockFetcher writes the configured body to dest, like the real fetcher.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, url, dest string) (int64, error) {
	args := m.Called(url, dest)
	if err := args.Error(1); err != nil {
		return 0, err
	}
	body := args.String(0)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(dest, []byte(body), 0o644); err != nil {
		return 0, err
	}
	return int64(len(body)), nil
}

// gatedFetcher blocks every fetch until release is closed. It fails the way a
// real fetcher does when the request context is cancelled.
type gatedFetcher struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int32
	body    string
}

func newGatedFetcher(body string) *gatedFetcher {
	return &gatedFetcher{started: make(chan struct{}), release: make(chan struct{}), body: body}
}

func (g *gatedFetcher) Fetch(ctx context.Context, url, dest string) (int64, error) {
	g.calls.Add(1)
	g.once.Do(func() { close(g.started) })
	<-g.release
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, err
	}
	return int64(len(g.body)), os.WriteFile(dest, []byte(g.body), 0o644)
}

func newGatedStore(t *testing.T, f Fetcher, logger *zap.Logger) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	root, err := tree.Parse([]byte(registryJSON))
	require.NoError(t, err)
	return New(address.New(root, dir), f, invalidation.New(), logger), dir
}

func newTestStore(t *testing.T) (*Store, *mockFetcher, string) {
	t.Helper()
	dir := t.TempDir()
	root, err := tree.Parse([]byte(registryJSON))
	require.NoError(t, err)

	f := new(mockFetcher)
	return New(address.New(root, dir), f, invalidation.New(), zap.NewNop()), f, dir
}

func TestGet_FetchesOnceThenServesCache(t *testing.T) {
	store, f, dir := newTestStore(t)
	f.On("Fetch", "https://feed.example/cardinfo.json", filepath.Join(dir, "cardinfo.json")).
		Return(`{"data": [{"id": 1}]}`, nil).Once()

	doc, err := store.Get(context.Background(), "cardinfo.json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, doc.Format)

	var out struct {
		Data []struct {
			ID int `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, doc.Decode(&out))
	assert.Equal(t, 1, out.Data[0].ID)

	_, err = store.Get(context.Background(), "cardinfo.json")
	require.NoError(t, err)
	f.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestGet_NeverFetchesValidEntry(t *testing.T) {
	store, f, dir := newTestStore(t)
	path := filepath.Join(dir, "names", "en.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"Dark Magician": [4041]}`), 0o644))

	doc, err := store.Get(context.Background(), "en.json")
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	f.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestGet_InvalidatedTwiceRefetchesOnce(t *testing.T) {
	store, f, dir := newTestStore(t)
	path := filepath.Join(dir, "cardinfo.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data": []}`), 0o644))

	assert.True(t, store.Invalidate("cardinfo.json"))
	assert.True(t, store.Invalidate("cardinfo.json"))
	assert.Equal(t, 1, store.Invalidated().Len())

	f.On("Fetch", "https://feed.example/cardinfo.json", path).Return(`{"data": [{"id": 2}]}`, nil).Once()

	_, err := store.Get(context.Background(), "cardinfo.json")
	require.NoError(t, err)
	_, err = store.Get(context.Background(), "cardinfo.json")
	require.NoError(t, err)

	f.AssertNumberOfCalls(t, "Fetch", 1)
	assert.False(t, store.Invalidated().Contains(path), "successful fetch repairs the entry")
}

func TestGet_FetchFailureKeepsInvalidation(t *testing.T) {
	store, f, dir := newTestStore(t)
	path := filepath.Join(dir, "cardinfo.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data": []}`), 0o644))
	store.Invalidate("cardinfo.json")

	f.On("Fetch", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	_, err := store.Get(context.Background(), "cardinfo.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.True(t, store.Invalidated().Contains(path))
}

func TestGet_InvalidationDuringFetchSurvives(t *testing.T) {
	f := newGatedFetcher(`{"data": []}`)
	store, dir := newGatedStore(t, f, zap.NewNop())
	path := filepath.Join(dir, "cardinfo.json")

	done := make(chan error, 1)
	go func() {
		_, err := store.Get(context.Background(), "cardinfo.json")
		done <- err
	}()

	<-f.started
	require.True(t, store.Invalidate("cardinfo.json"))
	close(f.release)
	require.NoError(t, <-done)

	assert.True(t, store.Invalidated().Contains(path), "the newer invalidation is kept")
	addr, ok := store.Table().Resolve("cardinfo.json")
	require.True(t, ok)
	assert.False(t, store.IsValid(addr))
}

func TestGet_SharedFetchOutlivesCancelledCaller(t *testing.T) {
	f := newGatedFetcher(`{}`)
	store, _ := newGatedStore(t, f, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := store.Get(ctx, "en.json")
		first <- err
	}()
	<-f.started

	second := make(chan error, 1)
	go func() {
		_, err := store.Get(context.Background(), "en.json")
		second <- err
	}()

	cancel()
	close(f.release)

	assert.NoError(t, <-first)
	assert.NoError(t, <-second)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestGet_FetchFailureLoggedOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := new(mockFetcher)
	f.On("Fetch", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))
	store, _ := newGatedStore(t, f, zap.New(core))

	_, err := store.Get(context.Background(), "cardinfo.json")
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "cardinfo.json", logs.All()[0].ContextMap()["element"])
}

func TestGet_UnknownElement(t *testing.T) {
	store, f, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nope.json")
	assert.ErrorIs(t, err, ErrUnknownElement)
	f.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestGet_Formats(t *testing.T) {
	store, f, dir := newTestStore(t)

	t.Run("ArrayIsWrapped", func(t *testing.T) {
		f.On("Fetch", "https://feed.example/archetypes.json", filepath.Join(dir, "archetypes.json")).
			Return(`[{"archetype_name": "Blue-Eyes"}]`, nil).Once()

		doc, err := store.Get(context.Background(), "archetypes.json")
		require.NoError(t, err)

		var out struct {
			Data []map[string]string `json:"data"`
		}
		require.NoError(t, doc.Decode(&out))
		assert.Equal(t, "Blue-Eyes", out.Data[0]["archetype_name"])
	})

	t.Run("TextList", func(t *testing.T) {
		f.On("Fetch", "https://prints.example/_sets.txt", filepath.Join(dir, "prints", "_sets.txt")).
			Return("LOB-EN\n\n# comment\nSDK-JP\n", nil).Once()

		doc, err := store.Get(context.Background(), "_sets.txt")
		require.NoError(t, err)
		assert.Equal(t, FormatLines, doc.Format)
		assert.Equal(t, []string{"LOB-EN", "SDK-JP"}, doc.Lines)
		assert.Error(t, doc.Decode(&struct{}{}))
	})

	t.Run("Image", func(t *testing.T) {
		f.On("Fetch", "https://img.example/123.jpg", filepath.Join(dir, "images", "123.jpg")).
			Return("\xff\xd8binary", nil).Once()

		doc, err := store.Get(context.Background(), "123.jpg")
		require.NoError(t, err)
		assert.Equal(t, FormatRaw, doc.Format)
		assert.Equal(t, []byte("\xff\xd8binary"), doc.Raw)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		f.On("Fetch", "https://prints.example/BAD-EN.json", filepath.Join(dir, "prints", "BAD-EN.json")).
			Return(`{"001": `, nil).Once()

		_, err := store.Get(context.Background(), "BAD-EN.json")
		assert.Error(t, err)
	})
}

func TestGet_ConcurrentCallersShareFetch(t *testing.T) {
	store, f, dir := newTestStore(t)
	f.On("Fetch", "https://names.example/en.json", filepath.Join(dir, "names", "en.json")).
		Return(`{}`, nil).WaitUntil(time.After(50 * time.Millisecond))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Get(context.Background(), "en.json")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	f.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestCopyArtifact(t *testing.T) {
	store, f, _ := newTestStore(t)
	f.On("Fetch", "https://img.example/89631139.jpg", mock.Anything).Return("jpeg-bytes", nil).Once()

	dest := filepath.Join(t.TempDir(), "out", "blue-eyes.jpg")
	require.NoError(t, store.CopyArtifact(context.Background(), "89631139.jpg", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	err = store.CopyArtifact(context.Background(), "unknown.bin", dest)
	assert.ErrorIs(t, err, ErrUnknownElement)
}

func TestDiscover(t *testing.T) {
	store, _, dir := newTestStore(t)

	sets, err := store.Discover(address.TokenPrintCode)
	require.NoError(t, err)
	assert.Empty(t, sets)

	prints := filepath.Join(dir, "prints")
	require.NoError(t, os.MkdirAll(prints, 0o755))
	for _, name := range []string{"SDK-JP.json", "LOB-EN.json", "_sets.txt", ".LOB-EN.json.123.tmp"} {
		require.NoError(t, os.WriteFile(filepath.Join(prints, name), []byte("{}"), 0o644))
	}

	sets, err = store.Discover(address.TokenPrintCode)
	require.NoError(t, err)
	assert.Equal(t, []string{"LOB-EN", "SDK-JP"}, sets)
}

func TestFetchAll(t *testing.T) {
	store, f, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cardinfo.json"), []byte(`{}`), 0o644))

	f.On("Fetch", "https://img.example/404.jpg", mock.Anything).Return("", errors.New("not found"))
	f.On("Fetch", mock.Anything, mock.Anything).Return(`{}`, nil)

	report := store.FetchAll(context.Background(), Known{
		Passcodes: []int{1, 404},
		PrintSets: []string{"LOB-EN"},
	})

	// cardinfo, archetypes, en, _sets, 2 images, 1 print table
	assert.Equal(t, 7, report.Total)
	assert.Equal(t, 1, report.Cached)
	assert.Equal(t, 5, report.Fetched)
	assert.Equal(t, 1, report.Failed)
}
