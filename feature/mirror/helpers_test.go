package mirror

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"card-mirror/core/address"
	"card-mirror/core/filestore"
	"card-mirror/core/identity"
	"card-mirror/core/invalidation"
	"card-mirror/core/revision"
	"card-mirror/core/tree"

	"github.com/stretchr/testify/require"
)

const registryJSON = `{
  "cardinfo.json": "https://feed.example/cardinfo.json",
  "names": {"en.json": "https://names.example/en.json"},
  "images": {"<passcode>.jpg": "https://img.example/<passcode>.jpg"}
}`

type fakeTracker struct {
	local, remote int
	remoteErr     error
	syncErr       error
	synced        int
}

func (f *fakeTracker) Local() (int, error) { return f.local, nil }

func (f *fakeTracker) Remote(context.Context) (int, error) { return f.remote, f.remoteErr }

func (f *fakeTracker) Sync(context.Context) (int, error) {
	f.synced++
	if f.syncErr != nil {
		return f.local, f.syncErr
	}
	if f.remote > f.local {
		f.local = f.remote
	}
	return f.local, nil
}

func (f *fakeTracker) State() revision.State { return revision.Idle }

type fakeResolver struct {
	idx    *identity.Index
	err    error
	resets int
}

func (f *fakeResolver) Index(context.Context) (*identity.Index, error) { return f.idx, f.err }

func (f *fakeResolver) Reset() { f.resets++ }

type fakeStore struct {
	table   *address.Table
	invalid *invalidation.Set
	known   *filestore.Known
}

func (f *fakeStore) Table() *address.Table { return f.table }

func (f *fakeStore) Invalidated() *invalidation.Set { return f.invalid }

func (f *fakeStore) FetchAll(_ context.Context, known filestore.Known) filestore.SweepReport {
	f.known = &known
	return filestore.SweepReport{Total: len(known.Passcodes) + 2, Fetched: len(known.Passcodes)}
}

func newFakeStore(t *testing.T, dir string) *fakeStore {
	t.Helper()
	root, err := tree.Parse([]byte(registryJSON))
	require.NoError(t, err)
	return &fakeStore{table: address.New(root, dir), invalid: invalidation.New()}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}
