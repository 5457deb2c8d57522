package address

import (
	"os"
	"path/filepath"
	"testing"

	"card-mirror/core/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryJSON = `{
  "cardinfo.json": "https://feed.example/api/cardinfo.php",
  "archetypes.json": "https://feed.example/api/archetypes.php",
  "names": {
    "en.json": "https://names.example/en.json",
    "fr.json": "https://names.example/fr.json",
    "ja.json": "https://names.example/ja.json"
  },
  "images": {
    "cards": {
      "<passcode>.jpg": "https://img.example/cards/<passcode>.jpg"
    }
  },
  "prints": {
    "_sets.txt": "https://prints.example/_sets.txt",
    "<printcode>.json": "https://prints.example/sets/<printcode>.json"
  },
  "konami": {
    "<konamiId>.json": "https://db.example/card/<konamiId>"
  },
  "misc": {
    "ban-list.json": "https://feed.example/ban-list.json"
  }
}`

func newTestTable(t *testing.T) *Table {
	t.Helper()
	root, err := tree.Parse([]byte(registryJSON))
	require.NoError(t, err)
	return New(root, "/cache")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     Kind
		variable string
	}{
		{"Image", "89631139.jpg", Passcode, "89631139"},
		{"ImageUpper", "89631139.PNG", Passcode, "89631139"},
		{"Supplemental", "4007.json", KonamiID, "4007"},
		{"PrintTable", "LOB-EN.json", PrintCode, "LOB-EN"},
		{"PrintCode", "SDK-001.json", PrintCode, "SDK-001"},
		{"Literal", "cardinfo.json", Literal, ""},
		{"DigitsText", "123.txt", Literal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, variable := Classify(tt.input)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.variable, variable)
		})
	}
}

func TestResolve(t *testing.T) {
	table := newTestTable(t)

	t.Run("Literal", func(t *testing.T) {
		addr, ok := table.Resolve("fr.json")
		require.True(t, ok)
		assert.Equal(t, filepath.Join("/cache", "names", "fr.json"), addr.LocalPath)
		assert.Equal(t, "https://names.example/fr.json", addr.RemoteURL)
	})

	t.Run("Passcode", func(t *testing.T) {
		addr, ok := table.Resolve("123.jpg")
		require.True(t, ok)
		assert.Equal(t, filepath.Join("/cache", "images", "cards", "123.jpg"), addr.LocalPath)
		assert.Equal(t, "https://img.example/cards/123.jpg", addr.RemoteURL)
	})

	t.Run("PrintCode", func(t *testing.T) {
		addr, ok := table.Resolve("SDK-001.json")
		require.True(t, ok)
		assert.Equal(t, filepath.Join("/cache", "prints", "SDK-001.json"), addr.LocalPath)
		assert.Equal(t, "https://prints.example/sets/SDK-001.json", addr.RemoteURL)
	})

	t.Run("KonamiID", func(t *testing.T) {
		addr, ok := table.Resolve("7.json")
		require.True(t, ok)
		assert.Equal(t, "https://db.example/card/7", addr.RemoteURL)
	})

	t.Run("PasscodeExtensionCase", func(t *testing.T) {
		kind, _ := Classify("89631139.JPG")
		require.Equal(t, Passcode, kind)

		addr, ok := table.Resolve("89631139.JPG")
		require.True(t, ok)
		assert.Equal(t, "89631139.jpg", addr.Element)
		assert.Equal(t, filepath.Join("/cache", "images", "cards", "89631139.jpg"), addr.LocalPath)
		assert.Equal(t, "https://img.example/cards/89631139.jpg", addr.RemoteURL)

		_, ok = table.Resolve("89631139.PNG")
		assert.False(t, ok, "no png family is registered")
	})

	t.Run("DashedLiteral", func(t *testing.T) {
		addr, ok := table.Resolve("ban-list.json")
		require.True(t, ok)
		assert.Equal(t, "https://feed.example/ban-list.json", addr.RemoteURL)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, ok := table.Resolve("nothing.json")
		assert.False(t, ok)

		_, ok = table.Resolve("123.webp")
		assert.False(t, ok)

		_, ok = table.Resolve("")
		assert.False(t, ok)
	})

	t.Run("TemplateKeysAreNotLiterals", func(t *testing.T) {
		_, ok := table.Resolve("<passcode>.jpg")
		assert.False(t, ok)
	})
}

func TestResolve_BareTemplate(t *testing.T) {
	root := tree.NewBranch("", tree.NewLeaf("<passcode>.jpg", "https://x/<passcode>"))
	table := New(root, "")

	addr, ok := table.Resolve("123.jpg")
	require.True(t, ok)
	assert.Equal(t, "https://x/123", addr.RemoteURL)
}

func TestResolve_Deterministic(t *testing.T) {
	table := newTestTable(t)

	first, ok1 := table.Resolve("89631139.jpg")
	second, ok2 := table.Resolve("89631139.jpg")
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestLiterals(t *testing.T) {
	table := newTestTable(t)

	var names []string
	for _, addr := range table.Literals() {
		names = append(names, addr.Element)
	}

	assert.Equal(t, []string{
		"cardinfo.json", "archetypes.json", "en.json", "fr.json", "ja.json", "_sets.txt", "ban-list.json",
	}, names)
}

func TestFamily(t *testing.T) {
	table := newTestTable(t)

	fam, ok := table.Family(TokenPrintCode)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/cache", "prints"), fam.Dir)

	v, ok := fam.Match("LOB-EN.json")
	assert.True(t, ok)
	assert.Equal(t, "LOB-EN", v)

	_, ok = fam.Match("_sets.txt")
	assert.False(t, ok)

	v, ok = fam.Match("LOB-EN.JSON")
	assert.True(t, ok)
	assert.Equal(t, "LOB-EN", v)

	_, ok = fam.Match(".json")
	assert.False(t, ok)

	assert.Equal(t, "SDK-JP.json", fam.Element("SDK-JP"))

	_, ok = table.Family("<missing>")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(registryJSON), 0o644))

	table, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, table.BaseDir())

	_, err = Load(filepath.Join(dir, "missing.json"), dir)
	assert.Error(t, err)
}

func TestLoad_ShippedRegistry(t *testing.T) {
	dir := t.TempDir()
	table, err := Load(filepath.Join("..", "..", "registry.json"), dir)
	require.NoError(t, err)

	var names []string
	for _, addr := range table.Literals() {
		names = append(names, addr.Element)
	}
	assert.Equal(t, []string{
		"cardinfo.json", "archetypes.json", "en.json", "fr.json", "ja.json", "_sets.txt",
	}, names)

	addr, ok := table.Resolve("89631139.jpg")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "images", "cards", "89631139.jpg"), addr.LocalPath)
	assert.Contains(t, addr.RemoteURL, "89631139")

	addr, ok = table.Resolve("LOB-EN.json")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "prints", "LOB-EN.json"), addr.LocalPath)
	assert.Contains(t, addr.RemoteURL, "LOB-EN")

	addr, ok = table.Resolve("4007.json")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "cards", "4007.json"), addr.LocalPath)
	assert.Contains(t, addr.RemoteURL, "4007")

	for _, token := range []string{TokenPasscode, TokenPrintCode, TokenKonamiID} {
		_, ok := table.Family(token)
		assert.True(t, ok, token)
	}
}
