package address

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"card-mirror/core/tree"
)

// Placeholder tokens used by parameterized registry keys.
const (
	TokenPasscode  = "<passcode>"
	TokenPrintCode = "<printcode>"
	TokenKonamiID  = "<konamiId>"
)

// Kind is the shape class of a logical element name.
type Kind int

const (
	// Literal names are matched verbatim against registry keys.
	Literal Kind = iota
	// Passcode names are per-card images such as "89631139.jpg".
	Passcode
	// KonamiID names are per-item supplemental records such as "4007.json".
	KonamiID
	// PrintCode names carry a dash-separated print or set code such as "LOB-EN.json".
	PrintCode
)

// Token returns the placeholder token matching the kind, or "" for literals.
func (k Kind) Token() string {
	switch k {
	case Passcode:
		return TokenPasscode
	case KonamiID:
		return TokenKonamiID
	case PrintCode:
		return TokenPrintCode
	default:
		return ""
	}
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Classify determines the kind of an element name and its variable part.
func Classify(name string) (Kind, string) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	if stem != "" && isDigits(stem) {
		if imageExtensions[strings.ToLower(ext)] {
			return Passcode, stem
		}
		if ext == ".json" {
			return KonamiID, stem
		}
	}
	if strings.Contains(name, "-") {
		return PrintCode, stem
	}
	return Literal, ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isTemplate(key string) bool {
	return strings.Contains(key, TokenPasscode) ||
		strings.Contains(key, TokenPrintCode) ||
		strings.Contains(key, TokenKonamiID)
}

// Address is the resolved location of a logical element.
type Address struct {
	// Element is the logical element name that was resolved.
	Element string
	// LocalPath is where the element is cached on disk.
	LocalPath string
	// RemoteURL is where the element is fetched from.
	RemoteURL string
}

// Family describes a parameterized family of elements.
type Family struct {
	// Token is the placeholder token of the family.
	Token string
	// Dir is the local directory holding the family's elements.
	Dir string
	// Pattern is the registry key, e.g. "<passcode>.jpg".
	Pattern string
}

// Match extracts the variable part from a file name of this family.
func (f Family) Match(fileName string) (string, bool) {
	prefix, suffix, ok := strings.Cut(f.Pattern, f.Token)
	if !ok {
		return "", false
	}
	if len(fileName) < len(prefix)+len(suffix) || !strings.HasPrefix(fileName, prefix) ||
		!strings.EqualFold(fileName[len(fileName)-len(suffix):], suffix) {
		return "", false
	}
	variable := fileName[len(prefix) : len(fileName)-len(suffix)]
	if variable == "" {
		return "", false
	}
	return variable, true
}

// Element builds the element name for a variable part.
func (f Family) Element(variable string) string {
	return strings.Replace(f.Pattern, f.Token, variable, 1)
}

// Table maps logical element names onto local paths and remote URLs.
// It is immutable once loaded.
type Table struct {
	root    *tree.Node
	baseDir string
}

// New creates a table from a registry tree. Local paths are rooted at baseDir.
func New(root *tree.Node, baseDir string) *Table {
	return &Table{root: root, baseDir: baseDir}
}

// Load reads a JSON registry file.
func Load(registryPath, baseDir string) (*Table, error) {
	data, err := os.ReadFile(registryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	root, err := tree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", registryPath, err)
	}
	return New(root, baseDir), nil
}

// BaseDir returns the directory local paths are rooted at.
func (t *Table) BaseDir() string {
	return t.baseDir
}

// Resolve returns the address of an element. A miss is not an error: the
// element is simply not part of the known feed surface.
func (t *Table) Resolve(name string) (Address, bool) {
	if name == "" {
		return Address{}, false
	}
	kind, variable := Classify(name)
	if kind == PrintCode {
		// literal registry keys may contain a dash too
		if addr, ok := t.resolve(name, "", ""); ok {
			return addr, true
		}
	}
	return t.resolve(name, kind.Token(), variable)
}

func (t *Table) resolve(name, token, variable string) (Address, bool) {
	var (
		found Address
		ok    bool
	)
	tree.Walk(t.root, func(path []string, n *tree.Node) tree.Action {
		if n.IsBranch() {
			return tree.Continue
		}
		url := n.String()
		if url == "" {
			return tree.Continue
		}

		switch {
		case token == "":
			if isTemplate(n.Key) || n.Key != name {
				return tree.Continue
			}
		default:
			if !strings.Contains(n.Key, token) {
				return tree.Continue
			}
			// extensions compare case-insensitively; the cached name is the registry's
			canonical := strings.Replace(n.Key, token, variable, 1)
			if !strings.EqualFold(canonical, name) {
				return tree.Continue
			}
			name = canonical
			url = strings.ReplaceAll(url, token, variable)
		}

		found = Address{
			Element:   name,
			LocalPath: t.localPath(path, name),
			RemoteURL: url,
		}
		ok = true
		return tree.Stop
	})
	return found, ok
}

// Literals returns the addresses of every non-parameterized element.
func (t *Table) Literals() []Address {
	var out []Address
	tree.Walk(t.root, func(path []string, n *tree.Node) tree.Action {
		if n.IsBranch() || isTemplate(n.Key) || n.String() == "" {
			return tree.Continue
		}
		out = append(out, Address{
			Element:   n.Key,
			LocalPath: t.localPath(path, n.Key),
			RemoteURL: n.String(),
		})
		return tree.Continue
	})
	return out
}

// Family returns the first registry family using the given token.
func (t *Table) Family(token string) (Family, bool) {
	var (
		fam Family
		ok  bool
	)
	tree.Walk(t.root, func(path []string, n *tree.Node) tree.Action {
		if n.IsBranch() || !strings.Contains(n.Key, token) {
			return tree.Continue
		}
		fam = Family{
			Token:   token,
			Dir:     filepath.Join(append([]string{t.baseDir}, path...)...),
			Pattern: n.Key,
		}
		ok = true
		return tree.Stop
	})
	return fam, ok
}

func (t *Table) localPath(dirs []string, name string) string {
	parts := make([]string, 0, len(dirs)+2)
	parts = append(parts, t.baseDir)
	parts = append(parts, dirs...)
	parts = append(parts, name)
	return filepath.Join(parts...)
}
