package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "object", in: ` {"a": 1} `, want: `{"a": 1}`},
		{name: "array", in: `[1, 2]`, want: `{"data":[1, 2]}`},
		{name: "empty", in: "  \n", wantErr: true},
		{name: "scalar", in: `"text"`, wantErr: true},
		{name: "truncated", in: `{"a": [`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeJSON([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestParseDocument_ExtensionIsCaseInsensitive(t *testing.T) {
	doc, err := parseDocument("SETS.TXT", "/tmp/SETS.TXT", []byte("A\r\nB\n"))
	require.NoError(t, err)
	assert.Equal(t, FormatLines, doc.Format)
	assert.Equal(t, []string{"A", "B"}, doc.Lines)
}
