package symbols

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPalette(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)
	assert.Len(t, p, 18)
	assert.Equal(t, "🐶", p[0])

	// callers get their own copy
	p[0] = "x"
	again, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "🐶", again[0])
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	tests := []struct {
		name    string
		path    string
		want    []string
		wantErr error
	}{
		{name: "empty path uses default", path: "", want: nil},
		{name: "file with comments", path: write("ok.txt", "# letters\nA\n\n B \nC\n"), want: []string{"A", "B", "C"}},
		{name: "duplicates", path: write("dup.txt", "A\nB\nA\n"), wantErr: ErrInvalidPalette},
		{name: "only comments", path: write("empty.txt", "# nothing\n\n"), wantErr: ErrInvalidPalette},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Len(t, got, 18)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
