// internal/symbols/symbols.go
//
// Tile palette management.
//
// Responsibilities:
//   - Provide the embedded default palette (18 animal emoji).
//   - Load an alternative palette from a file (SYMBOLS_FILE), one symbol per line.
//   - Reject palettes that could produce ambiguous boards (duplicates, blanks).
//
// Load behavior:
//   1. If path is set, read that file; '#' lines and blank lines are skipped.
//   2. Otherwise fall back to the embedded default.
//
// A round with N pairs deals the first N symbols, so ordering matters.

package symbols

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/yagogamebrasil01-cpu/memory-rush/assets"
)

// ErrInvalidPalette is returned for empty palettes or duplicate symbols.
var ErrInvalidPalette = errors.New("symbols: invalid palette")

var (
	defaultOnce sync.Once
	defaultSet  []string
	defaultErr  error
)

// Default returns the embedded palette. Loaded once.
func Default() ([]string, error) {
	defaultOnce.Do(func() {
		list, err := assets.Palette()
		if err != nil {
			defaultErr = err
			return
		}
		defaultErr = validate(list)
		defaultSet = list
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]string(nil), defaultSet...), nil
}

// Load returns the palette stored at path, or the default when path is empty.
func Load(path string) ([]string, error) {
	if path == "" {
		return Default()
	}
	list, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := validate(list); err != nil {
		return nil, err
	}
	return list, nil
}

// readFile loads one symbol per line, trimming whitespace.
func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

func validate(list []string) error {
	if len(list) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidPalette)
	}
	seen := make(map[string]struct{}, len(list))
	for _, s := range list {
		if _, dup := seen[s]; dup {
			return fmt.Errorf("%w: duplicate symbol %q", ErrInvalidPalette, s)
		}
		seen[s] = struct{}{}
	}
	return nil
}
