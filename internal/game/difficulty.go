// internal/game/difficulty.go
//
// Difficulty presets: difficulty key → grid shape and pair count.
// Every preset must satisfy rows × cols == 2 × pairs.

package game

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Difficulty describes the board for one preset.
type Difficulty struct {
	Key   string `json:"key"`
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Pairs int    `json:"pairs"`
}

// Validate checks the grid shape and, when paletteSize > 0, that the
// palette can supply the pairs.
func (d Difficulty) Validate(paletteSize int) error {
	if d.Rows <= 0 || d.Cols <= 0 || d.Pairs <= 0 {
		return fmt.Errorf("%w: difficulty %q: rows, cols and pairs must be positive", ErrConfiguration, d.Key)
	}
	if d.Rows*d.Cols != 2*d.Pairs {
		return fmt.Errorf("%w: difficulty %q: %dx%d grid cannot hold %d pairs",
			ErrConfiguration, d.Key, d.Rows, d.Cols, d.Pairs)
	}
	if paletteSize > 0 && d.Pairs > paletteSize {
		return fmt.Errorf("%w: difficulty %q needs %d symbols, palette has %d",
			ErrConfiguration, d.Key, d.Pairs, paletteSize)
	}
	return nil
}

// Difficulties maps a difficulty key to its preset.
type Difficulties map[string]Difficulty

// DefaultDifficulties returns the three built-in presets.
func DefaultDifficulties() Difficulties {
	return Difficulties{
		"easy":   {Key: "easy", Rows: 3, Cols: 4, Pairs: 6},
		"medium": {Key: "medium", Rows: 4, Cols: 4, Pairs: 8},
		"hard":   {Key: "hard", Rows: 4, Cols: 6, Pairs: 12},
	}
}

// Lookup resolves a difficulty key.
func (ds Difficulties) Lookup(key string) (Difficulty, error) {
	d, ok := ds[key]
	if !ok {
		return Difficulty{}, fmt.Errorf("%w: unknown difficulty %q", ErrConfiguration, key)
	}
	return d, nil
}

// Validate checks every preset against paletteSize and requires the three
// built-in keys to be present.
func (ds Difficulties) Validate(paletteSize int) error {
	for _, k := range []string{"easy", "medium", "hard"} {
		if _, ok := ds[k]; !ok {
			return fmt.Errorf("%w: missing required difficulty %q", ErrConfiguration, k)
		}
	}
	for _, k := range ds.Keys() {
		if err := ds[k].Validate(paletteSize); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns the preset keys ordered by pair count, then key.
func (ds Difficulties) Keys() []string {
	keys := make([]string, 0, len(ds))
	for k := range ds {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := ds[keys[i]], ds[keys[j]]
		if a.Pairs != b.Pairs {
			return a.Pairs < b.Pairs
		}
		return keys[i] < keys[j]
	})
	return keys
}

// List returns the presets in Keys order.
func (ds Difficulties) List() []Difficulty {
	out := make([]Difficulty, 0, len(ds))
	for _, k := range ds.Keys() {
		out = append(out, ds[k])
	}
	return out
}

// DecodeDifficulties reads a JSON object of key → {rows, cols, pairs} and
// merges it over the built-in presets. The merged set is not validated.
func DecodeDifficulties(r io.Reader) (Difficulties, error) {
	var raw map[string]Difficulty
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode difficulties: %v", ErrConfiguration, err)
	}
	ds := DefaultDifficulties()
	for k, d := range raw {
		d.Key = k
		ds[k] = d
	}
	return ds, nil
}
