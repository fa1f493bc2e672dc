// assets/embed.go
//
// Embedded static data shipped with the binary.

package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed palette.txt
var FS embed.FS

// readLines returns the trimmed, non-empty, non-comment lines of an embedded file.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
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

// Palette returns the default tile symbols in deal order.
func Palette() ([]string, error) {
	return readLines("palette.txt")
}
