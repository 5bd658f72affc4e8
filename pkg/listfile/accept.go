package listfile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Accepter decides whether a non-blank list entry belongs to the batch.
// String names the criterion and is quoted in warnings for rejected
// entries.
type Accepter interface {
	Accept(entry string) bool
	String() string
}

// ExtensionSet accepts entries whose suffix after the last "." is a
// member of a fixed set. Matching is case-sensitive, so "JPG" does not
// satisfy a {jpg} filter. Entries without a "." are rejected.
type ExtensionSet struct {
	exts []string
}

// NewExtensionSet builds an extension filter. A leading dot is dropped
// from each entry, so "jpg" and ".jpg" configure the same filter.
func NewExtensionSet(exts ...string) (*ExtensionSet, error) {
	if len(exts) == 0 {
		return nil, fmt.Errorf("extension filter needs at least one extension")
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimPrefix(strings.TrimSpace(e), ".")
		if e == "" {
			return nil, fmt.Errorf("invalid empty extension in filter")
		}
		out = append(out, e)
	}
	return &ExtensionSet{exts: out}, nil
}

func (s *ExtensionSet) Accept(entry string) bool {
	i := strings.LastIndexByte(entry, '.')
	if i < 0 {
		return false
	}
	return slices.Contains(s.exts, entry[i+1:])
}

func (s *ExtensionSet) String() string {
	return "extension in {" + strings.Join(s.exts, ", ") + "}"
}

// Pattern accepts entries matching a shell-style wildcard pattern over
// the whole entry. The wildcard crosses "/", so "*.jpg" also accepts
// "http://host/a/b.jpg".
type Pattern struct {
	raw string
	g   glob.Glob
}

func NewPattern(pattern string) (*Pattern, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &Pattern{raw: pattern, g: g}, nil
}

func (p *Pattern) Accept(entry string) bool {
	return p.g.Match(entry)
}

func (p *Pattern) String() string {
	return fmt.Sprintf("pattern %q", p.raw)
}
