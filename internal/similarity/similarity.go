// Package similarity provides the string-similarity strategies the duplicate
// matcher is built on. A strategy is chosen once at startup and injected; the
// matcher never touches a global.
package similarity

import (
	"fmt"
	"math"
	"strings"

	"github.com/xrash/smetrics"
)

// Ratio scores how alike two strings are on a 0-100 scale. 100 means
// identical, 0 means nothing in common. Implementations must be symmetric.
type Ratio interface {
	Name() string
	Ratio(a, b string) int
}

const (
	// NameEdit is the default, edit-distance-based strategy.
	NameEdit = "ratio"
	// NameToken is the coarser token-overlap fallback.
	NameToken = "token"
)

// ForName returns the strategy for a --similarity flag value. The empty
// string selects the default. An unknown name is an error; callers fall back
// to Token with a warning rather than failing the run.
func ForName(name string) (Ratio, error) {
	switch name {
	case "", NameEdit:
		return Edit{}, nil
	case NameToken:
		return Token{}, nil
	default:
		return nil, fmt.Errorf("unknown similarity strategy %q", name)
	}
}

// Edit scores by weighted edit distance. With substitutions costing two,
// WagnerFischer(a, b) equals len(a)+len(b) minus twice the characters an
// LCS-style alignment matches, so the score below is 2*matches/(len(a)+len(b))
// scaled to 0-100.
type Edit struct{}

func (Edit) Name() string { return NameEdit }

func (Edit) Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	total := len(a) + len(b)
	d := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return int(math.Round(float64(total-d) / float64(total) * 100))
}

// Token scores by Jaccard overlap of whitespace-delimited tokens. Cheaper and
// coarser than Edit; it keeps the same 0-100 scale so threshold semantics are
// unchanged.
type Token struct{}

func (Token) Name() string { return NameToken }

func (Token) Ratio(a, b string) int {
	fa, fb := strings.Fields(a), strings.Fields(b)
	if len(fa) == 0 || len(fb) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(fa))
	for _, t := range fa {
		set[t] = struct{}{}
	}
	inter := 0
	seen := make(map[string]struct{}, len(fb))
	for _, t := range fb {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			inter++
		}
	}
	union := len(set) + len(seen) - inter
	return int(math.Round(float64(inter) / float64(union) * 100))
}
