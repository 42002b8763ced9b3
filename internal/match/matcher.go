package match

import (
	"github.com/Another0Noob/tachibk/internal/similarity"
)

// Basis records which signal established a match. Higher values are stronger;
// a group reports the strongest basis seen while it was built.
type Basis int

const (
	BasisNone Basis = iota
	BasisFuzzy
	BasisTitle
	BasisCrossRef
)

func (b Basis) String() string {
	switch b {
	case BasisCrossRef:
		return "cross-reference"
	case BasisTitle:
		return "title"
	case BasisFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// FuzzyThreshold is the similarity score a pair must strictly exceed to count
// as a fuzzy match.
const FuzzyThreshold = 90

// Result is the outcome of one pairwise comparison.
type Result struct {
	OK    bool
	Basis Basis
}

// Matcher decides whether two records denote the same item. The checks run in
// strict priority order and short-circuit: equal cross-reference ids, then
// normalized-title membership in the other record's enhanced set, then raw
// title similarity above the threshold. Every check is symmetric in a and b.
type Matcher struct {
	Fuzzy     similarity.Ratio
	Threshold int
}

func NewMatcher(fuzzy similarity.Ratio) *Matcher {
	return &Matcher{Fuzzy: fuzzy, Threshold: FuzzyThreshold}
}

func (m *Matcher) Match(a, b Signals) Result {
	if a.CrossRefID != "" && b.CrossRefID != "" && a.CrossRefID == b.CrossRefID {
		return Result{OK: true, Basis: BasisCrossRef}
	}
	if inSet(a.Enhanced, b.NormTitle) || inSet(b.Enhanced, a.NormTitle) {
		return Result{OK: true, Basis: BasisTitle}
	}
	if m.Fuzzy != nil && m.Fuzzy.Ratio(a.Record.Title, b.Record.Title) > m.Threshold {
		return Result{OK: true, Basis: BasisFuzzy}
	}
	return Result{}
}

// inSet never matches the empty key: distinct non-Latin titles all normalize
// to "", which must not make them equal.
func inSet(set map[string]struct{}, key string) bool {
	if key == "" {
		return false
	}
	_, ok := set[key]
	return ok
}
