// Package merge applies cleanup and merge policies over record collections.
// Buckets are keyed by the raw, unnormalized title (narrower than the
// matcher's equality), and every record processed gets exactly one audit
// decision.
package merge

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Another0Noob/tachibk/internal/catalog"
)

// Mode selects what happens when a title bucket is already occupied during a
// multi-collection merge.
type Mode string

const (
	ModeReplace   Mode = "replace"
	ModeKeepFirst Mode = "keep_first"
	ModeKeepBoth  Mode = "keep_both"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReplace, ModeKeepFirst, ModeKeepBoth:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown merge mode %q (want replace, keep_first or keep_both)", s)
}

// Kind tags an audit decision.
type Kind string

const (
	KindAdded            Kind = "Added"
	KindReplaced         Kind = "Replaced"
	KindSkippedDuplicate Kind = "SkippedDuplicate"
	KindKeptBoth         Kind = "KeptBoth"
)

// Decision is one audit-trail entry. The trail is append-only and ordered.
//
//   - Added: Record claimed a fresh bucket; Other is nil.
//   - Replaced: Record displaced Other in its bucket.
//   - SkippedDuplicate: Record was dropped in favor of Other.
//   - KeptBoth: Record was kept alongside Other under a synthetic BucketKey.
type Decision struct {
	Kind      Kind
	Record    catalog.Record
	Other     *catalog.Record
	BucketKey string
}

// Source is one merge input. Open runs lazily so that a malformed input can
// be skipped without giving up the rest of the run.
type Source struct {
	Name string
	Open func() (*catalog.Collection, error)
}

// SkippedInput records a merge input that could not be read.
type SkippedInput struct {
	Name string
	Err  error
}

// AuxMergeFunc folds collection-level auxiliary data across merge inputs.
type AuxMergeFunc func(acc, next any) any

// Result of a cleanup or merge run. Records are in bucket-insertion order:
// the order each surviving title first claimed a bucket, not input order.
type Result struct {
	Records   []catalog.Record
	Decisions []Decision
	Aux       any
	Processed []string
	Skipped   []SkippedInput
	TotalIn   int
}

// Count returns how many decisions of the given kind were recorded.
func (r *Result) Count(kind Kind) int {
	n := 0
	for _, d := range r.Decisions {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Engine runs multi-collection merges. MergeAux resolves collection-level
// auxiliary data; when nil, the last collection with non-nil aux wins
// wholesale. The backup codec injects its per-field variant instead.
type Engine struct {
	Log      zerolog.Logger
	MergeAux AuxMergeFunc
}

func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{Log: log}
}

// Merge folds the sources, in order, into one collection. Unreadable sources
// are logged and skipped; input order decides which record wins under
// ModeReplace. Every record read produces exactly one Decision. Merging
// nothing (every source unreadable) is an error.
func (e *Engine) Merge(sources []Source, mode Mode) (*Result, error) {
	res := &Result{}
	b := newBuckets()

	mergeAux := e.MergeAux
	if mergeAux == nil {
		mergeAux = func(acc, next any) any {
			if next != nil {
				return next
			}
			return acc
		}
	}

	var aux any
	for _, src := range sources {
		col, err := src.Open()
		if err != nil {
			e.Log.Error().Err(err).Str("collection", src.Name).Msg("skipping unreadable collection")
			res.Skipped = append(res.Skipped, SkippedInput{Name: src.Name, Err: err})
			continue
		}
		res.Processed = append(res.Processed, src.Name)
		res.TotalIn += len(col.Records)

		for _, rec := range col.Records {
			existing, ok := b.get(rec.Title)
			if !ok {
				b.insert(rec.Title, rec)
				res.Decisions = append(res.Decisions, Decision{Kind: KindAdded, Record: rec, BucketKey: rec.Title})
				continue
			}
			switch mode {
			case ModeReplace:
				b.insert(rec.Title, rec)
				res.Decisions = append(res.Decisions, Decision{Kind: KindReplaced, Record: rec, Other: &existing, BucketKey: rec.Title})
			case ModeKeepFirst:
				res.Decisions = append(res.Decisions, Decision{Kind: KindSkippedDuplicate, Record: rec, Other: &existing, BucketKey: rec.Title})
			case ModeKeepBoth:
				key := syntheticKey(b, rec.Title)
				b.insert(key, rec)
				res.Decisions = append(res.Decisions, Decision{Kind: KindKeptBoth, Record: rec, Other: &existing, BucketKey: key})
			}
		}

		aux = mergeAux(aux, col.Aux)
	}

	if len(res.Processed) == 0 {
		return nil, fmt.Errorf("none of the %d input collections could be read", len(sources))
	}

	res.Records = b.records()
	res.Aux = aux
	return res, nil
}

// syntheticKey derives an unused bucket key for a keep_both duplicate.
func syntheticKey(b *buckets, title string) string {
	for n := 1; ; n++ {
		key := fmt.Sprintf("%s_duplicate_%d", title, n)
		if !b.has(key) {
			return key
		}
	}
}
