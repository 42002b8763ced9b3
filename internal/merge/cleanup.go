package merge

import (
	"fmt"

	"github.com/Another0Noob/tachibk/internal/catalog"
)

// CleanupMode selects which occurrence of a repeated title survives a cleanup.
type CleanupMode string

const (
	CleanupKeepFirst CleanupMode = "keep_first"
	CleanupKeepLast  CleanupMode = "keep_last"
)

func ParseCleanupMode(s string) (CleanupMode, error) {
	switch CleanupMode(s) {
	case CleanupKeepFirst, CleanupKeepLast:
		return CleanupMode(s), nil
	}
	return "", fmt.Errorf("unknown cleanup mode %q (want keep_first or keep_last)", s)
}

// Cleanup deduplicates a single collection by raw title. Under keep_last the
// newcomer takes over the bucket in place, so the output position of a title
// is still where its first occurrence sat. Auxiliary data passes through
// untouched.
func Cleanup(col catalog.Collection, mode CleanupMode) Result {
	res := Result{
		TotalIn:   len(col.Records),
		Processed: []string{col.Name},
		Aux:       col.Aux,
	}
	b := newBuckets()

	for _, rec := range col.Records {
		existing, ok := b.get(rec.Title)
		if !ok {
			b.insert(rec.Title, rec)
			res.Decisions = append(res.Decisions, Decision{Kind: KindAdded, Record: rec, BucketKey: rec.Title})
			continue
		}
		switch mode {
		case CleanupKeepFirst:
			res.Decisions = append(res.Decisions, Decision{Kind: KindSkippedDuplicate, Record: rec, Other: &existing, BucketKey: rec.Title})
		case CleanupKeepLast:
			b.insert(rec.Title, rec)
			res.Decisions = append(res.Decisions, Decision{Kind: KindSkippedDuplicate, Record: existing, Other: &rec, BucketKey: rec.Title})
		}
	}

	res.Records = b.records()
	return res
}
