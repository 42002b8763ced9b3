package merge

import "github.com/Another0Noob/tachibk/internal/catalog"

// buckets is an insertion-ordered map from bucket key (raw title) to the
// record currently holding that bucket. Replacing a value keeps the key's
// original position, so output order is the order keys first entered the map.
type buckets struct {
	order []string
	held  map[string]catalog.Record
}

func newBuckets() *buckets {
	return &buckets{held: make(map[string]catalog.Record)}
}

func (b *buckets) get(key string) (catalog.Record, bool) {
	rec, ok := b.held[key]
	return rec, ok
}

func (b *buckets) has(key string) bool {
	_, ok := b.held[key]
	return ok
}

func (b *buckets) insert(key string, rec catalog.Record) {
	if _, ok := b.held[key]; !ok {
		b.order = append(b.order, key)
	}
	b.held[key] = rec
}

func (b *buckets) records() []catalog.Record {
	out := make([]catalog.Record, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, b.held[k])
	}
	return out
}
