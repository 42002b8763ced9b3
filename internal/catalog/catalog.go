// Package catalog holds the domain types shared by the matching and merge
// engines: library records projected out of a backup, the collections they
// came from, and external reference entries used for title enrichment.
package catalog

// Origin identifies a record by where it was decoded from.
type Origin struct {
	Collection int // index of the input collection
	Record     int // index of the record within that collection
}

// Record is one library entry. Immutable once constructed; the engines only
// read it. Payload is an opaque handle owned by the codec that produced the
// record, carried through so kept records can be re-encoded without loss.
type Record struct {
	Title     string
	SourceID  string
	URL       string
	AltTitles []string
	Origin    Origin
	Payload   any
}

// Collection is one decoded input: its records in original order plus any
// collection-level auxiliary data (categories, reader preferences, ...) that
// is opaque to matching but must survive merges.
type Collection struct {
	Name    string
	Records []Record
	Aux     any
}
