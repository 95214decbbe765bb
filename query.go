package marisa

import "github.com/marisago/marisa/common/exceptions"

// Query carries the input to a search: either byte content (for Lookup,
// CommonPrefixSearch, PredictiveSearch) or a key id (for ReverseLookup).
// An Agent is built from exactly one of the two.
type Query struct {
	bytes []byte
	id    int
	hasID bool
}

// QueryBytes builds a byte-content query.
func QueryBytes(b []byte) Query { return Query{bytes: b} }

// QueryID builds a key-id query for ReverseLookup.
func QueryID(id int) Query { return Query{id: id, hasID: true} }

func (q Query) Bytes() []byte { return q.bytes }

func (q Query) ID() (int, error) {
	if !q.hasID {
		return 0, exceptions.New(exceptions.KindInvalidInput, "query: not an id query")
	}
	return q.id, nil
}
