package marisa

import (
	"github.com/marisago/marisa/common/exceptions"
	internaltrie "github.com/marisago/marisa/internal/grimoire/trie"
)

// AgentState tracks what an Agent is allowed to do next.
type AgentState int

const (
	AgentUninitialized AgentState = iota
	AgentInitialized
	AgentSearching
	AgentDone
)

// Result is one hit from any of the four search operations.
type Result struct {
	KeyID  int
	Bytes  []byte
	Length int
}

// Agent is a reusable, resumable search cursor: one Agent can run many
// queries over the same Trie without reallocating per call, and a
// CommonPrefixSearch/PredictiveSearch can be pulled one Result at a time
// via Next rather than materializing every hit up front.
type Agent struct {
	state AgentState
	trie  *Trie
	query Query

	prefixHits []internaltrie.PrefixMatch
	prefixPos  int
	predIter   *internaltrie.SubtreeIter
}

// NewAgent returns an Agent bound to t, in state Uninitialized.
func NewAgent(t *Trie) *Agent {
	return &Agent{state: AgentUninitialized, trie: t}
}

func (a *Agent) State() AgentState { return a.state }

// Set loads a query and moves the Agent to Initialized, discarding any
// in-progress search.
func (a *Agent) Set(q Query) {
	a.query = q
	a.prefixHits = nil
	a.prefixPos = 0
	a.predIter = nil
	a.state = AgentInitialized
}

func (a *Agent) requireInitialized() error {
	if a.state == AgentUninitialized {
		return exceptions.New(exceptions.KindNotBuilt, "agent: query not set")
	}
	return nil
}

// Lookup runs a one-shot exact match against a.query's bytes. ok is false
// when the query is well-formed but the key is absent, matching the
// not-found idiom Next uses; err is reserved for state misuse (query not
// set).
func (a *Agent) Lookup() (res Result, ok bool, err error) {
	if err := a.requireInitialized(); err != nil {
		return Result{}, false, err
	}
	id, found := a.trie.root.Lookup(a.query.Bytes())
	a.state = AgentDone
	if !found {
		return Result{}, false, nil
	}
	return Result{KeyID: id, Bytes: a.query.Bytes(), Length: len(a.query.Bytes())}, true, nil
}

// ReverseLookup resolves a.query's id back into its original key bytes.
func (a *Agent) ReverseLookup() (Result, error) {
	if err := a.requireInitialized(); err != nil {
		return Result{}, err
	}
	id, err := a.query.ID()
	if err != nil {
		a.state = AgentDone
		return Result{}, err
	}
	if id < 0 || id >= a.trie.NumKeys() {
		a.state = AgentDone
		return Result{}, exceptions.New(exceptions.KindOutOfRange, "agent: key id out of range")
	}
	b := a.trie.root.ReconstructKey(id)
	a.state = AgentDone
	return Result{KeyID: id, Bytes: b, Length: len(b)}, nil
}

// CommonPrefixSearch computes every key that is a prefix of a.query's
// bytes and moves the Agent to Searching so Next can pull them in
// ascending-length order.
func (a *Agent) CommonPrefixSearch() error {
	if err := a.requireInitialized(); err != nil {
		return err
	}
	a.prefixHits = a.trie.root.CommonPrefixSearch(a.query.Bytes())
	a.prefixPos = 0
	a.predIter = nil
	a.state = AgentSearching
	return nil
}

// PredictiveSearch locates the subtree of every key starting with
// a.query's bytes and moves the Agent to Searching so Next can pull them
// one at a time.
func (a *Agent) PredictiveSearch() error {
	if err := a.requireInitialized(); err != nil {
		return err
	}
	iter, ok := a.trie.root.PredictiveSearch(a.query.Bytes())
	a.prefixHits = nil
	if !ok {
		a.predIter = nil
		a.state = AgentDone
		return nil
	}
	a.predIter = iter
	a.state = AgentSearching
	return nil
}

// Next pulls the next Result from an in-progress CommonPrefixSearch or
// PredictiveSearch. ok is false once the search is exhausted, at which
// point the Agent moves to Done.
func (a *Agent) Next() (res Result, ok bool) {
	if a.state != AgentSearching {
		return Result{}, false
	}
	if a.prefixHits != nil {
		if a.prefixPos >= len(a.prefixHits) {
			a.state = AgentDone
			return Result{}, false
		}
		hit := a.prefixHits[a.prefixPos]
		a.prefixPos++
		return Result{KeyID: hit.KeyID, Bytes: a.query.Bytes()[:hit.Length], Length: hit.Length}, true
	}
	if a.predIter != nil {
		id, key, ok := a.predIter.Next()
		if !ok {
			a.state = AgentDone
			return Result{}, false
		}
		return Result{KeyID: id, Bytes: key, Length: len(key)}, true
	}
	a.state = AgentDone
	return Result{}, false
}
