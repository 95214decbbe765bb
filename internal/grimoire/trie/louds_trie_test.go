package trie_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marisago/marisa/internal/grimoire/trie"
)

func buildFrom(t *testing.T, words []string, cfg trie.Config) (*trie.LoudsTrie, []int) {
	inputs := make([]trie.BuildInput, len(words))
	for i, w := range words {
		inputs[i] = trie.BuildInput{Bytes: []byte(w), Weight: 1.0}
	}
	root, ids, err := trie.Build(inputs, cfg)
	require.NoError(t, err)
	return root, ids
}

func TestLoudsTrieLookupTwoKeyOverlap(t *testing.T) {
	root, ids := buildFrom(t, []string{"a", "app"}, trie.DefaultConfig())
	require.Equal(t, 2, root.NumKeys())

	idA, okA := root.Lookup([]byte("a"))
	require.True(t, okA)
	idApp, okApp := root.Lookup([]byte("app"))
	require.True(t, okApp)
	require.NotEqual(t, idA, idApp)
	require.Equal(t, idA, ids[0])
	require.Equal(t, idApp, ids[1])

	_, okMissing := root.Lookup([]byte("ap"))
	require.False(t, okMissing)
	_, okMissing = root.Lookup([]byte("apple"))
	require.False(t, okMissing)
}

func TestLoudsTrieReverseLookupRoundTrip(t *testing.T) {
	words := []string{"a", "app", "apple", "application", "apply", "banana", "band", "bandana"}
	root, ids := buildFrom(t, words, trie.DefaultConfig())

	for i, w := range words {
		got := root.ReconstructKey(ids[i])
		require.Equal(t, w, string(got), "word %q", w)
	}
}

func TestLoudsTrieSevenKeys(t *testing.T) {
	// Seven keys where every key extends another by one byte, so every
	// edge is a plain one-byte label and no node is link-compressed.
	words := []string{"a", "ab", "abc", "abd", "b", "bc", "bcd"}
	root, ids := buildFrom(t, words, trie.DefaultConfig())
	require.Equal(t, len(words), root.NumKeys())

	seen := map[int]bool{}
	for i, w := range words {
		id, ok := root.Lookup([]byte(w))
		require.True(t, ok, "lookup %q", w)
		require.Equal(t, ids[i], id)
		require.False(t, seen[id], "duplicate key id %d", id)
		seen[id] = true
		require.Equal(t, w, string(root.ReconstructKey(id)))
	}
}

func TestLoudsTrieFifteenKeys(t *testing.T) {
	words := []string{
		"apple", "application", "apply", "apt", "banana", "band", "bandana",
		"bandit", "bank", "banner", "cat", "catalog", "catch", "category", "cathedral",
	}
	root, ids := buildFrom(t, words, trie.DefaultConfig())
	require.Equal(t, len(words), root.NumKeys())
	for i, w := range words {
		id, ok := root.Lookup([]byte(w))
		require.True(t, ok, "lookup %q", w)
		require.Equal(t, ids[i], id)
		require.Equal(t, w, string(root.ReconstructKey(id)))
	}
}

func TestLoudsTrieCommonPrefixSearch(t *testing.T) {
	root, _ := buildFrom(t, []string{"a", "ap", "app", "appl", "apple"}, trie.DefaultConfig())
	hits := root.CommonPrefixSearch([]byte("applesauce"))
	require.Len(t, hits, 5)
	for i, h := range hits {
		require.Equal(t, i+1, h.Length)
	}
}

func TestLoudsTrieCommonPrefixSearchNoMatch(t *testing.T) {
	root, _ := buildFrom(t, []string{"xyz"}, trie.DefaultConfig())
	hits := root.CommonPrefixSearch([]byte("abc"))
	require.Empty(t, hits)
}

func TestLoudsTriePredictiveSearch(t *testing.T) {
	words := []string{"apple", "application", "apply", "apt", "banana"}
	root, _ := buildFrom(t, words, trie.DefaultConfig())

	iter, ok := root.PredictiveSearch([]byte("app"))
	require.True(t, ok)
	var got []string
	for {
		_, key, ok := iter.Next()
		if !ok {
			break
		}
		got = append(got, string(key))
	}
	require.ElementsMatch(t, []string{"apple", "application", "apply"}, got)
}

// TestLoudsTriePredictiveSearchKeyIDOrder pins down spec's ordering
// requirement: predictive-search yields matches in strictly increasing
// key-id order, i.e. level order from the matched subtree's root.
func TestLoudsTriePredictiveSearchKeyIDOrder(t *testing.T) {
	words := []string{"apple", "application", "apply", "apt"}
	root, ids := buildFrom(t, words, trie.DefaultConfig())

	iter, ok := root.PredictiveSearch([]byte("app"))
	require.True(t, ok)
	var gotIDs []int
	for {
		id, _, ok := iter.Next()
		if !ok {
			break
		}
		gotIDs = append(gotIDs, id)
	}
	require.Len(t, gotIDs, 3)
	for i := 1; i < len(gotIDs); i++ {
		require.Less(t, gotIDs[i-1], gotIDs[i], "predictive-search must yield ascending key ids")
	}
	require.Subset(t, []int{ids[0], ids[1], ids[2], ids[3]}, gotIDs)
}

func TestLoudsTriePredictiveSearchExactKeyIsAlsoAPrefix(t *testing.T) {
	root, _ := buildFrom(t, []string{"a", "app"}, trie.DefaultConfig())
	iter, ok := root.PredictiveSearch([]byte("a"))
	require.True(t, ok)
	var got []string
	for {
		_, key, ok := iter.Next()
		if !ok {
			break
		}
		got = append(got, string(key))
	}
	require.ElementsMatch(t, []string{"a", "app"}, got)
}

func TestLoudsTriePredictiveSearchNoMatch(t *testing.T) {
	root, _ := buildFrom(t, []string{"apple"}, trie.DefaultConfig())
	_, ok := root.PredictiveSearch([]byte("banana"))
	require.False(t, ok)
}

func TestLoudsTrieResumableIterStopsEarly(t *testing.T) {
	words := []string{"apple", "application", "apply", "apt"}
	root, _ := buildFrom(t, words, trie.DefaultConfig())
	iter, ok := root.PredictiveSearch([]byte("ap"))
	require.True(t, ok)

	_, _, ok = iter.Next()
	require.True(t, ok)
	// Abandon the iterator after one pull; a second, fresh iterator must
	// still see every match, proving Next carries no shared mutable state.
	iter2, ok := root.PredictiveSearch([]byte("ap"))
	require.True(t, ok)
	count := 0
	for {
		_, _, ok := iter2.Next()
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, len(words), count)
}

func TestLoudsTrieKeyOrderPermutationInvariance(t *testing.T) {
	words := []string{"delta", "alpha", "charlie", "bravo", "echo"}
	reversed := []string{"echo", "bravo", "charlie", "alpha", "delta"}

	root1, ids1 := buildFrom(t, words, trie.DefaultConfig())
	root2, ids2 := buildFrom(t, reversed, trie.DefaultConfig())

	for i, w := range words {
		id1 := ids1[i]
		var id2 int
		for j, w2 := range reversed {
			if w2 == w {
				id2 = ids2[j]
			}
		}
		require.Equal(t, string(root1.ReconstructKey(id1)), string(root2.ReconstructKey(id2)))
	}
}

func TestLoudsTrieWeightedNodeOrder(t *testing.T) {
	inputs := []trie.BuildInput{
		{Bytes: []byte("apple"), Weight: 1},
		{Bytes: []byte("apricot"), Weight: 100},
	}
	cfg := trie.DefaultConfig()
	cfg.NodeOrder = trie.NodeOrderWeight
	root, ids, err := trie.Build(inputs, cfg)
	require.NoError(t, err)
	require.Equal(t, "apple", string(root.ReconstructKey(ids[0])))
	require.Equal(t, "apricot", string(root.ReconstructKey(ids[1])))
}

func TestLoudsTrieNumTriesOne(t *testing.T) {
	// With num_tries=1 every link falls straight into the Tail table,
	// never recursing into a second LoudsTrie level.
	cfg := trie.DefaultConfig()
	cfg.NumTries = 1
	words := []string{"apple", "application", "banana"}
	root, ids := buildFrom(t, words, cfg)
	for i, w := range words {
		require.Equal(t, w, string(root.ReconstructKey(ids[i])))
	}
}

func TestLoudsTrieBinaryTailMode(t *testing.T) {
	// With num_tries=1, "x\x00yz" is link-compressed into the Tail, and
	// its NUL byte puts that Tail into binary mode.
	cfg := trie.DefaultConfig()
	cfg.NumTries = 1
	words := []string{"a\x00b", "a\x00c", "x\x00yz"}
	root, ids := buildFrom(t, words, cfg)
	for i, w := range words {
		require.Equal(t, w, string(root.ReconstructKey(ids[i])))
		id, ok := root.Lookup([]byte(w))
		require.True(t, ok)
		require.Equal(t, ids[i], id)
	}
}

// TestLoudsTrieChildTrieLinkReversal exercises the num_tries > 1 path
// where a single-key subtree's remaining bytes recurse into a child
// LoudsTrie (reversed on the way in, per spec's ReverseKey step) rather
// than falling into the Tail, and confirms label() un-reverses correctly.
func TestLoudsTrieChildTrieLinkReversal(t *testing.T) {
	cfg := trie.DefaultConfig()
	cfg.NumTries = 4
	words := []string{"constitution", "constitutional", "considerable"}
	root, ids := buildFrom(t, words, cfg)
	for i, w := range words {
		require.Equal(t, w, string(root.ReconstructKey(ids[i])), "word %q", w)
		id, ok := root.Lookup([]byte(w))
		require.True(t, ok)
		require.Equal(t, ids[i], id)
	}
	_, ok := root.Lookup([]byte("constitut"))
	require.False(t, ok)
}

func TestLoudsTrieSingleKey(t *testing.T) {
	root, ids := buildFrom(t, []string{"onlykey"}, trie.DefaultConfig())
	require.Equal(t, 1, root.NumKeys())
	require.Equal(t, "onlykey", string(root.ReconstructKey(ids[0])))
	_, ok := root.Lookup([]byte("nope"))
	require.False(t, ok)
}
