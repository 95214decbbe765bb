package marisa_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	marisalib "github.com/marisago/marisa"
)

func newKeyset(t *testing.T, words []string) *marisalib.Keyset {
	ks := marisalib.NewKeyset()
	for _, w := range words {
		ks.Add([]byte(w))
	}
	return ks
}

func TestNewRejectsEmptyKeyset(t *testing.T) {
	_, err := marisalib.New(marisalib.NewKeyset())
	require.Error(t, err)
}

func TestNewRejectsDuplicateKey(t *testing.T) {
	ks := marisalib.NewKeyset()
	ks.Add([]byte("dup"))
	ks.Add([]byte("other"))
	ks.Add([]byte("dup"))
	_, err := marisalib.New(ks)
	require.Error(t, err)
}

func TestTrieLookupAndReverseLookup(t *testing.T) {
	words := []string{"a", "app"}
	trie, err := marisalib.New(newKeyset(t, words))
	require.NoError(t, err)
	require.Equal(t, 2, trie.NumKeys())

	for _, w := range words {
		id, ok := trie.Lookup([]byte(w))
		require.True(t, ok)
		back, err := trie.ReverseLookup(id)
		require.NoError(t, err)
		require.Equal(t, w, string(back))
	}

	_, ok := trie.Lookup([]byte("apple"))
	require.False(t, ok)

	_, err = trie.ReverseLookup(999)
	require.Error(t, err)
}

func TestTrieCommonPrefixSearch(t *testing.T) {
	trie, err := marisalib.New(newKeyset(t, []string{"a", "ap", "app", "appl", "apple"}))
	require.NoError(t, err)
	hits := trie.CommonPrefixSearch([]byte("applesauce"))
	require.Len(t, hits, 5)
}

func TestTriePredictiveSearch(t *testing.T) {
	trie, err := marisalib.New(newKeyset(t, []string{"apple", "application", "apply", "banana"}))
	require.NoError(t, err)
	iter, ok := trie.PredictiveSearch([]byte("app"))
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

func TestTrieWithNegativeFilterRejectsAbsentKeys(t *testing.T) {
	ks := newKeyset(t, []string{"apple", "banana", "cherry"})
	trie, err := marisalib.New(ks)
	require.NoError(t, err)
	trie = marisalib.WithNegativeFilter(trie, ks)

	id, ok := trie.Lookup([]byte("apple"))
	require.True(t, ok)
	back, err := trie.ReverseLookup(id)
	require.NoError(t, err)
	require.Equal(t, "apple", string(back))

	_, ok = trie.Lookup([]byte("durian"))
	require.False(t, ok)
}

func TestAgentLifecycle(t *testing.T) {
	trie, err := marisalib.New(newKeyset(t, []string{"apple", "apply", "apt"}))
	require.NoError(t, err)
	agent := trie.NewAgent()
	require.Equal(t, marisalib.AgentUninitialized, agent.State())

	_, _, err = agent.Lookup()
	require.Error(t, err, "Lookup before Set must fail")

	agent.Set(marisalib.QueryBytes([]byte("apple")))
	require.Equal(t, marisalib.AgentInitialized, agent.State())
	res, ok, err := agent.Lookup()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "apple", string(res.Bytes))
	require.Equal(t, marisalib.AgentDone, agent.State())

	agent.Set(marisalib.QueryBytes([]byte("ap")))
	require.NoError(t, agent.PredictiveSearch())
	require.Equal(t, marisalib.AgentSearching, agent.State())
	count := 0
	for {
		_, ok := agent.Next()
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, 3, count)
	require.Equal(t, marisalib.AgentDone, agent.State())
}

func TestAgentReverseLookupOutOfRange(t *testing.T) {
	trie, err := marisalib.New(newKeyset(t, []string{"one", "two"}))
	require.NoError(t, err)
	agent := trie.NewAgent()
	agent.Set(marisalib.QueryID(42))
	_, err = agent.ReverseLookup()
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	words := []string{"apple", "application", "apply", "apt", "banana", "band", "bandana"}
	trie, err := marisalib.New(newKeyset(t, words))
	require.NoError(t, err)

	dir := t.TempDir()
	path := dir + "/dict.marisa"
	require.NoError(t, trie.Save(path))

	loaded, err := marisalib.Load(path)
	require.NoError(t, err)
	require.Equal(t, trie.NumKeys(), loaded.NumKeys())

	for _, w := range words {
		wantID, ok := trie.Lookup([]byte(w))
		require.True(t, ok)
		gotID, ok := loaded.Lookup([]byte(w))
		require.True(t, ok)
		require.Equal(t, wantID, gotID)
		back, err := loaded.ReverseLookup(gotID)
		require.NoError(t, err)
		require.Equal(t, w, string(back))
	}
}

func TestMmapMatchesLoad(t *testing.T) {
	words := []string{"mercury", "venus", "earth", "mars", "jupiter"}
	trie, err := marisalib.New(newKeyset(t, words))
	require.NoError(t, err)

	dir := t.TempDir()
	path := dir + "/dict.marisa"
	require.NoError(t, trie.Save(path))

	mapped, err := marisalib.Mmap(path)
	require.NoError(t, err)
	defer mapped.Close()

	for _, w := range words {
		wantID, ok := trie.Lookup([]byte(w))
		require.True(t, ok)
		gotID, ok := mapped.Lookup([]byte(w))
		require.True(t, ok)
		require.Equal(t, wantID, gotID)
	}
}
