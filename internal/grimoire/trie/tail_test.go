package trie

import (
	"bytes"
	"testing"
)

func TestBuildTailTextModeSharesSuffixes(t *testing.T) {
	// "ing" and "ring" share a common ending, so the shorter one should be
	// physically shared inside the longer one's stored bytes.
	tail, offsets := BuildTail([][]byte{[]byte("ring"), []byte("ing")})

	for i, want := range []string{"ring", "ing"} {
		got := tail.Reconstruct(offsets[i])
		if string(got) != want {
			t.Fatalf("offset %d reconstructed %q, want %q", i, got, want)
		}
	}
	if tail.Mode() != TailModeText {
		t.Fatalf("mode = %v, want text", tail.Mode())
	}
	if offsets[1] != offsets[0]+1 {
		t.Fatalf("ing stored at offset %d, want %d inside ring", offsets[1], offsets[0]+1)
	}
}

func TestBuildTailBinaryModeOnNulByte(t *testing.T) {
	tail, offsets := BuildTail([][]byte{{'a', 0, 'b'}, {'c'}})
	if tail.Mode() != TailModeBinary {
		t.Fatalf("mode = %v, want binary", tail.Mode())
	}
	for i, want := range [][]byte{{'a', 0, 'b'}, {'c'}} {
		got := tail.Reconstruct(offsets[i])
		if !bytes.Equal(got, want) {
			t.Fatalf("offset %d reconstructed %v, want %v", i, got, want)
		}
	}
}

func TestTailMatchConsumesExactSuffix(t *testing.T) {
	tail, offsets := BuildTail([][]byte{[]byte("le")})
	consumed, ok := tail.Match([]byte("apple"), 3, offsets[0])
	if !ok || consumed != 2 {
		t.Fatalf("Match = (%d, %v), want (2, true)", consumed, ok)
	}
}

func TestTailMatchRejectsPartialSuffix(t *testing.T) {
	tail, offsets := BuildTail([][]byte{[]byte("leaf")})
	_, ok := tail.Match([]byte("applesauce"), 3, offsets[0])
	if ok {
		t.Fatal("a query that diverges mid-suffix must not match")
	}
}

func TestTailEmpty(t *testing.T) {
	tail := NewTail()
	if !tail.Empty() {
		t.Fatal("a fresh Tail must report Empty")
	}
}

func TestReverseLessOrdersByTailEndFirst(t *testing.T) {
	if !reverseLess([]byte("ab"), []byte("cb")) {
		t.Fatal("equal last byte, 'a' < 'c' on the preceding byte should sort ab before cb")
	}
	if reverseLess([]byte("cb"), []byte("ab")) {
		t.Fatal("reverseLess must be antisymmetric")
	}
	if !reverseLess([]byte("b"), []byte("ab")) {
		t.Fatal("a shorter common-suffix string sorts first")
	}
}

func TestIsSuffixOf(t *testing.T) {
	if !isSuffixOf([]byte("ing"), []byte("ring")) {
		t.Fatal("ing must be a suffix of ring")
	}
	if isSuffixOf([]byte("ring"), []byte("ing")) {
		t.Fatal("ring must not be a suffix of the shorter ing")
	}
}
