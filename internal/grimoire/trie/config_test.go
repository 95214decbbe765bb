package trie

import "testing"

func TestConfigEncodeDecodeRoundTrip(t *testing.T) {
	cfg := Config{NumTries: 5, TailMode: TailModeBinary, NodeOrder: NodeOrderWeight, CacheLevel: CacheLevelLarge}
	got := DecodeConfig(cfg.Encode())
	if got != cfg {
		t.Fatalf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestConfigValidateRejectsOutOfRangeNumTries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumTries = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("num_tries=0 must be rejected")
	}
	cfg.NumTries = 17
	if err := cfg.Validate(); err == nil {
		t.Fatal("num_tries=17 must be rejected")
	}
	cfg.NumTries = 16
	if err := cfg.Validate(); err != nil {
		t.Fatalf("num_tries=16 must be accepted, got %v", err)
	}
}
