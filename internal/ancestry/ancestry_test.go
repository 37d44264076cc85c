package ancestry

import (
	"context"
	"os"
	"testing"
)

func TestChainEndsAtPID1(t *testing.T) {
	chain := Chain(context.Background(), int32(os.Getpid()))
	if len(chain) == 0 {
		t.Fatalf("expected non-empty chain")
	}
	if chain[len(chain)-1] != 1 {
		t.Skip("init is not reachable in this sandbox's pid namespace")
	}
}

func TestDescendsFromNameNoMatch(t *testing.T) {
	chain := Chain(context.Background(), int32(os.Getpid()))
	if DescendsFromName(context.Background(), chain, "definitely-not-a-real-ancestor") {
		t.Fatalf("expected no match for a bogus ancestor name")
	}
}
