package credential

import (
	"context"
	"errors"
	"testing"
)

type staticProber bool

func (p staticProber) Probe(context.Context) bool { return bool(p) }

type countingSelector struct {
	calls int
	err   error
}

func (s *countingSelector) Select(context.Context) error {
	s.calls++
	return s.err
}

func TestNewGate_UsesProbe(t *testing.T) {
	ctx := context.Background()
	if !NewGate(ctx, staticProber(true), nil).HasCredential() {
		t.Error("expected credential available when probe succeeds")
	}
	if NewGate(ctx, staticProber(false), nil).HasCredential() {
		t.Error("expected credential unavailable when probe fails")
	}
	if NewGate(ctx, nil, nil).HasCredential() {
		t.Error("expected credential unavailable without a prober")
	}
}

func TestHasCredential_Idempotent(t *testing.T) {
	g := NewGate(context.Background(), staticProber(true), nil)
	for i := 0; i < 10; i++ {
		if !g.HasCredential() {
			t.Fatalf("call %d: expected stable true", i)
		}
	}
}

func TestEnsureCredential_SkipsSelectionWhenAvailable(t *testing.T) {
	sel := &countingSelector{}
	g := NewGate(context.Background(), staticProber(true), sel)

	g.EnsureCredential(context.Background())

	if sel.calls != 0 {
		t.Errorf("expected no selection, got %d calls", sel.calls)
	}
}

func TestEnsureCredential_SelectsAndAssumesSuccess(t *testing.T) {
	sel := &countingSelector{err: errors.New("dialog crashed")}
	g := NewGate(context.Background(), staticProber(false), sel)

	g.EnsureCredential(context.Background())

	if sel.calls != 1 {
		t.Errorf("expected 1 selection, got %d", sel.calls)
	}
	if !g.HasCredential() {
		t.Error("expected optimistic true even when selection errors")
	}
}

func TestInvalidateThenConnect(t *testing.T) {
	sel := &countingSelector{}
	g := NewGate(context.Background(), staticProber(true), sel)

	g.Invalidate()
	if g.HasCredential() {
		t.Fatal("expected false after Invalidate")
	}

	g.Connect(context.Background())
	if !g.HasCredential() || sel.calls != 1 {
		t.Errorf("expected connect to select once and set true, calls=%d", sel.calls)
	}
}

func TestConnectWith_OverridesSelector(t *testing.T) {
	def := &countingSelector{}
	override := &countingSelector{}
	g := NewGate(context.Background(), staticProber(false), def)

	g.ConnectWith(context.Background(), override)

	if def.calls != 0 || override.calls != 1 {
		t.Errorf("expected override only, default=%d override=%d", def.calls, override.calls)
	}
}
