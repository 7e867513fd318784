package dispatch

import (
	"testing"

	"github.com/ehrlich-b/go-rawinput/internal/ring"
)

func TestDispatchRingPathWhenNoSink(t *testing.T) {
	p := New(ring.New[int](4))

	if !p.Dispatch(1) {
		t.Fatal("expected Dispatch to succeed into empty ring")
	}

	out := make([]int, 4)
	n := p.PopMany(out)
	if n != 1 || out[0] != 1 {
		t.Errorf("PopMany = %d, %v, want 1, [1 ...]", n, out[:n])
	}
}

func TestDispatchSinkPathBypassesRing(t *testing.T) {
	p := New(ring.New[int](4))

	var got []int
	p.RegisterCallback(func(v int, _ any) { got = append(got, v) }, nil)

	if !p.Dispatch(7) {
		t.Fatal("expected Dispatch with sink installed to report delivered")
	}
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("got = %v, want [7]", got)
	}

	// Events delivered via sink never reach the ring.
	out := make([]int, 4)
	if n := p.PopMany(out); n != 0 {
		t.Errorf("PopMany with sink installed = %d, want 0", n)
	}
}

func TestRegisterCallbackNilRevertsToRing(t *testing.T) {
	p := New(ring.New[int](4))
	p.RegisterCallback(func(int, any) {}, nil)
	if !p.HasSink() {
		t.Fatal("expected HasSink true after RegisterCallback")
	}

	p.RegisterCallback(nil, nil)
	if p.HasSink() {
		t.Fatal("expected HasSink false after clearing callback")
	}

	p.Dispatch(3)
	out := make([]int, 4)
	if n := p.PopMany(out); n != 1 {
		t.Errorf("PopMany after clearing sink = %d, want 1", n)
	}
}

func TestDispatchReportsDropOnFullRing(t *testing.T) {
	p := New(ring.New[int](1))

	if !p.Dispatch(1) {
		t.Fatal("expected first Dispatch to succeed")
	}
	if p.Dispatch(2) {
		t.Fatal("expected second Dispatch into full ring to report dropped")
	}
}
