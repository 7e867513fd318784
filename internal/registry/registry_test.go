package registry

import "testing"

func TestAddRemoveCount(t *testing.T) {
	r := New(128)
	if r.Count() != 0 {
		t.Fatalf("Count = %d, want 0", r.Count())
	}

	if err := r.Add(&Descriptor{StableID: 1, Path: "/dev/input/event0"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.Count() != 1 {
		t.Fatalf("Count = %d, want 1", r.Count())
	}

	d := r.Remove(1)
	if d == nil || d.StableID != 1 {
		t.Fatalf("Remove returned %+v", d)
	}
	if r.Count() != 0 {
		t.Fatalf("Count after remove = %d, want 0", r.Count())
	}
}

func TestMaxDevices(t *testing.T) {
	r := New(2)
	if err := r.Add(&Descriptor{StableID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(&Descriptor{StableID: 2}); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(&Descriptor{StableID: 3}); err == nil {
		t.Fatal("Add beyond maxDevices: expected error, got nil")
	}
	if r.Count() != 2 {
		t.Fatalf("Count = %d, want 2", r.Count())
	}
}

func TestStableIDReusableAfterRemove(t *testing.T) {
	r := New(128)
	r.Add(&Descriptor{StableID: 1, Name: "first"})
	r.Remove(1)
	d2 := &Descriptor{StableID: 1, Name: "second"}
	if err := r.Add(d2); err != nil {
		t.Fatalf("Add after Remove: %v", err)
	}
	if got := r.Get(1); got != d2 {
		t.Errorf("Get(1) = %+v, want the reused descriptor", got)
	}
}

func TestIterateStableOrder(t *testing.T) {
	r := New(128)
	r.Add(&Descriptor{StableID: 5})
	r.Add(&Descriptor{StableID: 1})
	r.Add(&Descriptor{StableID: 3})

	var seen []uint32
	r.Iterate(func(d *Descriptor) { seen = append(seen, d.StableID) })
	want := []uint32{1, 3, 5}
	for i, id := range want {
		if seen[i] != id {
			t.Errorf("seen[%d] = %d, want %d", i, seen[i], id)
		}
	}
}
