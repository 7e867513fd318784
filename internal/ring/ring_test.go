package ring

import "testing"

func TestPushPopOrder(t *testing.T) {
	r := New[int](4)
	for i := 1; i <= 4; i++ {
		if !r.Push(i) {
			t.Fatalf("push %d: unexpected drop", i)
		}
	}

	out := make([]int, 4)
	n := r.PopMany(out)
	if n != 4 {
		t.Fatalf("PopMany n = %d, want 4", n)
	}
	for i, v := range out {
		if v != i+1 {
			t.Errorf("out[%d] = %d, want %d", i, v, i+1)
		}
	}
}

func TestOverflowDropsNewestRetainsOldest(t *testing.T) {
	r := New[int](4)
	for i := 1; i <= 8; i++ {
		r.Push(i)
	}
	if r.Len() != 4 {
		t.Fatalf("Len = %d, want 4", r.Len())
	}

	out := make([]int, 4)
	n := r.PopMany(out)
	if n != 4 {
		t.Fatalf("PopMany n = %d, want 4", n)
	}
	want := []int{1, 2, 3, 4}
	for i, v := range out {
		if v != want[i] {
			t.Errorf("out[%d] = %d, want %d (oldest must be retained, newest dropped)", i, v, want[i])
		}
	}
}

func TestPopMoreThanAvailable(t *testing.T) {
	r := New[int](8)
	r.Push(1)
	r.Push(2)

	out := make([]int, 10)
	n := r.PopMany(out)
	if n != 2 {
		t.Fatalf("PopMany n = %d, want 2", n)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	cases := map[int]bool{
		1: true, 2: true, 1024: true, 3: false, 0: false, -4: false, 1023: false,
	}
	for n, want := range cases {
		if got := IsPowerOfTwo(n); got != want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", n, got, want)
		}
	}
}
