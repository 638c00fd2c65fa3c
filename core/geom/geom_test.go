package geom

import "testing"

func TestNewBoxNormalizes(t *testing.T) {
	b := NewBox(10, 10, 0, 0)
	if b.X != 0 || b.X2 != 10 || b.Y != 0 || b.Y2 != 10 {
		t.Fatalf("expected normalized box, got %+v", b)
	}
}

func TestContains(t *testing.T) {
	outer := NewBox(0, 0, 100, 100)
	inner := NewBox(10, 10, 20, 20)
	if !outer.Contains(inner, 0) {
		t.Fatalf("expected outer to contain inner")
	}
	outside := NewBox(10, 10, 110, 20)
	if outer.Contains(outside, 0) {
		t.Fatalf("did not expect outer to contain outside")
	}
	if !outer.Contains(outside, 10.1) {
		t.Fatalf("expected tolerance to admit a 10pt overshoot")
	}
}

func TestVOverlaps(t *testing.T) {
	a := NewBox(0, 0, 10, 10)
	b := NewBox(0, 10, 10, 20)
	if a.VOverlaps(b) {
		t.Fatalf("adjacent boxes sharing only an edge should not vertically overlap")
	}
	c := NewBox(0, 5, 10, 15)
	if !a.VOverlaps(c) {
		t.Fatalf("expected vertical overlap")
	}
}

func TestUnion(t *testing.T) {
	u := Union(NewBox(0, 0, 10, 10), NewBox(5, 5, 20, 8))
	want := NewBox(0, 0, 20, 10)
	if u != want {
		t.Fatalf("got %+v want %+v", u, want)
	}
}
