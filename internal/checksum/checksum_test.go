package checksum

import "testing"

func TestSum(t *testing.T) {
	a := Sum([]byte("hello"))
	b := Sum([]byte("hello"))
	c := Sum([]byte("world"))
	if a != b {
		t.Errorf("equal inputs must produce equal sums")
	}
	if a == c {
		t.Errorf("different inputs must produce different sums")
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64 hex chars", len(a))
	}
}
