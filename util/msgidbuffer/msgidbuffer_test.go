package msgidbuffer

import "testing"

func TestContains(t *testing.T) {
	buf := New(3)
	if buf.Contains(0) {
		t.Fatal("empty buffer should not contain the zero id")
	}
	buf.Add(7)
	buf.Add(8)
	if !buf.Contains(7) || !buf.Contains(8) || buf.Contains(9) {
		t.Fatal("unexpected contents")
	}
}

func TestOverwritesOldest(t *testing.T) {
	buf := New(2)
	buf.Add(1)
	buf.Add(2)
	buf.Add(3)
	if buf.Contains(1) {
		t.Fatal("oldest id should have been overwritten")
	}
	if !buf.Contains(2) || !buf.Contains(3) {
		t.Fatal("recent ids missing")
	}
}

func TestSeen(t *testing.T) {
	buf := New(4)
	if buf.Seen(42) {
		t.Fatal("first sighting reported as seen")
	}
	if !buf.Seen(42) {
		t.Fatal("second sighting not reported")
	}
}
