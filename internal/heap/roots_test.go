package heap

import "testing"

func TestRootSetFrames(t *testing.T) {
	r := NewRootSet()
	r.CreateThread("main")
	r.CreateThread("worker")
	r.CreateThread("main") // idempotent

	if got := len(r.Threads()); got != 2 {
		t.Fatalf("expected 2 threads, got %d", got)
	}

	if !r.AddFrame("main", 1, 2, 2) {
		t.Fatal("AddFrame on main failed")
	}
	r.AddFrame("main", 2, 3)
	r.AddFrame("worker", 3)

	if r.AddFrame("missing", 9) {
		t.Error("AddFrame on unknown thread should report false")
	}

	main := r.Thread("main")
	if len(main.Frames) != 2 {
		t.Errorf("expected 2 frames, got %d", len(main.Frames))
	}

	got := r.AllReferences()
	want := []ObjectID{1, 2, 3, 3}
	if len(got) != len(want) {
		t.Fatalf("AllReferences() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AllReferences() = %v, want %v", got, want)
		}
	}
}

func TestRootSetReset(t *testing.T) {
	r := NewRootSet()
	r.CreateThread("main")
	r.AddReference("main", 5)
	r.Reset()

	if len(r.Threads()) != 0 || len(r.AllReferences()) != 0 {
		t.Errorf("reset left state behind: %v", r.AllReferences())
	}
	if r.AddReference("main", 1) {
		t.Error("AddReference after reset should fail for removed thread")
	}
}
