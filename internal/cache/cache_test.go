package cache

import "testing"

func TestSameInputsProduceSameFingerprint(t *testing.T) {
	a := NewBuilder("sphere").Int(16).Float(1.5).Finish()
	b := NewBuilder("sphere").Int(16).Float(1.5).Finish()
	if a != b {
		t.Errorf("expected identical fingerprints, got %s and %s", a, b)
	}
}

func TestDifferentParametersProduceDifferentFingerprints(t *testing.T) {
	a := NewBuilder("sphere").Int(16).Finish()
	b := NewBuilder("sphere").Int(32).Finish()
	if a == b {
		t.Errorf("expected different fingerprints for different segment counts")
	}
}

func TestFieldBoundariesDontCollide(t *testing.T) {
	a := NewBuilder("x").String("ab").String("c").Finish()
	b := NewBuilder("x").String("a").String("bc").Finish()
	if a == b {
		t.Errorf("length-prefixing should stop \"ab\"+\"c\" colliding with \"a\"+\"bc\"")
	}
}

func TestGetOrBuildCachesResult(t *testing.T) {
	c := New()
	calls := 0
	build := func() (Entry, error) {
		calls++
		return Entry{}, nil
	}
	fp := NewBuilder("cube").Finish()
	if _, err := c.GetOrBuild(fp, build); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.GetOrBuild(fp, build); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("got %d builds, want 1 (second call should hit cache)", calls)
	}
}

func TestFailedBuildLeavesNoEntry(t *testing.T) {
	c := New()
	fp := NewBuilder("broken").Finish()
	_, err := c.GetOrBuild(fp, func() (Entry, error) { return Entry{}, errCancelled })
	if err == nil {
		t.Fatalf("expected error to propagate")
	}
	if _, ok := c.Get(fp); ok {
		t.Errorf("a failed build must not leave a partial cache entry")
	}
}

var errCancelled = &cancelledErr{}

type cancelledErr struct{}

func (*cancelledErr) Error() string { return "cancelled" }
