package telemetry

import "testing"

func day(d, foxes int) FoxStats {
	return FoxStats{Day: d, Foxes: foxes}
}

func hasType(bs []Bookmark, typ BookmarkType) bool {
	for _, b := range bs {
		if b.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkCrashAndRecovery(t *testing.T) {
	bd := NewBookmarkDetector(5)
	for d, n := range []int{20, 30, 40} {
		if got := bd.Check(day(d, n)); len(got) != 0 {
			t.Fatalf("day %d: unexpected bookmarks %v", d, got)
		}
	}

	got := bd.Check(day(3, 25))
	if !hasType(got, BookmarkPopulationCrash) {
		t.Fatalf("expected crash from 40 to 25, got %v", got)
	}
	if got := bd.Check(day(4, 20)); hasType(got, BookmarkPopulationCrash) {
		t.Error("crash should not fire again without a new peak")
	}

	got = bd.Check(day(5, 41))
	if !hasType(got, BookmarkRecovery) {
		t.Errorf("expected recovery from 20 to 41, got %v", got)
	}
}

func TestBookmarkExtinctionOnce(t *testing.T) {
	bd := NewBookmarkDetector(5)
	bd.Check(day(0, 5))
	if got := bd.Check(day(1, 0)); !hasType(got, BookmarkExtinction) {
		t.Fatalf("expected extinction, got %v", got)
	}
	if got := bd.Check(day(2, 0)); hasType(got, BookmarkExtinction) {
		t.Error("extinction should fire once")
	}
}

func TestBookmarkStable(t *testing.T) {
	bd := NewBookmarkDetector(5)
	fired := 0
	for d := 0; d < 30; d++ {
		if hasType(bd.Check(day(d, 50+d%2)), BookmarkStable) {
			fired++
			if d != 8 {
				t.Errorf("expected stable bookmark on day 8, got day %d", d)
			}
		}
	}
	if fired != 1 {
		t.Errorf("expected stable bookmark once, fired %d times", fired)
	}
}

func TestPathDetector(t *testing.T) {
	pd := NewPathDetector()
	if got := pd.Check(AntStats{Step: 1}); got != nil {
		t.Errorf("no path yet, got %v", got)
	}
	if got := pd.Check(AntStats{Step: 200, BestLength: 40, OptimalLength: 30}); len(got) != 0 {
		t.Errorf("first discovery is not an improvement, got %v", got)
	}
	if got := pd.Check(AntStats{Step: 400, BestLength: 45, OptimalLength: 30}); got != nil {
		t.Errorf("longer path should not fire, got %v", got)
	}

	got := pd.Check(AntStats{Step: 600, BestLength: 30, OptimalLength: 30})
	if !hasType(got, BookmarkPathImproved) || !hasType(got, BookmarkPathOptimal) {
		t.Errorf("expected improvement and optimal, got %v", got)
	}
}
