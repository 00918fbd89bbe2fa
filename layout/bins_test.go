package layout

import (
	"math"
	"testing"
)

func TestCluster_Empty(t *testing.T) {
	b := Cluster(nil, 5)
	if len(b.Centers()) != 0 {
		t.Errorf("Expected no centers, got %v", b.Centers())
	}
	if got := b.Map(42); got != 42 {
		t.Errorf("Expected passthrough 42, got %f", got)
	}
}

func TestCluster_CentersAscending(t *testing.T) {
	b := Cluster([]float64{100, 3, 57, 1, 99, 55}, 5)
	centers := b.Centers()
	if len(centers) != 3 {
		t.Fatalf("Expected 3 centers, got %v", centers)
	}
	for i := 1; i < len(centers); i++ {
		if centers[i] <= centers[i-1] {
			t.Errorf("Centers not ascending: %v", centers)
		}
	}
}

func TestCluster_CenterIsMean(t *testing.T) {
	b := Cluster([]float64{0, 1, 2}, 5)
	centers := b.Centers()
	if len(centers) != 1 {
		t.Fatalf("Expected 1 center, got %v", centers)
	}
	if centers[0] != 1.0 {
		t.Errorf("Expected center 1.0, got %f", centers[0])
	}
}

// Slow drift chains values into one bin until the running mean falls behind.
// This documents the greedy single-pass behavior; it is load-bearing for
// downstream compatibility, not an accident.
func TestCluster_RunningMeanDrift(t *testing.T) {
	b := Cluster([]float64{0, 4, 8, 12}, 5)
	centers := b.Centers()
	if len(centers) != 2 {
		t.Fatalf("Expected 2 centers, got %v", centers)
	}
	if centers[0] != 2.0 || centers[1] != 10.0 {
		t.Errorf("Expected centers [2 10], got %v", centers)
	}
}

func TestMap_Idempotent(t *testing.T) {
	b := Cluster([]float64{10, 11, 30, 31, 90}, 5)
	for _, c := range b.Centers() {
		if got := b.Map(c); got != c {
			t.Errorf("Map(%f) = %f, want the center itself", c, got)
		}
	}
	for _, v := range []float64{8, 12.5, 33, 60, 95} {
		once := b.Map(v)
		twice := b.Map(once)
		if once != twice {
			t.Errorf("Map not idempotent for %f: %f then %f", v, once, twice)
		}
	}
}

func TestMap_NearestWithinTolerance(t *testing.T) {
	b := Cluster([]float64{0, 8}, 5)
	if got := b.Map(4.5); got != 8 {
		t.Errorf("Expected nearest center 8, got %f", got)
	}
	if got := b.Map(1); got != 0 {
		t.Errorf("Expected nearest center 0, got %f", got)
	}
}

func TestMap_PassthroughBeyondTolerance(t *testing.T) {
	b := Cluster([]float64{0}, 5)
	if got := b.Map(100); got != 100 {
		t.Errorf("Expected passthrough 100, got %f", got)
	}
	if got := b.Map(5.0 + 1e-9); math.Abs(got-(5.0+1e-9)) > 0 {
		t.Errorf("Value just past tolerance should pass through, got %f", got)
	}
}
