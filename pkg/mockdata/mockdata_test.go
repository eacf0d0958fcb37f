package mockdata

import (
	"math"
	"testing"
)

func TestFeatureShares(t *testing.T) {
	t.Parallel()
	shares := FeatureShares(Features)
	sum := 0.0
	for i, s := range shares {
		sum += s
		if i > 0 && s > shares[i-1] {
			t.Errorf("share %d (%.3f) larger than previous", i, s)
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("shares sum to %.6f", sum)
	}
	if got := FeatureShares(nil); len(got) != 0 {
		t.Fatalf("empty input gave %v", got)
	}
	zero := FeatureShares([]Feature{{Name: "a"}, {Name: "b"}})
	if zero[0] != 0 || zero[1] != 0 {
		t.Fatalf("zero total gave %v", zero)
	}
}

func TestConnections(t *testing.T) {
	t.Parallel()
	if got := Connections(NetworkLayers); got != 6*8+8*8+8*4 {
		t.Fatalf("connections = %d", got)
	}
	if got := Connections(NetworkLayers[:1]); got != 0 {
		t.Fatalf("single layer connections = %d", got)
	}
}

func TestCountByStatus(t *testing.T) {
	t.Parallel()
	got := CountByStatus(Models)
	if got[StatusComplete] != 2 || got[StatusTraining] != 1 || got[StatusError] != 1 {
		t.Fatalf("counts = %v", got)
	}
}
