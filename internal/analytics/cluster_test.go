package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWhiten(t *testing.T) {
	rows := [][]float64{{2, 5}, {6, 5}}

	got := Whiten(rows)
	want := [][]float64{{1, 5}, {3, 5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Whiten mismatch (-want +got):\n%s", diff)
	}

	// input untouched
	if rows[0][0] != 2 || rows[1][0] != 6 {
		t.Errorf("Whiten modified its input: %v", rows)
	}
}

func TestWhitenEmpty(t *testing.T) {
	if got := Whiten(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestKMeansSeparatedGroups(t *testing.T) {
	points := [][]float64{
		{0, 0}, {10, 10}, {20, 20},
		{0, 1}, {10, 11}, {20, 21},
	}

	got := KMeans(points, 3, 100)
	want := []int{0, 1, 2, 0, 1, 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("KMeans mismatch (-want +got):\n%s", diff)
	}
}

func TestKMeansIdenticalPoints(t *testing.T) {
	points := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}

	got := KMeans(points, 3, 100)
	want := []int{0, 0, 0, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("KMeans mismatch (-want +got):\n%s", diff)
	}
}

func TestKMeansFewerDistinctThanK(t *testing.T) {
	points := [][]float64{{1, 1}, {1, 1}, {5, 5}}

	got := KMeans(points, 3, 100)
	want := []int{0, 0, 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("KMeans mismatch (-want +got):\n%s", diff)
	}
}

func TestKMeansSmallInputs(t *testing.T) {
	if got := KMeans(nil, 3, 100); len(got) != 0 {
		t.Errorf("expected no labels, got %v", got)
	}
	if got := KMeans([][]float64{{3, 4}}, 3, 100); len(got) != 1 || got[0] != 0 {
		t.Errorf("single point should get label 0, got %v", got)
	}
	if got := KMeans([][]float64{{3, 4}, {9, 9}}, 1, 100); got[0] != 0 || got[1] != 0 {
		t.Errorf("k=1 should label everything 0, got %v", got)
	}
}

func TestKMeansDeterministic(t *testing.T) {
	points := [][]float64{
		{15.2, 1.8, 0.85}, {18.5, 2.1, 0.78}, {12.3, 1.5, 0.92},
		{20.1, 2.5, 0.70}, {30.0, 4.0, 0.30}, {11.0, 1.0, 1.00},
		{25.5, 3.2, 0.45}, {14.0, 1.2, 0.95},
	}

	first := KMeans(Whiten(points), 3, 100)
	for i := 0; i < 5; i++ {
		again := KMeans(Whiten(points), 3, 100)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d disagrees (-first +again):\n%s", i, diff)
		}
	}

	for i, l := range first {
		if l < 0 || l >= 3 {
			t.Errorf("label %d out of range at %d", l, i)
		}
	}
}

func TestKMeansRespectsIterationCap(t *testing.T) {
	points := [][]float64{
		{0, 0}, {0, 1}, {10, 10}, {10, 11}, {20, 20},
	}

	// One round assigns each point to its nearest initial centroid.
	got := KMeans(points, 3, 1)
	want := []int{0, 1, 2, 2, 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("KMeans mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify(t *testing.T) {
	profiles := []BehaviorProfile{
		{StudentID: "a", AvgResponseTime: 10, AvgAttempts: 1, Accuracy: 1},
		{StudentID: "b", AvgResponseTime: 10, AvgAttempts: 1, Accuracy: 1},
	}

	labels := Classify(profiles)
	if diff := cmp.Diff([]int{0, 0}, labels); diff != "" {
		t.Errorf("identical profiles should share cluster 0 (-want +got):\n%s", diff)
	}

	if got := Classify(nil); len(got) != 0 {
		t.Errorf("expected no labels, got %v", got)
	}
}
