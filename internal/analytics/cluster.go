package analytics

import "math"

const (
	// DefaultClusters is the number of behavior groups.
	DefaultClusters = 3

	// maxIterations caps centroid relocation rounds.
	maxIterations = 100

	// zeroDeviation is the standard deviation below which a column is
	// treated as constant and left unscaled.
	zeroDeviation = 1e-12
)

// Features extracts (avg_response_time, avg_attempts, accuracy) rows.
func Features(profiles []BehaviorProfile) [][]float64 {
	rows := make([][]float64, len(profiles))
	for i, p := range profiles {
		rows[i] = []float64{p.AvgResponseTime, p.AvgAttempts, p.Accuracy}
	}
	return rows
}

// Whiten divides each column by its population standard deviation.
// Columns are not mean-centered. A constant column passes through unscaled.
// The input is not modified.
func Whiten(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	if len(rows) == 0 {
		return out
	}

	cols := len(rows[0])
	std := make([]float64, cols)
	for c := 0; c < cols; c++ {
		var mean float64
		for _, r := range rows {
			mean += r[c]
		}
		mean /= float64(len(rows))

		var variance float64
		for _, r := range rows {
			d := r[c] - mean
			variance += d * d
		}
		std[c] = math.Sqrt(variance / float64(len(rows)))
	}

	for i, r := range rows {
		out[i] = make([]float64, cols)
		for c, v := range r {
			if std[c] <= zeroDeviation {
				out[i][c] = v
				continue
			}
			out[i][c] = v / std[c]
		}
	}
	return out
}

// KMeans partitions points into at most k clusters and returns one label
// per point, in input order.
//
// The initial centroids are the first k distinct points in input order, so
// runs over the same input always agree. With fewer than k distinct points
// the effective k shrinks; identical points all get label 0. Iteration stops
// when no label changes or after maxIter rounds. A cluster that loses all
// its points keeps its previous centroid.
func KMeans(points [][]float64, k, maxIter int) []int {
	labels := make([]int, len(points))
	if len(points) == 0 || k <= 1 {
		return labels
	}

	centroids := initialCentroids(points, k)
	if len(centroids) <= 1 {
		return labels
	}

	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if labels[i] != c {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		centroids = relocate(points, labels, centroids)
	}

	return labels
}

// Classify clusters profiles into DefaultClusters behavior groups using
// whitened features. Labels are in [0, DefaultClusters-1].
func Classify(profiles []BehaviorProfile) []int {
	return KMeans(Whiten(Features(profiles)), DefaultClusters, maxIterations)
}

func initialCentroids(points [][]float64, k int) [][]float64 {
	centroids := make([][]float64, 0, k)
	for _, p := range points {
		if len(centroids) == k {
			break
		}
		duplicate := false
		for _, c := range centroids {
			if equalPoints(p, c) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			centroids = append(centroids, append([]float64(nil), p...))
		}
	}
	return centroids
}

// nearest returns the index of the closest centroid; ties go to the lowest index.
func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centroids {
		d := squaredDistance(p, c)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func relocate(points [][]float64, labels []int, previous [][]float64) [][]float64 {
	dims := len(previous[0])
	sums := make([][]float64, len(previous))
	counts := make([]int, len(previous))
	for i := range sums {
		sums[i] = make([]float64, dims)
	}

	for i, p := range points {
		l := labels[i]
		counts[l]++
		for d, v := range p {
			sums[l][d] += v
		}
	}

	next := make([][]float64, len(previous))
	for i := range next {
		if counts[i] == 0 {
			next[i] = previous[i]
			continue
		}
		next[i] = make([]float64, dims)
		for d := range next[i] {
			next[i][d] = sums[i][d] / float64(counts[i])
		}
	}
	return next
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func equalPoints(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
