package vectormath

import "math"

// MaxDistance is returned for degenerate comparisons: mismatched dimensions
// or zero-magnitude vectors. Corrupted data degrades, it never panics a run.
const MaxDistance = 1.0

// CosineSimilarity returns a·b / (|a||b|). Zero for degenerate input.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance returns 1 - CosineSimilarity(a, b). Dimension mismatches
// return MaxDistance: they only occur through data corruption and must not
// crash a batch pass.
func CosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return MaxDistance
	}
	return 1 - CosineSimilarity(a, b)
}

// Centroid computes the element-wise mean of the given vectors. Defined only
// for non-empty input of equal dimension; callers filter first. Returns nil
// for empty input.
func Centroid(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}

	dimensions := len(vectors[0])
	sums := make([]float64, dimensions)

	for _, vec := range vectors {
		for i := 0; i < dimensions && i < len(vec); i++ {
			sums[i] += float64(vec[i])
		}
	}

	centroid := make([]float32, dimensions)
	for i := range sums {
		centroid[i] = float32(sums[i] / float64(len(vectors)))
	}
	return centroid
}

// Normalize scales a vector to unit length. Zero vectors pass through.
func Normalize(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
