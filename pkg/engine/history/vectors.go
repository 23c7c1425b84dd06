package history

import (
	"math"
)

// Vector represents a multidimensional growth state. Dimensions are
// per-hour rates: {thousands of files, data GB, waste GB, savings $/mo}.
type Vector []float64

// Predefined vector patterns.
var (
	// Pattern: organic growth. Files and bytes grow together, waste
	// stays mostly flat.
	PatternOrganicGrowth = Normalize(Vector{1.0, 1.0, 0.1, 0.1})

	// Pattern: small-file flood. File count spikes with little data
	// behind it, waste and recoverable spend climbing.
	PatternSmallFileFlood = Normalize(Vector{1.0, 0.05, 0.6, 0.5})
)

// RateVector packs per-hour growth rates for pattern matching. File
// counts come in raw and are scaled to thousands so the dimensions sit
// in comparable magnitudes.
func RateVector(filesPerHour, gbPerHour, wasteGBPerHour, savingsPerHour float64) Vector {
	return Vector{filesPerHour / 1000.0, gbPerHour, wasteGBPerHour, savingsPerHour}
}

// Normalize scales the vector to unit length.
func Normalize(v Vector) Vector {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	magnitude := math.Sqrt(sum)
	if magnitude == 0 {
		return v
	}

	result := make(Vector, len(v))
	for i, x := range v {
		result[i] = x / magnitude
	}
	return result
}

// DotProduct calculates the dot product of two vectors.
func DotProduct(a, b Vector) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// CosineSimilarity calculates the cosine similarity between vectors.
func CosineSimilarity(a, b Vector) float64 {
	dot := DotProduct(a, b)

	var magA, magB float64
	for _, x := range a {
		magA += x * x
	}
	for _, x := range b {
		magB += x * x
	}

	magA = math.Sqrt(magA)
	magB = math.Sqrt(magB)

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (magA * magB)
}

// ClassifyPattern classifies the vector against known patterns.
func ClassifyPattern(v Vector) string {
	// Check for safe patterns.
	if CosineSimilarity(v, PatternOrganicGrowth) > 0.8 {
		return "SAFE"
	}

	// Check for anomaly patterns.
	if CosineSimilarity(v, PatternSmallFileFlood) > 0.8 {
		return "ANOMALY"
	}

	return "UNKNOWN"
}
