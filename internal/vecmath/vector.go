// Package vecmath implements the cosine-similarity primitives every index
// backend builds on: L2 normalization, dot product, cosine distance, and
// the random hyperplane draws LSH uses for its projection matrices.
package vecmath

import (
	"math"
	"math/rand"

	"github.com/vecbase/vecbase/internal/vecerr"
)

// Norm returns the L2 norm of v.
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalize returns v scaled to unit L2 length. It fails with
// vecerr.DegenerateVector if v has zero norm.
func Normalize(v []float64) ([]float64, error) {
	n := Norm(v)
	if n == 0 {
		return nil, vecerr.New(vecerr.DegenerateVector, "vecmath.Normalize", "vector has zero norm")
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / n
	}
	return out, nil
}

// Dot returns the dot product of a and b. Callers are responsible for
// ensuring a and b have equal length; this is a hot-path primitive and
// does not itself check dimension agreement.
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// CosineDistance returns 1 - dot(normalize(a), normalize(b)), in [0, 2].
// Smaller means more similar. Fails with vecerr.DegenerateVector if either
// vector has zero norm.
func CosineDistance(a, b []float64) (float64, error) {
	na, err := Normalize(a)
	if err != nil {
		return 0, err
	}
	nb, err := Normalize(b)
	if err != nil {
		return 0, err
	}
	return 1 - Dot(na, nb), nil
}

// RandomHyperplane draws a d-length vector of independent standard-normal
// samples. The result is not normalized: only the sign of its dot product
// with a data vector matters for LSH, so normalizing would be wasted work.
func RandomHyperplane(d int, rng *rand.Rand) []float64 {
	v := make([]float64, d)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	return v
}

// Finite reports whether every element of v is a finite float (no NaN/Inf).
func Finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
