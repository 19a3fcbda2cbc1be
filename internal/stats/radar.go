package stats

import "fmt"

// radarHeadroom keeps the larger side of each pair at ~0.83 of the radar's
// radius so the polygon never touches the chart edge.
const radarHeadroom = 1.2

// Normalize maps two same-length metric vectors onto a shared [0,1] scale,
// one denominator per index: max of the pair times the headroom factor, or 1
// when both values are 0. The scale is local to the one match being viewed,
// not comparable across matches.
func Normalize(a, b []float64) ([]float64, []float64, error) {
	if len(a) != len(b) {
		return nil, nil, fmt.Errorf("mismatched radar vectors: %d vs %d", len(a), len(b))
	}

	na := make([]float64, len(a))
	nb := make([]float64, len(b))
	for i := range a {
		denom := max(a[i], b[i]) * radarHeadroom
		if denom == 0 {
			denom = 1
		}
		na[i] = a[i] / denom
		nb[i] = b[i] / denom
	}
	return na, nb, nil
}

// CloseLoop appends the first element to the end so a plotted radar polygon
// closes. Applied to both value sequences and the category labels.
func CloseLoop[T any](seq []T) []T {
	if len(seq) == 0 {
		return seq
	}
	out := make([]T, 0, len(seq)+1)
	out = append(out, seq...)
	out = append(out, seq[0])
	return out
}
