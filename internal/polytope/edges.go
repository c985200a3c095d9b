package polytope

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// coincident vertices (squared distance below this) are not neighbours
const minDistSq = 1e-9

// ShortEdges links every pair of vertices whose distance is within
// (1+tolerance) of the smallest non-zero pairwise distance.
func ShortEdges(flat []float64, n int, tolerance float64) [][2]int {
	if n <= 0 || len(flat) < 2*n {
		return nil
	}
	count := len(flat) / n
	at := func(i int) []float64 { return flat[i*n : (i+1)*n] }

	minSq := math.Inf(1)
	for i := 0; i < count; i++ {
		for j := i + 1; j < count; j++ {
			if d := distSq(at(i), at(j)); d > minDistSq && d < minSq {
				minSq = d
			}
		}
	}
	if math.IsInf(minSq, 1) {
		return nil
	}
	th := math.Sqrt(minSq) * (1 + tolerance)
	thSq := th * th

	var out [][2]int
	for i := 0; i < count; i++ {
		for j := i + 1; j < count; j++ {
			if distSq(at(i), at(j)) <= thSq {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

// KNNEdges links every point to its k nearest neighbours. The result is
// undirected, deduplicated and sorted; k is capped at count-1.
func KNNEdges(flat []float64, n, k int) [][2]int {
	if n <= 0 || k <= 0 || len(flat) < n {
		return nil
	}
	count := len(flat) / n
	if k > count-1 {
		k = count - 1
	}
	if k == 0 {
		return nil
	}
	at := func(i int) []float64 { return flat[i*n : (i+1)*n] }

	type cand struct {
		j int
		d float64
	}
	seen := make(map[[2]int]struct{}, count*k)
	cands := make([]cand, 0, count-1)
	for i := 0; i < count; i++ {
		cands = cands[:0]
		for j := 0; j < count; j++ {
			if j != i {
				cands = append(cands, cand{j, distSq(at(i), at(j))})
			}
		}
		sort.Slice(cands, func(a, b int) bool {
			if cands[a].d != cands[b].d {
				return cands[a].d < cands[b].d
			}
			return cands[a].j < cands[b].j
		})
		for _, c := range cands[:k] {
			e := [2]int{i, c.j}
			if c.j < i {
				e = [2]int{c.j, i}
			}
			seen[e] = struct{}{}
		}
	}
	out := make([][2]int, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sortEdges(out)
	return out
}

func sortEdges(es [][2]int) {
	sort.Slice(es, func(a, b int) bool {
		if es[a][0] != es[b][0] {
			return es[a][0] < es[b][0]
		}
		return es[a][1] < es[b][1]
	})
}

func distSq(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
