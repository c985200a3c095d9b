package polytope

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Triangles finds every 3-cycle of the edge graph. Each face is listed once
// with ascending first index; its winding makes the normal of the first
// three coordinates point away from the origin.
func Triangles(flat []float64, n int, edges [][2]int) [][3]int {
	if n <= 0 {
		return nil
	}
	count := len(flat) / n
	if count < 3 {
		return nil
	}
	adj := make([][]int, count)
	for _, e := range edges {
		a, b := e[0], e[1]
		if a < 0 || b < 0 || a >= count || b >= count || a == b {
			continue
		}
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	for i := range adj {
		sort.Ints(adj[i])
		adj[i] = dedupeSorted(adj[i])
	}
	linked := func(a, b int) bool {
		k := sort.SearchInts(adj[a], b)
		return k < len(adj[a]) && adj[a][k] == b
	}
	xyz := func(i int) r3.Vec {
		v := flat[i*n : (i+1)*n]
		var p r3.Vec
		p.X = v[0]
		if n > 1 {
			p.Y = v[1]
		}
		if n > 2 {
			p.Z = v[2]
		}
		return p
	}

	var out [][3]int
	for a := 0; a < count; a++ {
		nb := adj[a]
		for i, b := range nb {
			if b <= a {
				continue
			}
			for _, c := range nb[i+1:] {
				if !linked(b, c) {
					continue
				}
				pa, pb, pc := xyz(a), xyz(b), xyz(c)
				normal := r3.Cross(r3.Sub(pb, pa), r3.Sub(pc, pa))
				centre := r3.Scale(1.0/3, r3.Add(pa, r3.Add(pb, pc)))
				if r3.Dot(normal, centre) > 0 {
					out = append(out, [3]int{a, b, c})
				} else {
					out = append(out, [3]int{a, c, b})
				}
			}
		}
	}
	return out
}

func dedupeSorted(s []int) []int {
	if len(s) < 2 {
		return s
	}
	out := s[:1]
	for _, x := range s[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
