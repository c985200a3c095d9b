package mesh

import (
	"bufio"
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// Stats summarises a triangle list.
type Stats struct {
	Triangles int
	Vertices  int // unique
	Min, Max  r3.Vec
}

// index deduplicates vertices in first-seen order.
func index(tris []Triangle) (verts []r3.Vec, faces [][3]int) {
	ids := make(map[r3.Vec]int, len(tris)*3/2)
	faces = make([][3]int, len(tris))
	for i, t := range tris {
		for j, v := range t.V {
			id, ok := ids[v]
			if !ok {
				id = len(verts)
				ids[v] = id
				verts = append(verts, v)
			}
			faces[i][j] = id
		}
	}
	return verts, faces
}

// Summarize returns counts and the bounding box of tris.
func Summarize(tris []Triangle) Stats {
	verts, _ := index(tris)
	st := Stats{Triangles: len(tris), Vertices: len(verts)}
	for i, v := range verts {
		if i == 0 {
			st.Min, st.Max = v, v
			continue
		}
		st.Min = r3.Vec{X: min(st.Min.X, v.X), Y: min(st.Min.Y, v.Y), Z: min(st.Min.Z, v.Z)}
		st.Max = r3.Vec{X: max(st.Max.X, v.X), Y: max(st.Max.Y, v.Y), Z: max(st.Max.Z, v.Z)}
	}
	return st
}

// WriteOBJ writes tris as an indexed Wavefront OBJ with per-face normals.
func WriteOBJ(w io.Writer, name string, tris []Triangle) error {
	bw := bufio.NewWriter(w)
	verts, faces := index(tris)
	fmt.Fprintf(bw, "# %d vertices, %d faces\no %s\n", len(verts), len(faces), name)
	for _, v := range verts {
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
	}
	for _, t := range tris {
		fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", t.Normal.X, t.Normal.Y, t.Normal.Z)
	}
	for i, f := range faces {
		// OBJ indices are 1-based
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", f[0]+1, i+1, f[1]+1, i+1, f[2]+1, i+1)
	}
	return bw.Flush()
}
