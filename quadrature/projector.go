package quadrature

import (
	"fmt"
)

// NOrientations is the number of face orientation cases stored per face for a cell of dimension dim.
func NOrientations(dim int) int {
	if dim == 3 {
		return 8
	}
	return 1
}

func NFaces(dim int) int { return 2 * dim }

func nSubfaces(dim int) int {
	switch dim {
	case 1:
		return 1
	case 2:
		return 2
	}
	return 4
}

// OrientationIndex packs the three face orientation bits of a 3D face into the range [0,8).
func OrientationIndex(orientation, flip, rotation bool) (idx int) {
	if !orientation {
		idx += 4
	}
	if flip {
		idx += 2
	}
	if rotation {
		idx++
	}
	return
}

/*
FaceOffset is the position of the first point belonging to the given face and orientation within a rule
produced by ProjectToAllFaces from an nq point face rule.
*/
func FaceOffset(dim, face int, orientation, flip, rotation bool, nq int) int {
	checkFace(dim, face)
	switch dim {
	case 1, 2:
		return face * nq
	}
	return (OrientationIndex(orientation, flip, rotation)*NFaces(dim) + face) * nq
}

// SubfaceOffset is the analog of FaceOffset for rules produced by ProjectToAllSubfaces.
func SubfaceOffset(dim, face, subface int, orientation, flip, rotation bool, nq int) int {
	checkFace(dim, face)
	if subface < 0 || subface >= nSubfaces(dim) {
		panic(fmt.Errorf("subface %d out of range for dimension %d", subface, dim))
	}
	switch dim {
	case 1:
		return face * nq
	case 2:
		return (face*2 + subface) * nq
	}
	return ((OrientationIndex(orientation, flip, rotation)*NFaces(dim)+face)*4 + subface) * nq
}

func checkFace(dim, face int) {
	if dim < 1 || dim > 3 {
		panic(fmt.Errorf("face projection not implemented for dimension %d", dim))
	}
	if face < 0 || face >= NFaces(dim) {
		panic(fmt.Errorf("face %d out of range for dimension %d", face, dim))
	}
}

/*
ProjectToAllFaces embeds a rule on the reference face into the reference cell once for each face (and, in 3D,
once for each of the eight orientation cases), in the order addressed by FaceOffset.
*/
func ProjectToAllFaces(qf *Quadrature) (q *Quadrature) {
	dim := qf.Dim + 1
	checkFace(dim, 0)
	q = &Quadrature{Dim: dim}
	for o := 0; o < NOrientations(dim); o++ {
		for face := 0; face < NFaces(dim); face++ {
			for i, p := range qf.Points {
				q.Points = append(q.Points, embedInFace(dim, face, orient(o, p)))
				q.Weights = append(q.Weights, qf.Weights[i])
			}
		}
	}
	return
}

// ProjectToAllSubfaces embeds a face rule into every child of every face, in the order addressed by SubfaceOffset.
func ProjectToAllSubfaces(qf *Quadrature) (q *Quadrature) {
	dim := qf.Dim + 1
	checkFace(dim, 0)
	if dim == 1 {
		return ProjectToAllFaces(qf)
	}
	var (
		ns    = nSubfaces(dim)
		ratio = 1. / float64(ns)
	)
	q = &Quadrature{Dim: dim}
	for o := 0; o < NOrientations(dim); o++ {
		for face := 0; face < NFaces(dim); face++ {
			for sf := 0; sf < ns; sf++ {
				for i, p := range qf.Points {
					ps := toSubface(p, sf)
					q.Points = append(q.Points, embedInFace(dim, face, orient(o, ps)))
					q.Weights = append(q.Weights, qf.Weights[i]*ratio)
				}
			}
		}
	}
	return
}

func toSubface(p []float64, sf int) (r []float64) {
	r = make([]float64, len(p))
	switch len(p) {
	case 1:
		r[0] = 0.5 * (p[0] + float64(sf))
	case 2:
		r[0] = 0.5 * (p[0] + float64(sf%2))
		r[1] = 0.5 * (p[1] + float64(sf/2))
	}
	return
}

/*
orient maps a face-local point for the given orientation case: a non-standard orientation transposes the two
face coordinates, a flip rotates by 180 degrees and a rotation by 90 degrees, applied in that order.
*/
func orient(o int, p []float64) (r []float64) {
	r = append([]float64{}, p...)
	if len(p) != 2 {
		return
	}
	x, y := r[0], r[1]
	if o&4 != 0 {
		x, y = y, x
	}
	if o&2 != 0 {
		x, y = 1-x, 1-y
	}
	if o&1 != 0 {
		x, y = y, 1-x
	}
	r[0], r[1] = x, y
	return
}

// embedInFace places a face-local point onto the given face of the reference cell.
func embedInFace(dim, face int, p []float64) (r []float64) {
	r = make([]float64, dim)
	var (
		side = float64(face % 2)
	)
	switch dim {
	case 1:
		r[0] = side
	case 2:
		if face < 2 {
			r[0], r[1] = side, p[0]
		} else {
			r[0], r[1] = p[0], side
		}
	case 3:
		switch face / 2 {
		case 0:
			r[0], r[1], r[2] = side, p[0], p[1]
		case 1:
			r[0], r[1], r[2] = p[1], side, p[0]
		case 2:
			r[0], r[1], r[2] = p[0], p[1], side
		}
	}
	return
}
