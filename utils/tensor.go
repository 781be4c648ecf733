package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense tensor of arbitrary rank stored with the last index varying fastest.
type Tensor struct {
	Shape []int
	Data  []float64
}

func NewTensor(shape ...int) (T *Tensor) {
	size := 1
	for _, n := range shape {
		if n < 1 {
			panic(fmt.Errorf("invalid tensor shape %v", shape))
		}
		size *= n
	}
	T = &Tensor{
		Shape: append([]int{}, shape...),
		Data:  make([]float64, size),
	}
	return
}

// NewUniformTensor returns a tensor of the given rank where every index runs over n values.
func NewUniformTensor(rank, n int) (T *Tensor) {
	shape := make([]int, rank)
	for i := range shape {
		shape[i] = n
	}
	return NewTensor(shape...)
}

func (T *Tensor) Rank() int { return len(T.Shape) }

func (T *Tensor) Len() int { return len(T.Data) }

func (T *Tensor) Copy() (R *Tensor) {
	R = &Tensor{
		Shape: append([]int{}, T.Shape...),
		Data:  append([]float64{}, T.Data...),
	}
	return
}

func (T *Tensor) SetZero() {
	for i := range T.Data {
		T.Data[i] = 0
	}
}

func (T *Tensor) Index(ind ...int) (k int) {
	if len(ind) != len(T.Shape) {
		panic(fmt.Errorf("tensor of rank %d indexed with %d indices", len(T.Shape), len(ind)))
	}
	for i, n := range T.Shape {
		if ind[i] < 0 || ind[i] >= n {
			panic(fmt.Errorf("index %v out of range for shape %v", ind, T.Shape))
		}
		k = k*n + ind[i]
	}
	return
}

func (T *Tensor) At(ind ...int) float64 { return T.Data[T.Index(ind...)] }

func (T *Tensor) Set(val float64, ind ...int) { T.Data[T.Index(ind...)] = val }

// Indices decodes a flat position into a multi-index, written into ind.
func (T *Tensor) Indices(k int, ind []int) {
	for i := len(T.Shape) - 1; i >= 0; i-- {
		ind[i] = k % T.Shape[i]
		k /= T.Shape[i]
	}
}

/*
TransformLegs contracts every index of T with a matrix:

	R[a_0..a_r] = sum_b T[b_0..b_r] M_0[a_0][b_0] ... M_r[a_r][b_r]

A nil matrix leaves that index untouched. Each matrix must have as many columns as the matching extent of T.
*/
func (T *Tensor) TransformLegs(mats ...mat.Matrix) (R *Tensor) {
	if len(mats) != T.Rank() {
		panic(fmt.Errorf("need %d matrices to transform a rank %d tensor, have %d", T.Rank(), T.Rank(), len(mats)))
	}
	R = T
	for leg, M := range mats {
		if M == nil {
			continue
		}
		R = R.contractLeg(leg, M)
	}
	if R == T {
		R = T.Copy()
	}
	return
}

func (T *Tensor) contractLeg(leg int, M mat.Matrix) (R *Tensor) {
	nr, nc := M.Dims()
	if nc != T.Shape[leg] {
		panic(fmt.Errorf("dimension mismatch: leg %d has extent %d, matrix has %d columns", leg, T.Shape[leg], nc))
	}
	shape := append([]int{}, T.Shape...)
	shape[leg] = nr
	R = NewTensor(shape...)
	var (
		outer, inner = 1, 1
	)
	for i := 0; i < leg; i++ {
		outer *= T.Shape[i]
	}
	for i := leg + 1; i < len(T.Shape); i++ {
		inner *= T.Shape[i]
	}
	for o := 0; o < outer; o++ {
		for a := 0; a < nr; a++ {
			dst := R.Data[(o*nr+a)*inner : (o*nr+a+1)*inner]
			for b := 0; b < nc; b++ {
				m := M.At(a, b)
				if m == 0 {
					continue
				}
				src := T.Data[(o*nc+b)*inner : (o*nc+b+1)*inner]
				for k := range dst {
					dst[k] += m * src[k]
				}
			}
		}
	}
	return
}
