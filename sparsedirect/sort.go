package sparsedirect

/*
SortArrays restores ascending column order in each row of compressed row arrays whose rows hold at most one
misplaced entry at the front, as left by diagonal-first storage. Values move with their column indices.
*/
func SortArrays(Ap, Ai []int, Ax []float64) {
	for row := 0; row < len(Ap)-1; row++ {
		cursor := Ap[row]
		for cursor < Ap[row+1]-1 && Ai[cursor] > Ai[cursor+1] {
			Ai[cursor], Ai[cursor+1] = Ai[cursor+1], Ai[cursor]
			Ax[cursor], Ax[cursor+1] = Ax[cursor+1], Ax[cursor]
			cursor++
		}
	}
}

/*
SortArraysBlock is SortArrays for block matrices, where each block column may leave one misplaced entry in a
row. Sorted runs are skipped and each out of place entry is bubbled forward.
*/
func SortArraysBlock(Ap, Ai []int, Ax []float64, nBlockCols int) {
	for row := 0; row < len(Ap)-1; row++ {
		var (
			cursor = Ap[row]
			last   = Ap[row+1] - 1
		)
		for block := 0; block < nBlockCols; block++ {
			for cursor < last && Ai[cursor] < Ai[cursor+1] {
				cursor++
			}
			if cursor >= last {
				break
			}
			for element := cursor; element < last && Ai[element] > Ai[element+1]; element++ {
				Ai[element], Ai[element+1] = Ai[element+1], Ai[element]
				Ax[element], Ax[element+1] = Ax[element+1], Ax[element]
			}
		}
	}
}
