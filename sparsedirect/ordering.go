package sparsedirect

import "sort"

/*
rcmOrdering returns a reverse Cuthill-McKee ordering of the pattern of M + M^T, with M given by its compressed
columns (Ap, Ai) and M^T by (Tp, Ti). Every connected component is numbered breadth first from a pseudo
peripheral node, neighbors in order of increasing degree, which keeps the ordered matrix within a narrow band.
*/
func rcmOrdering(n int, Ap, Ai, Tp, Ti []int) (perm []int) {
	var (
		adj    = symmetricAdjacency(n, Ap, Ai, Tp, Ti)
		placed = make([]bool, n)
		level  = make([]int, n)
	)
	for i := range level {
		level[i] = -1
	}
	perm = make([]int, 0, n)
	for len(perm) < n {
		// lowest degree node of the next component
		start := -1
		for i := 0; i < n; i++ {
			if !placed[i] && (start < 0 || len(adj[i]) < len(adj[start])) {
				start = i
			}
		}
		start = peripheralNode(start, adj, placed, level)
		perm = cuthillMcKee(start, adj, placed, perm)
	}
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		perm[i], perm[j] = perm[j], perm[i]
	}
	return
}

// symmetricAdjacency lists the off diagonal neighbors of every node in the union of both patterns.
func symmetricAdjacency(n int, Ap, Ai, Tp, Ti []int) (adj [][]int) {
	var (
		mark = make([]int, n)
	)
	adj = make([][]int, n)
	for i := range mark {
		mark[i] = -1
	}
	for j := 0; j < n; j++ {
		mark[j] = j
		for _, ind := range [][]int{Ai[Ap[j]:Ap[j+1]], Ti[Tp[j]:Tp[j+1]]} {
			for _, i := range ind {
				if mark[i] != j {
					mark[i] = j
					adj[j] = append(adj[j], i)
				}
			}
		}
	}
	return
}

// peripheralNode walks to the far end of the component of start until the eccentricity stops growing.
func peripheralNode(start int, adj [][]int, placed []bool, level []int) int {
	ecc := -1
	for {
		last, depth := levelStructure(start, adj, placed, level)
		if depth <= ecc {
			return start
		}
		ecc = depth
		next := last[0]
		for _, v := range last {
			if len(adj[v]) < len(adj[next]) {
				next = v
			}
		}
		start = next
	}
}

// levelStructure returns the nodes of the deepest breadth first level from root and its depth.
func levelStructure(root int, adj [][]int, placed []bool, level []int) (last []int, depth int) {
	queue := []int{root}
	level[root] = 0
	for h := 0; h < len(queue); h++ {
		v := queue[h]
		for _, w := range adj[v] {
			if !placed[w] && level[w] < 0 {
				level[w] = level[v] + 1
				queue = append(queue, w)
			}
		}
	}
	depth = level[queue[len(queue)-1]]
	for h := len(queue) - 1; h >= 0 && level[queue[h]] == depth; h-- {
		last = append(last, queue[h])
	}
	for _, v := range queue {
		level[v] = -1
	}
	return
}

func cuthillMcKee(root int, adj [][]int, placed []bool, perm []int) []int {
	head := len(perm)
	perm = append(perm, root)
	placed[root] = true
	for ; head < len(perm); head++ {
		first := len(perm)
		for _, w := range adj[perm[head]] {
			if !placed[w] {
				placed[w] = true
				perm = append(perm, w)
			}
		}
		next := perm[first:]
		sort.SliceStable(next, func(a, b int) bool { return len(adj[next[a]]) < len(adj[next[b]]) })
	}
	return perm
}
