package segeval

import "math"

// solveLinearAssignment solves the dense square linear assignment problem (minimum total cost)
// with shortest augmenting paths over dual potentials (Kuhn-Munkres, O(n^3)).
// Returns column assigned to every row.
func solveLinearAssignment(cost [][]float64) []int {
	n := len(cost)
	// Potentials and matching are 1-based, index 0 is the virtual start column
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	colOwner := make([]int, n+1)
	way := make([]int, n+1)

	for row := 1; row <= n; row++ {
		colOwner[0] = row
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		for {
			used[j0] = true
			i0 := colOwner[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[colOwner[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if colOwner[j0] == 0 {
				break
			}
		}
		// Augment along the found path
		for j0 != 0 {
			j1 := way[j0]
			colOwner[j0] = colOwner[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, n)
	for j := 1; j <= n; j++ {
		if colOwner[j] != 0 {
			rowToCol[colOwner[j]-1] = j - 1
		}
	}
	return rowToCol
}
