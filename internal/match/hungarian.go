package match

// hungarianInf is a finite sentinel standing in for "forbidden pairing".
// The shortest-augmenting-path formulation below does arithmetic on costs
// (subtracting row/column potentials), so an actual +Inf would propagate
// NaNs; a large finite value keeps it forbidden without poisoning the sums.
const hungarianInf = 1e18

// hungarian solves the rectangular assignment problem (n rows, m columns,
// n <= m) by the shortest-augmenting-path formulation of the Hungarian
// algorithm, O(n^2*m). cost[i][j] >= hungarianInf marks a forbidden pairing.
// Returns, for each row i, the assigned column or -1 if the only columns
// reachable from i were forbidden.
func hungarian(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])

	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1) // p[j] = 1-based row assigned to column j, 0 = unassigned
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = hungarianInf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := hungarianInf
			j1 := 0
			for j := 1; j <= m; j++ {
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
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if j0 == 0 || p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowAssignment := make([]int, n)
	for i := range rowAssignment {
		rowAssignment[i] = -1
	}
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			rowAssignment[p[j]-1] = j - 1
		}
	}

	// A pairing that only exists because every real option was forbidden
	// still carries ~hungarianInf cost; unwind those back to unmatched.
	for i := 0; i < n; i++ {
		if j := rowAssignment[i]; j >= 0 && cost[i][j] >= hungarianInf {
			rowAssignment[i] = -1
		}
	}

	return rowAssignment
}
