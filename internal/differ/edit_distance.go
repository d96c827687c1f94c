package differ

// shortestEditDistance computes the minimum number of insertions plus
// deletions (no substitutions) turning sequence a into sequence b, using the
// O(N·D) greedy forward search over diagonals from Myers' shortest edit
// script algorithm. Only the distance is computed; the edit script itself is
// never materialized.
func shortestEditDistance(a, b []int) int {
	n, m := len(a), len(b)
	maxDist := n + m
	if maxDist == 0 {
		return 0
	}

	// v[k+maxDist] holds the furthest x reached on diagonal k with the
	// current number of edits.
	v := make([]int, 2*maxDist+1)
	for d := 0; d <= maxDist; d++ {
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[k-1+maxDist] < v[k+1+maxDist]) {
				x = v[k+1+maxDist]
			} else {
				x = v[k-1+maxDist] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[k+maxDist] = x
			if x >= n && y >= m {
				return d
			}
		}
	}

	// Unreachable: d = n+m always suffices (delete everything, insert
	// everything).
	return maxDist
}
