package metrics

import "sort"

// Ranking holds the ascending rank and percentile of one input value.
type Ranking struct {
	Rank       int     `json:"rank"`
	Total      int     `json:"rank_total"`
	Percentile float64 `json:"percentile"`
}

// Rank assigns ascending ranks (1 = lowest value) and percentiles (rank/N)
// to values. Equal values share the minimum rank. The result is positional:
// out[i] ranks values[i], so tie-breaking is stable by input order.
func Rank(values []float64) []Ranking {
	n := len(values)
	if n == 0 {
		return nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	out := make([]Ranking, n)
	for pos, i := range idx {
		rank := pos + 1
		if pos > 0 && values[i] == values[idx[pos-1]] {
			rank = out[idx[pos-1]].Rank
		}
		out[i] = Ranking{
			Rank:       rank,
			Total:      n,
			Percentile: float64(rank) / float64(n),
		}
	}
	return out
}
