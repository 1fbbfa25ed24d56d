package analysis

import (
	"sort"

	"creditcard-eda/internal/dataset"
)

// HourCount is the number of transactions in one hour bucket.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// HourlyCounts counts rows per derived hour, ascending. Hours without
// transactions are omitted.
func HourlyCounts(t *dataset.Table) []HourCount {
	counts := make(map[int]int, 48)
	for r := 0; r < t.Len(); r++ {
		counts[t.Hour(r)]++
	}

	out := make([]HourCount, 0, len(counts))
	for hour, n := range counts {
		out = append(out, HourCount{Hour: hour, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Hour < out[j].Hour
	})
	return out
}
