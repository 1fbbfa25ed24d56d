package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"creditcard-eda/internal/dataset"
)

// percentPlaces is the rounding precision of class percentages.
const percentPlaces = 4

// ClassCount is the frequency of one class label.
type ClassCount struct {
	Class   int     `json:"class"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Distribution counts the rows of each observed class, ascending by label.
// Labels that do not occur are omitted.
func Distribution(t *dataset.Table) []ClassCount {
	counts := make(map[int]int, 2)
	for r := 0; r < t.Len(); r++ {
		counts[t.Class(r)]++
	}

	labels := make([]int, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	total := decimal.NewFromInt(int64(t.Len()))
	hundred := decimal.NewFromInt(100)

	out := make([]ClassCount, 0, len(labels))
	for _, label := range labels {
		n := counts[label]
		pct := decimal.NewFromInt(int64(n)).Mul(hundred).Div(total).Round(percentPlaces)
		out = append(out, ClassCount{
			Class:   label,
			Count:   n,
			Percent: pct.InexactFloat64(),
		})
	}
	return out
}
