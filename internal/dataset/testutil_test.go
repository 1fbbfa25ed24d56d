package dataset

import (
	"strconv"
	"strings"

	"creditcard-eda/internal/domain"
)

// csvRow is one data line for buildCSV; features default to zero.
type csvRow struct {
	time   string
	amount string
	class  string
}

// buildCSV renders a schema-conformant CSV document.
func buildCSV(rows ...csvRow) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(domain.Columns(), ","))
	sb.WriteString("\n")
	for i, r := range rows {
		cells := make([]string, 0, domain.FeatureCount+3)
		cells = append(cells, r.time)
		for f := 0; f < domain.FeatureCount; f++ {
			cells = append(cells, strconv.FormatFloat(float64(i)*0.01+float64(f), 'f', -1, 64))
		}
		cells = append(cells, r.amount, r.class)
		sb.WriteString(strings.Join(cells, ","))
		sb.WriteString("\n")
	}
	return sb.String()
}

func newTx(time, amount float64, class int) *domain.Transaction {
	return &domain.Transaction{Time: time, Amount: amount, Class: class}
}
