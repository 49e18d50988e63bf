// Package profile computes the dataset summary behind the report: per-column
// descriptive statistics, value frequencies, missingness and pairwise
// correlations between numeric columns.
package profile

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"autoeda/domain/dataset"
)

// TopValueCount is how many of the most frequent values are kept per
// non-numeric column
const TopValueCount = 5

// minCorrelationPairs is the smallest pairwise-complete sample a
// correlation is computed over; below it the t statistic is undefined
const minCorrelationPairs = 3

// Summary is the full profile of one dataset
type Summary struct {
	Name         string
	Rows         int
	Cols         int
	Columns      []ColumnProfile
	Correlations []Correlation
}

// ColumnProfile describes one column
type ColumnProfile struct {
	Name       string
	Kind       dataset.Kind
	Missing    int
	MissingPct float64
	Distinct   int
	Numeric    *NumericSummary // nil for non-numeric columns
	TopValues  []ValueCount    // most frequent values, non-numeric columns only
}

// NumericSummary holds descriptive statistics over the present cells
type NumericSummary struct {
	Count    int
	Mean     float64
	StdDev   float64
	Min      float64
	Q25      float64
	Median   float64
	Q75      float64
	Max      float64
	Skewness float64
}

// ValueCount is one value and how often it appears
type ValueCount struct {
	Value string
	Count int
}

// Correlation is the Pearson correlation between two numeric columns over
// their pairwise-complete rows
type Correlation struct {
	X      string
	Y      string
	R      float64
	PValue float64
	N      int
}

// Profile computes the summary for a frame
func Profile(name string, frame *dataset.Frame) (*Summary, error) {
	summary := &Summary{
		Name: name,
		Rows: frame.NumRows(),
		Cols: frame.NumCols(),
	}

	for _, col := range frame.Columns() {
		cp := ColumnProfile{
			Name:     col.Name,
			Kind:     col.Kind,
			Missing:  col.MissingCount(),
			Distinct: distinctCount(col),
		}
		if summary.Rows > 0 {
			cp.MissingPct = float64(cp.Missing) / float64(summary.Rows) * 100
		}

		if col.Kind == dataset.KindNumeric {
			values := col.Numbers()
			if len(values) > 0 {
				numeric, err := summarizeNumeric(values)
				if err != nil {
					return nil, err
				}
				cp.Numeric = numeric
			}
		} else {
			cp.TopValues = topValues(col, TopValueCount)
		}
		summary.Columns = append(summary.Columns, cp)
	}

	summary.Correlations = correlate(frame)
	return summary, nil
}

func summarizeNumeric(values []float64) (*NumericSummary, error) {
	mean, err := stats.Mean(values)
	if err != nil {
		return nil, err
	}
	stdDev, err := stats.StandardDeviation(values)
	if err != nil {
		return nil, err
	}
	min, err := stats.Min(values)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(values)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(values)
	if err != nil {
		return nil, err
	}

	summary := &NumericSummary{
		Count:    len(values),
		Mean:     mean,
		StdDev:   stdDev,
		Min:      min,
		Median:   median,
		Max:      max,
		Skewness: skewness(values, mean, stdDev),
	}

	// Quartiles are undefined for tiny samples in this library
	if q25, err := stats.Percentile(values, 25); err == nil {
		summary.Q25 = q25
	} else {
		summary.Q25 = min
	}
	if q75, err := stats.Percentile(values, 75); err == nil {
		summary.Q75 = q75
	} else {
		summary.Q75 = max
	}
	return summary, nil
}

func skewness(values []float64, mean, stdDev float64) float64 {
	if stdDev == 0 || len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := (v - mean) / stdDev
		sum += d * d * d
	}
	return sum / float64(len(values))
}

func distinctCount(col *dataset.Column) int {
	seen := make(map[string]bool)
	for _, cell := range col.Cells {
		if !cell.Missing {
			seen[cell.Raw] = true
		}
	}
	return len(seen)
}

func topValues(col *dataset.Column, limit int) []ValueCount {
	counts := make(map[string]int)
	for _, cell := range col.Cells {
		if !cell.Missing {
			counts[cell.Raw]++
		}
	}

	values := make([]ValueCount, 0, len(counts))
	for value, count := range counts {
		values = append(values, ValueCount{Value: value, Count: count})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Value < values[j].Value
	})
	if len(values) > limit {
		values = values[:limit]
	}
	return values
}

// correlate computes Pearson r and a two-sided p-value for every pair of
// numeric columns, using only rows where both cells are present
func correlate(frame *dataset.Frame) []Correlation {
	var numeric []*dataset.Column
	for _, col := range frame.Columns() {
		if col.Kind == dataset.KindNumeric {
			numeric = append(numeric, col)
		}
	}

	var correlations []Correlation
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			xs, ys := pairwiseComplete(numeric[i], numeric[j])
			if len(xs) < minCorrelationPairs {
				continue
			}
			r := stat.Correlation(xs, ys, nil)
			if math.IsNaN(r) {
				continue
			}
			correlations = append(correlations, Correlation{
				X:      numeric[i].Name,
				Y:      numeric[j].Name,
				R:      r,
				PValue: correlationPValue(r, len(xs)),
				N:      len(xs),
			})
		}
	}
	return correlations
}

func pairwiseComplete(x, y *dataset.Column) ([]float64, []float64) {
	n := len(x.Cells)
	if len(y.Cells) < n {
		n = len(y.Cells)
	}
	var xs, ys []float64
	for i := 0; i < n; i++ {
		xv, ok := x.Cells[i].Float()
		if !ok {
			continue
		}
		yv, ok := y.Cells[i].Float()
		if !ok {
			continue
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	return xs, ys
}

// correlationPValue converts r to a two-sided p-value via the t statistic
// with n-2 degrees of freedom
func correlationPValue(r float64, n int) float64 {
	denom := 1 - r*r
	if denom < 1e-12 {
		return 0
	}
	t := math.Abs(r) * math.Sqrt(float64(n-2)/denom)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * (1 - dist.CDF(t))
}
