package cleaner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/amosWeiskopf/scrapekit/pkg/errkind"
)

// Fill strategies accepted by FillMissing.
const (
	StrategyMean   = "mean"
	StrategyMedian = "median"
	StrategyMode   = "mode"
)

// Frame is a small column-oriented table of string cells. The empty
// string marks a missing value. Cleaning operations return new frames;
// a Frame is never mutated after construction.
type Frame struct {
	columns []string
	cells   map[string][]string
	rows    int
}

// NewFrame builds an empty frame with the given column order.
func NewFrame(columns ...string) *Frame {
	f := &Frame{
		columns: append([]string(nil), columns...),
		cells:   make(map[string][]string, len(columns)),
	}
	for _, c := range f.columns {
		f.cells[c] = nil
	}
	return f
}

// AppendRow adds one row. Columns absent from row are recorded as
// missing.
func (f *Frame) AppendRow(row map[string]string) {
	for _, c := range f.columns {
		f.cells[c] = append(f.cells[c], row[c])
	}
	f.rows++
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.rows
}

// Column returns the cells of one column in row order, or nil for an
// unknown name.
func (f *Frame) Column(name string) []string {
	return append([]string(nil), f.cells[name]...)
}

// Row returns row i as a column-to-cell map.
func (f *Frame) Row(i int) map[string]string {
	row := make(map[string]string, len(f.columns))
	for _, c := range f.columns {
		row[c] = f.cells[c][i]
	}
	return row
}

// DropMissing returns a frame without the rows that have any missing
// cell.
func (f *Frame) DropMissing() *Frame {
	out := NewFrame(f.columns...)
	for i := 0; i < f.rows; i++ {
		row := f.Row(i)
		complete := true
		for _, v := range row {
			if v == "" {
				complete = false
				break
			}
		}
		if complete {
			out.AppendRow(row)
		}
	}
	return out
}

// DropDuplicates returns a frame keeping only the first occurrence of
// each identical row.
func (f *Frame) DropDuplicates() *Frame {
	out := NewFrame(f.columns...)
	seen := make(map[string]bool, f.rows)
	for i := 0; i < f.rows; i++ {
		parts := make([]string, len(f.columns))
		for j, c := range f.columns {
			parts[j] = f.cells[c][i]
		}
		key := strings.Join(parts, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		out.AppendRow(f.Row(i))
	}
	return out
}

// DropColumns returns a frame without the named columns.
func (f *Frame) DropColumns(names ...string) *Frame {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var kept []string
	for _, c := range f.columns {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	out := NewFrame(kept...)
	for i := 0; i < f.rows; i++ {
		out.AppendRow(f.Row(i))
	}
	return out
}

// FillMissing returns a frame with missing cells filled per strategy:
// mean and median fill numeric columns only, mode fills every column
// with its most frequent value. Unknown strategies fail with
// ErrUnsupportedStrategy.
func (f *Frame) FillMissing(strategy string) (*Frame, error) {
	switch strategy {
	case StrategyMean, StrategyMedian:
		return f.fillNumeric(strategy)
	case StrategyMode:
		return f.fillMode(), nil
	default:
		return nil, errkind.Wrap(fmt.Errorf("%q", strategy), errkind.ErrUnsupportedStrategy, "fill missing")
	}
}

func (f *Frame) fillNumeric(strategy string) (*Frame, error) {
	fills := make(map[string]string, len(f.columns))
	for _, c := range f.columns {
		values, ok := f.numericColumn(c)
		if !ok || len(values) == 0 {
			continue
		}
		var fill float64
		var err error
		if strategy == StrategyMean {
			fill, err = stats.Mean(values)
		} else {
			fill, err = stats.Median(values)
		}
		if err != nil {
			return nil, errkind.Wrap(err, errkind.ErrUnsupportedStrategy, "aggregate column")
		}
		fills[c] = formatFloat(fill)
	}
	return f.fillWith(fills), nil
}

func (f *Frame) fillMode() *Frame {
	fills := make(map[string]string, len(f.columns))
	for _, c := range f.columns {
		counts := make(map[string]int)
		order := make(map[string]int)
		for i, v := range f.cells[c] {
			if v == "" {
				continue
			}
			if _, seen := counts[v]; !seen {
				order[v] = i
			}
			counts[v]++
		}
		best := ""
		for v, n := range counts {
			if best == "" || n > counts[best] || (n == counts[best] && order[v] < order[best]) {
				best = v
			}
		}
		if best != "" {
			fills[c] = best
		}
	}
	return f.fillWith(fills)
}

func (f *Frame) fillWith(fills map[string]string) *Frame {
	out := NewFrame(f.columns...)
	for i := 0; i < f.rows; i++ {
		row := f.Row(i)
		for c, fill := range fills {
			if row[c] == "" {
				row[c] = fill
			}
		}
		out.AppendRow(row)
	}
	return out
}

// OneHotEncode returns a frame where every categorical (non-numeric)
// column is replaced by one 0/1 column per distinct value, named
// column_value in sorted value order. Numeric columns pass through.
func (f *Frame) OneHotEncode() *Frame {
	var outColumns []string
	encoded := make(map[string][]string)

	for _, c := range f.columns {
		if _, numeric := f.numericColumn(c); numeric {
			outColumns = append(outColumns, c)
			continue
		}
		distinct := make(map[string]bool)
		for _, v := range f.cells[c] {
			if v != "" {
				distinct[v] = true
			}
		}
		values := make([]string, 0, len(distinct))
		for v := range distinct {
			values = append(values, v)
		}
		sort.Strings(values)
		encoded[c] = values
		for _, v := range values {
			outColumns = append(outColumns, c+"_"+v)
		}
	}

	out := NewFrame(outColumns...)
	for i := 0; i < f.rows; i++ {
		row := make(map[string]string, len(outColumns))
		for _, c := range f.columns {
			values, isEncoded := encoded[c]
			if !isEncoded {
				row[c] = f.cells[c][i]
				continue
			}
			for _, v := range values {
				cell := "0"
				if f.cells[c][i] == v {
					cell = "1"
				}
				row[c+"_"+v] = cell
			}
		}
		out.AppendRow(row)
	}
	return out
}

// MinMaxNormalize returns a frame with every numeric column scaled to
// [0, 1]. Constant columns map to 0, missing cells stay missing,
// non-numeric columns pass through.
func (f *Frame) MinMaxNormalize() (*Frame, error) {
	scaled := make(map[string][]string, len(f.columns))
	for _, c := range f.columns {
		values, ok := f.numericColumn(c)
		if !ok || len(values) == 0 {
			continue
		}
		min, err := stats.Min(values)
		if err != nil {
			return nil, errkind.Wrap(err, errkind.ErrFormat, "aggregate column")
		}
		max, err := stats.Max(values)
		if err != nil {
			return nil, errkind.Wrap(err, errkind.ErrFormat, "aggregate column")
		}

		column := make([]string, f.rows)
		for i, cell := range f.cells[c] {
			if cell == "" {
				continue
			}
			v, _ := strconv.ParseFloat(cell, 64)
			if max == min {
				column[i] = "0"
			} else {
				column[i] = formatFloat((v - min) / (max - min))
			}
		}
		scaled[c] = column
	}

	out := NewFrame(f.columns...)
	for i := 0; i < f.rows; i++ {
		row := f.Row(i)
		for c, column := range scaled {
			row[c] = column[i]
		}
		out.AppendRow(row)
	}
	return out, nil
}

// CleanColumn returns a frame with the normalizer applied to every
// non-missing cell of the named column.
func (f *Frame) CleanColumn(name string, n *Normalizer) (*Frame, error) {
	if _, ok := f.cells[name]; !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	out := NewFrame(f.columns...)
	for i := 0; i < f.rows; i++ {
		row := f.Row(i)
		if row[name] != "" {
			cleaned, err := n.Normalize(row[name])
			if err != nil {
				return nil, err
			}
			row[name] = cleaned
		}
		out.AppendRow(row)
	}
	return out, nil
}

// numericColumn parses the non-missing cells of a column as floats.
// The column counts as numeric only when every non-missing cell parses.
func (f *Frame) numericColumn(name string) ([]float64, bool) {
	var values []float64
	for _, cell := range f.cells[name] {
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
