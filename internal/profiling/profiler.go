package profiling

import (
	"errors"
	"fmt"
	"sort"

	"csvviz/adapters/coercer"
	"csvviz/domain/column"
	"csvviz/domain/core"
	domainStats "csvviz/domain/stats"
)

// DataProfiler classifies columns and computes their statistics records
type DataProfiler struct {
	coercer      *coercer.TypeCoercer
	distribution *DistributionAnalyzer
}

// NewDataProfiler creates a new data profiler. A nil coercer uses the defaults.
func NewDataProfiler(c *coercer.TypeCoercer) *DataProfiler {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return &DataProfiler{
		coercer:      c,
		distribution: NewDistributionAnalyzer(),
	}
}

// Coercer exposes the cell parser shared with chart selection.
func (dp *DataProfiler) Coercer() *coercer.TypeCoercer { return dp.coercer }

// Classify determines the column kind. It is a pure function of the values.
func (dp *DataProfiler) Classify(col column.Column) column.Kind {
	return dp.coercer.AnalyzeTypeDistribution(col.Values).RecommendedKind
}

// summarizer fills the kind-specific part of a record.
type summarizer func(dp *DataProfiler, col column.Column, rec *domainStats.Record) error

// summarizers holds one handler per column kind.
var summarizers = map[column.Kind]summarizer{
	column.KindNumeric:     summarizeNumeric,
	column.KindDatetime:    summarizeDatetime,
	column.KindCategorical: summarizeCategorical,
	column.KindUnsupported: summarizeUnsupported,
}

// Summarize builds the statistics record for col under kind.
func (dp *DataProfiler) Summarize(col column.Column, kind column.Kind) (domainStats.Record, error) {
	total := col.Len()
	if total == 0 {
		return domainStats.Record{}, &core.EmptyColumnError{Column: col.Name}
	}

	handler, ok := summarizers[kind]
	if !ok {
		return domainStats.Record{}, fmt.Errorf("no summarizer for column kind %q", kind)
	}

	missing := col.MissingCount()
	rec := domainStats.Record{
		Column:            col.Name,
		Kind:              kind,
		TotalCount:        total,
		MissingCount:      missing,
		MissingPercentage: float64(missing) / float64(total) * 100,
	}
	if err := handler(dp, col, &rec); err != nil {
		return domainStats.Record{}, err
	}
	return rec, nil
}

// Profile classifies and summarizes in one step.
func (dp *DataProfiler) Profile(col column.Column) (column.Kind, domainStats.Record, error) {
	if col.Len() == 0 {
		return column.KindUnsupported, domainStats.Record{}, &core.EmptyColumnError{Column: col.Name}
	}
	kind := dp.Classify(col)
	rec, err := dp.Summarize(col, kind)
	return kind, rec, err
}

// NumericValues parses the present values of a numeric column.
func (dp *DataProfiler) NumericValues(col column.Column) ([]float64, []int, error) {
	present, rows := col.Present()
	values := make([]float64, len(present))
	for i, raw := range present {
		v, ok := dp.coercer.ParseNumeric(raw)
		if !ok {
			return nil, nil, fmt.Errorf("column %q row %d: %q is not numeric", col.Name, rows[i], raw)
		}
		values[i] = v
	}
	return values, rows, nil
}

func summarizeNumeric(dp *DataProfiler, col column.Column, rec *domainStats.Record) error {
	values, _, err := dp.NumericValues(col)
	if err != nil {
		return err
	}
	summary, err := dp.distribution.AnalyzeDistribution(values)
	var outOfRange *core.OutOfRangeError
	if errors.As(err, &outOfRange) {
		outOfRange.Column = col.Name
		return outOfRange
	}
	if err != nil {
		return fmt.Errorf("summarize column %q: %w", col.Name, err)
	}
	rec.Numeric = &summary
	return nil
}

// summarizeDatetime only validates the values; a trend column reports missing info alone.
func summarizeDatetime(dp *DataProfiler, col column.Column, rec *domainStats.Record) error {
	present, rows := col.Present()
	for i, raw := range present {
		if _, ok := dp.coercer.ParseTimestamp(raw); !ok {
			return fmt.Errorf("column %q row %d: %q is not a date", col.Name, rows[i], raw)
		}
	}
	return nil
}

func summarizeCategorical(_ *DataProfiler, col column.Column, rec *domainStats.Record) error {
	present, _ := col.Present()
	rec.Frequencies = Frequencies(present)
	return nil
}

func summarizeUnsupported(_ *DataProfiler, col column.Column, _ *domainStats.Record) error {
	return &core.UnclassifiableColumnError{Column: col.Name}
}

// Frequencies counts distinct values, most frequent first; ties keep the order
// in which values first appear.
func Frequencies(values []string) []domainStats.Frequency {
	index := make(map[string]int)
	var freqs []domainStats.Frequency
	for _, v := range values {
		if i, ok := index[v]; ok {
			freqs[i].Count++
			continue
		}
		index[v] = len(freqs)
		freqs = append(freqs, domainStats.Frequency{Value: v, Count: 1})
	}
	sort.SliceStable(freqs, func(i, j int) bool {
		return freqs[i].Count > freqs[j].Count
	})
	return freqs
}
