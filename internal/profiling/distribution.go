package profiling

import (
	"fmt"
	"math"
	"slices"

	"github.com/montanaflynn/stats"

	"csvviz/domain/core"
	domainStats "csvviz/domain/stats"
)

// DistributionAnalyzer computes descriptive statistics for numeric samples
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// AnalyzeDistribution summarizes data, which must hold only non-missing values.
//
// Values are scaled by a power of two into (-1, 1) before aggregating, so
// large finite inputs do not overflow intermediate sums. Power-of-two scaling
// is exact, which leaves results for ordinary data unchanged.
func (da *DistributionAnalyzer) AnalyzeDistribution(data []float64) (domainStats.NumericSummary, error) {
	summary := domainStats.NumericSummary{}
	if len(data) == 0 {
		return summary, fmt.Errorf("no numeric values to summarize")
	}

	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}

	exp := ScaleExponent(min, max)
	scaled := make([]float64, len(data))
	for i, v := range data {
		scaled[i] = math.Ldexp(v, -exp)
	}

	mean, err := stats.Mean(scaled)
	if err != nil {
		return summary, err
	}

	median, err := stats.Median(scaled)
	if err != nil {
		return summary, err
	}

	// Sample standard deviation is undefined below two observations.
	stdDev := 0.0
	if len(scaled) > 1 {
		stdDev, err = stats.StandardDeviationSample(scaled)
		if err != nil {
			return summary, err
		}
	}

	slices.Sort(scaled)

	summary.Mean = math.Ldexp(mean, exp)
	summary.Median = math.Ldexp(median, exp)
	summary.StdDev = math.Ldexp(stdDev, exp)
	summary.Min = min
	summary.Max = max
	summary.Q1 = math.Ldexp(QuantileLinear(scaled, 0.25), exp)
	summary.Q3 = math.Ldexp(QuantileLinear(scaled, 0.75), exp)

	if math.IsInf(summary.StdDev, 0) {
		return domainStats.NumericSummary{}, &core.OutOfRangeError{What: "standard deviation"}
	}
	return summary, nil
}

// ScaleExponent returns e such that every value in [lo, hi] divided by 2^e
// lies in (-1, 1).
func ScaleExponent(lo, hi float64) int {
	_, exp := math.Frexp(math.Max(math.Abs(lo), math.Abs(hi)))
	return exp
}

// QuantileLinear interpolates linearly between the closest ranks of sorted,
// placing quantile p at position p*(n-1). For 1..10 it yields Q1=3.25, Q3=7.75.
func QuantileLinear(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return math.NaN()
	case n == 1 || p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[n-1]
	}

	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
