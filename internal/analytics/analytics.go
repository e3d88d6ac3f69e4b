// Package analytics narrates data analysis and trend forecasting, and
// summarises sensor sweeps for those narrations.
package analytics

import (
	"math"
	"sort"

	"github.com/nerrad567/smartcity-core/internal/sensor"
)

// Printer receives operator narration. *console.Narrator satisfies it.
type Printer interface {
	Printf(format string, a ...any)
}

type discard struct{}

func (discard) Printf(string, ...any) {}

// BigData analyses city datasets.
type BigData struct {
	out Printer
}

// NewBigData creates an analyser. A nil out discards narration.
func NewBigData(out Printer) *BigData {
	if out == nil {
		out = discard{}
	}
	return &BigData{out: out}
}

// Analyze narrates the analysis of dataset.
func (b *BigData) Analyze(dataset string) {
	b.out.Printf("Analyzing Big Data: %s", dataset)
}

// Predictive forecasts city trends.
type Predictive struct {
	out Printer
}

// NewPredictive creates a forecaster. A nil out discards narration.
func NewPredictive(out Printer) *Predictive {
	if out == nil {
		out = discard{}
	}
	return &Predictive{out: out}
}

// Forecast narrates a forecast for trend.
func (p *Predictive) Forecast(trend string) {
	p.out.Printf("Forecasting Trends: %s", trend)
}

// Summary aggregates one sweep. Min, Max, Mean and Median are zero when
// no sensor succeeded.
type Summary struct {
	Total    int
	Failed   int
	Min      float64
	Max      float64
	Mean     float64
	Median   float64
	FailedBy []string
}

// Summarize computes statistics over the successful readings in results.
// Failed sensor ids are listed in the order they appear.
func Summarize(results []sensor.Result) Summary {
	s := Summary{Total: len(results)}

	values := make([]float64, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			s.Failed++
			s.FailedBy = append(s.FailedBy, r.ID)
			continue
		}
		values = append(values, r.Value)
	}
	if len(values) == 0 {
		return s
	}

	sort.Float64s(values)
	s.Min = values[0]
	s.Max = values[len(values)-1]

	var sum float64
	for _, v := range values {
		sum += v
	}
	s.Mean = sum / float64(len(values))

	mid := len(values) / 2
	if len(values)%2 == 0 {
		s.Median = (values[mid-1] + values[mid]) / 2
	} else {
		s.Median = values[mid]
	}
	return s
}

// Healthy returns the fraction of sensors that produced a reading, or
// NaN for an empty sweep.
func (s Summary) Healthy() float64 {
	if s.Total == 0 {
		return math.NaN()
	}
	return float64(s.Total-s.Failed) / float64(s.Total)
}
