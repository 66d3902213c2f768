// Package stats computes run score distributions over competition
// submissions: pass rates, percentiles, and bootstrap confidence intervals.
package stats

import (
	"math"

	"github.com/kernelbot/hypercorn/dataset"
)

// ScoreSummary aggregates run outcomes across a set of submissions. Rows
// without a recorded run_score count toward Rows but not Scored; pass rate
// is computed over rows that recorded run_passed.
type ScoreSummary struct {
	Rows     int     `json:"rows"`
	Scored   int     `json:"scored"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	PassRate float64 `json:"pass_rate"`

	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`

	CI ConfidenceInterval `json:"confidence_interval"`
}

// Summarize computes a ScoreSummary for the given submissions. A negative
// seed makes the bootstrap non-deterministic; tests pass a fixed seed.
func Summarize(subs []dataset.Submission, seed int64) ScoreSummary {
	s := ScoreSummary{Rows: len(subs)}

	scores := make([]float64, 0, len(subs))
	for _, sub := range subs {
		if sub.RunScore != nil {
			scores = append(scores, *sub.RunScore)
		}
		if sub.RunPassed != nil {
			if *sub.RunPassed {
				s.Passed++
			} else {
				s.Failed++
			}
		}
	}
	s.Scored = len(scores)
	if judged := s.Passed + s.Failed; judged > 0 {
		s.PassRate = float64(s.Passed) / float64(judged)
	}

	if len(scores) == 0 {
		return s
	}

	s.Mean = mean(scores)
	s.StdDev = stddev(scores)
	s.Min = math.Inf(1)
	s.Max = math.Inf(-1)
	for _, v := range scores {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.P50 = Percentile(scores, 50)
	s.P90 = Percentile(scores, 90)
	s.P99 = Percentile(scores, 99)
	s.CI = BootstrapCIWithSeed(scores, 0.95, seed)

	return s
}
