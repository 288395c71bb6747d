package report

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat"

	"github.com/coachcheck"
	"github.com/coachcheck/format"
)

// Summary aggregates the trials of one format and reasoning mode.
type Summary struct {
	Format         format.ID
	Mode           string
	Trials         int
	Failures       int
	Compliance     float64
	ParseRate      float64
	Hallucination  float64
	MeanSeverity   float64
	StdDevSeverity float64
	MeanLatencyMS  float64
}

type groupKey struct {
	format format.ID
	mode   string
}

// Summarize groups trials by format and reasoning mode. Groups are ordered by
// format detection priority, thinking before non-thinking.
func Summarize(trials []coachcheck.Trial) []Summary {
	type acc struct {
		n, failures, compliant, parsed, hallucinated int
		severity, latency                           []float64
	}
	groups := make(map[groupKey]*acc)
	for _, t := range trials {
		k := groupKey{t.Format, t.Sampling.Mode()}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.n++
		e := t.Evaluation
		if t.Err != nil {
			g.failures++
		}
		if e.Compliant {
			g.compliant++
		}
		if e.Parseable() {
			g.parsed++
		}
		if e.Verdict.Hallucinated() {
			g.hallucinated++
		}
		g.severity = append(g.severity, float64(e.Verdict.Severity))
		g.latency = append(g.latency, t.LatencyMS)
	}

	order := make(map[format.ID]int)
	for i, id := range format.IDs() {
		order[id] = i
	}
	out := make([]Summary, 0, len(groups))
	for k, g := range groups {
		out = append(out, Summary{
			Format:         k.format,
			Mode:           k.mode,
			Trials:         g.n,
			Failures:       g.failures,
			Compliance:     rate(g.compliant, g.n),
			ParseRate:      rate(g.parsed, g.n),
			Hallucination:  rate(g.hallucinated, g.n),
			MeanSeverity:   stat.Mean(g.severity, nil),
			StdDevSeverity: stdDev(g.severity),
			MeanLatencyMS:  stat.Mean(g.latency, nil),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Format != out[j].Format {
			return order[out[i].Format] < order[out[j].Format]
		}
		return out[i].Mode > out[j].Mode
	})
	return out
}

// WriteTable prints summaries as an aligned text table.
func WriteTable(w io.Writer, summaries []Summary) error {
	if _, err := fmt.Fprintf(w, "%-18s %-13s %6s %9s %7s %7s %8s %8s %10s\n",
		"format", "mode", "trials", "complied", "parsed", "halluc", "sev", "sev_sd", "latency_ms"); err != nil {
		return err
	}
	for _, s := range summaries {
		if _, err := fmt.Fprintf(w, "%-18s %-13s %6d %8.1f%% %6.1f%% %6.1f%% %8.2f %8.2f %10.1f\n",
			s.Format, s.Mode, s.Trials, 100*s.Compliance, 100*s.ParseRate, 100*s.Hallucination,
			s.MeanSeverity, s.StdDevSeverity, s.MeanLatencyMS); err != nil {
			return err
		}
	}
	return nil
}

func rate[T constraints.Integer](n, total T) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}
