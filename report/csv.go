// Package report writes benchmark trials to disk and summarises them.
package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/coachcheck"
)

// Columns is the header row written by CSVRecorder.
var Columns = []string{
	"experiment_id",
	"trial_id",
	"timestamp",
	"model",
	"position_id",
	"variant_id",
	"thinking_mode",
	"max_tokens",
	"tokens_in",
	"tokens_out",
	"format_compliance",
	"parseable",
	"refs_extractable",
	"hallucination_detected",
	"hallucination_severity",
	"refs_valid",
	"refs_invalid",
	"refs_rejected",
	"latency_ms",
	"raw_prompt",
	"raw_response",
	"params_json",
	"error",
}

// CSVRecorder writes one row per trial. It is safe for concurrent use.
type CSVRecorder struct {
	sync.Mutex
	w      *csv.Writer
	header bool
}

// NewCSVRecorder writes to w. The header is written with the first row.
func NewCSVRecorder(w io.Writer) *CSVRecorder {
	return &CSVRecorder{w: csv.NewWriter(w)}
}

// Record implements coachcheck.Recorder.
func (r *CSVRecorder) Record(t coachcheck.Trial) error {
	r.Lock()
	defer r.Unlock()
	if !r.header {
		if err := r.w.Write(Columns); err != nil {
			return errors.Wrap(err, "write header")
		}
		r.header = true
	}
	if err := r.w.Write(Row(t)); err != nil {
		return errors.Wrapf(err, "write trial %s", t.ID)
	}
	r.w.Flush()
	return errors.WithStack(r.w.Error())
}

// Row renders t in Columns order.
func Row(t coachcheck.Trial) []string {
	e := t.Evaluation
	var errText string
	if t.Err != nil {
		errText = t.Err.Error()
	}
	return []string{
		t.ExperimentID,
		t.ID,
		t.Timestamp,
		t.Model,
		t.Position.ID,
		string(t.Format),
		t.Sampling.Mode(),
		strconv.Itoa(t.Sampling.MaxTokens),
		strconv.Itoa(t.Response.TokensIn),
		strconv.Itoa(t.Response.TokensOut),
		strconv.FormatBool(e.Compliant),
		strconv.FormatBool(e.Parseable()),
		strconv.FormatBool(e.RefsExtractable()),
		strconv.FormatBool(e.Verdict.Hallucinated()),
		strconv.Itoa(int(e.Verdict.Severity)),
		strconv.Itoa(e.RefsValid),
		strconv.Itoa(e.RefsInvalid),
		strconv.Itoa(e.Rejected),
		strconv.FormatFloat(t.LatencyMS, 'f', 1, 64),
		t.Prompt.String(),
		t.Response.Text,
		t.Sampling.Params(),
		errText,
	}
}
