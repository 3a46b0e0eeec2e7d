package models

// SymbolReport is the merged per-symbol output consumed by reporting
// collaborators (email/HTML rendering, charting). The core only builds it.
type SymbolReport struct {
	Symbol      string             `json:"symbol"`
	DisplayName string             `json:"display_name"`
	Snapshot    *IndicatorSnapshot `json:"snapshot,omitempty"`
	Signal      *SignalResult      `json:"signal,omitempty"`
	Err         string             `json:"error,omitempty"`
}

// Failed reports whether analysis of this symbol failed.
func (r *SymbolReport) Failed() bool {
	return r.Err != ""
}

// RunStatus summarizes how a multi-symbol run went.
type RunStatus string

const (
	RunSuccess        RunStatus = "success"
	RunPartialSuccess RunStatus = "partial_success"
	RunFailure        RunStatus = "error"
)

// RunSummary aggregates the per-symbol reports of one run.
type RunSummary struct {
	Status       RunStatus       `json:"status"`
	SuccessCount int             `json:"success_count"`
	ErrorCount   int             `json:"error_count"`
	Reports      []*SymbolReport `json:"results"`
}

// ExitCode maps the run status to a process exit code: zero as long as at
// least one symbol succeeded.
func (s *RunSummary) ExitCode() int {
	if s.Status == RunFailure {
		return 1
	}
	return 0
}
