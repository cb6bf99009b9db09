package domain

import "time"

// RunStatus describes the lifecycle of a graph instance.
type RunStatus string

const (
	// StatusBuild is the pre-run state in which builder operations are legal.
	StatusBuild RunStatus = "build"
	// StatusRunning is the state of an in-flight traversal.
	StatusRunning RunStatus = "running"
	// StatusDone is the terminal success state.
	StatusDone RunStatus = "done"
	// StatusFailed is the terminal error state.
	StatusFailed RunStatus = "failed"
)

// RunReport is the observational record of a single traversal. It is
// JSON-serializable so run stores can persist it for later inspection; it is
// never used to resume a run.
type RunReport struct {
	RunID     string    `json:"run_id,omitempty"`
	GraphName string    `json:"graph_name,omitempty"`
	Status    RunStatus `json:"status"`

	// Path lists the executed nodes in traversal order. Unmatched siblings
	// never appear here.
	Path []string `json:"path"`

	// FallbackAttempts counts fallback invocations per node name.
	FallbackAttempts map[string]int `json:"fallback_attempts,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`

	// Error is the text of the terminal error, empty on success.
	Error string `json:"error,omitempty"`

	// FinalState is a snapshot of the shared state at the end of the run.
	FinalState map[string]any `json:"final_state,omitempty"`
}

// Clone returns a deep-enough copy of the report: the maps and slices are
// copied, the values they hold are shared.
func (r *RunReport) Clone() *RunReport {
	if r == nil {
		return nil
	}
	out := *r
	out.Path = append([]string(nil), r.Path...)
	if r.FallbackAttempts != nil {
		out.FallbackAttempts = make(map[string]int, len(r.FallbackAttempts))
		for k, v := range r.FallbackAttempts {
			out.FallbackAttempts[k] = v
		}
	}
	if r.FinalState != nil {
		out.FinalState = make(map[string]any, len(r.FinalState))
		for k, v := range r.FinalState {
			out.FinalState[k] = v
		}
	}
	return &out
}
