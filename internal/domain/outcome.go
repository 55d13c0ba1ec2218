package domain

// StageStatus classifies how a pipeline stage finished.
type StageStatus string

const (
	// StageOK means the stage completed with full input.
	StageOK StageStatus = "ok"
	// StageDegraded means an upstream failure was absorbed and the stage
	// produced partial or empty output instead of an error.
	StageDegraded StageStatus = "degraded"
	// StageFailed means the stage itself failed. Only the generate stage
	// can fail; every other stage degrades.
	StageFailed StageStatus = "failed"
)

// Pipeline stage names, in execution order.
const (
	StageSearch   = "search"
	StageFetch    = "fetch"
	StageAssemble = "assemble"
	StageGenerate = "generate"
)

// StageOutcome records how one stage of the answer pipeline ended. Outcomes
// let callers and tests tell "zero sources because search failed" apart from
// "zero sources because nothing matched".
type StageOutcome struct {
	Stage  string      `json:"stage"`
	Status StageStatus `json:"status"`
	Detail string      `json:"detail,omitempty"`
}
