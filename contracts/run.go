package contracts

import (
	"slices"
	"time"
)

// RunConclusion is the terminal outcome of a run. RunConclusionEnum must
// carry the same values.
type RunConclusion string

const (
	ConclusionPass    RunConclusion = "pass"
	ConclusionWarn    RunConclusion = "warn"
	ConclusionFail    RunConclusion = "fail"
	ConclusionError   RunConclusion = "error"
	ConclusionSkipped RunConclusion = "skipped"
)

var runConclusions = []RunConclusion{
	ConclusionPass,
	ConclusionWarn,
	ConclusionFail,
	ConclusionError,
	ConclusionSkipped,
}

func RunConclusions() []RunConclusion { return slices.Clone(runConclusions) }
func (c RunConclusion) Valid() bool   { return slices.Contains(runConclusions, c) }
func IsRunConclusion(v any) bool      { return member(runConclusions, v) }

// Failed reports whether the conclusion is fail or error.
func (c RunConclusion) Failed() bool {
	return c == ConclusionFail || c == ConclusionError
}

// FindingSeverity orders findings from critical down to info.
type FindingSeverity string

const (
	SeverityCritical FindingSeverity = "critical"
	SeverityHigh     FindingSeverity = "high"
	SeverityMedium   FindingSeverity = "medium"
	SeverityLow      FindingSeverity = "low"
	SeverityInfo     FindingSeverity = "info"
)

// findingSeverities is most severe first.
var findingSeverities = []FindingSeverity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
}

func FindingSeverities() []FindingSeverity { return slices.Clone(findingSeverities) }
func (s FindingSeverity) Valid() bool      { return slices.Contains(findingSeverities, s) }
func IsFindingSeverity(v any) bool         { return member(findingSeverities, v) }

// Rank orders severities for sorting and filtering: info is 0, critical is 4.
// Unknown values rank -1.
func (s FindingSeverity) Rank() int {
	i := slices.Index(findingSeverities, s)
	if i < 0 {
		return -1
	}
	return len(findingSeverities) - 1 - i
}

// AtLeast reports whether s is at least as severe as floor.
func (s FindingSeverity) AtLeast(floor FindingSeverity) bool {
	return s.Rank() >= 0 && floor.Rank() >= 0 && s.Rank() >= floor.Rank()
}

type ArtifactType string

const (
	ArtifactMarkdown ArtifactType = "markdown"
	ArtifactJSON     ArtifactType = "json"
	ArtifactLog      ArtifactType = "log"
)

var artifactTypes = []ArtifactType{ArtifactMarkdown, ArtifactJSON, ArtifactLog}

func ArtifactTypes() []ArtifactType { return slices.Clone(artifactTypes) }
func (t ArtifactType) Valid() bool  { return slices.Contains(artifactTypes, t) }
func IsArtifactType(v any) bool     { return member(artifactTypes, v) }

// Finding is one issue reported by a run.
type Finding struct {
	Severity FindingSeverity `json:"severity"`
	Message  string          `json:"message"`
	File     *string         `json:"file,omitempty"`
	Line     *int            `json:"line,omitempty"`
	Rule     *string         `json:"rule,omitempty"`
	Category *string         `json:"category,omitempty"`
}

type Artifact struct {
	Name    string       `json:"name"`
	Type    ArtifactType `json:"type"`
	Content string       `json:"content"`
}

type RunTelemetry struct {
	DurationMS    int64 `json:"duration_ms"`
	TokenCount    int64 `json:"token_count"`
	StepsExecuted int   `json:"steps_executed"`
	StepsSkipped  int   `json:"steps_skipped"`
	LLMCalls      int   `json:"llm_calls"`
}

type RunContext struct {
	Repo     string `json:"repo"`
	PRNumber *int   `json:"pr_number,omitempty"`
	SHA      string `json:"sha"`
	Ref      string `json:"ref"`
}

// RunRequest asks a runner to execute one workflow.
type RunRequest struct {
	WorkflowPath string            `json:"workflow_path"`
	Trigger      TriggerEventType  `json:"trigger"`
	Context      RunContext        `json:"context"`
	SecretsNames []string          `json:"secrets_names"`
	RunnerTarget AgentRunnerTarget `json:"runner_target"`
	AgentConfig  *AgentConfig      `json:"agent_config,omitempty"`
}

// RunResult is what a runner reports when a run ends. Error is informational
// and not tied to Conclusion.
type RunResult struct {
	Conclusion  RunConclusion `json:"conclusion"`
	Findings    []Finding     `json:"findings"`
	Artifacts   []Artifact    `json:"artifacts"`
	Telemetry   RunTelemetry  `json:"telemetry"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Error       *string       `json:"error,omitempty"`
}

// Duration is CompletedAt minus StartedAt.
func (r RunResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

type RunHeartbeat struct {
	RunID       string   `json:"run_id"`
	Status      string   `json:"status"`
	ProgressPct *float64 `json:"progress_pct,omitempty"`
	CurrentStep *string  `json:"current_step,omitempty"`
}

type RunDispatch struct {
	RunID        string     `json:"run_id"`
	Request      RunRequest `json:"request"`
	RunnerID     string     `json:"runner_id"`
	DispatchedAt time.Time  `json:"dispatched_at"`
}

func checkFinding(c *checker) {
	c.required("severity", "finding severity", IsFindingSeverity)
	c.str("message")
	c.optStr("file")
	c.optional("line", "non-negative integer", isCount)
	c.optStr("rule")
	c.optStr("category")
}

func CheckFinding(v any) error { return check("finding", v, checkFinding) }
func IsFinding(v any) bool     { return CheckFinding(v) == nil }

func checkArtifact(c *checker) {
	c.str("name")
	c.required("type", "artifact type", IsArtifactType)
	c.str("content")
}

func CheckArtifact(v any) error { return check("artifact", v, checkArtifact) }

func checkRunTelemetry(c *checker) {
	c.count("duration_ms")
	c.count("token_count")
	c.count("steps_executed")
	c.count("steps_skipped")
	c.count("llm_calls")
}

func CheckRunTelemetry(v any) error { return check("run_telemetry", v, checkRunTelemetry) }

func checkRunContext(c *checker) {
	c.str("repo")
	c.optional("pr_number", "non-negative integer", isCount)
	c.str("sha")
	c.str("ref")
}

func checkRunRequest(c *checker) {
	c.str("workflow_path")
	c.required("trigger", "trigger event type", IsTriggerEventType)
	c.nested("context", checkRunContext)
	c.strs("secrets_names")
	c.required("runner_target", "agent runner target", IsAgentRunnerTarget)
	c.optNested("agent_config", checkAgentConfig)
}

// CheckRunRequest returns the first structural violation in v, or nil.
func CheckRunRequest(v any) error { return check("run_request", v, checkRunRequest) }

// IsRunRequest reports whether v is a well-formed RunRequest.
func IsRunRequest(v any) bool { return CheckRunRequest(v) == nil }

func checkRunResult(c *checker) {
	c.required("conclusion", "run conclusion", IsRunConclusion)
	c.list("findings", checkFinding)
	c.list("artifacts", checkArtifact)
	c.nested("telemetry", checkRunTelemetry)
	c.timestamp("started_at")
	c.timestamp("completed_at")
	c.optStr("error")
}

// CheckRunResult returns the first structural violation in v, or nil. It does
// not require Error to accompany a failed conclusion.
func CheckRunResult(v any) error { return check("run_result", v, checkRunResult) }

// IsRunResult reports whether v is a well-formed RunResult.
func IsRunResult(v any) bool { return CheckRunResult(v) == nil }

func checkRunHeartbeat(c *checker) {
	c.str("run_id")
	c.str("status")
	c.optional("progress_pct", "number between 0 and 100", func(v any) bool {
		f, ok := numberOf(v)
		return ok && f >= 0 && f <= 100
	})
	c.optStr("current_step")
}

func CheckRunHeartbeat(v any) error { return check("run_heartbeat", v, checkRunHeartbeat) }

func checkRunDispatch(c *checker) {
	c.str("run_id")
	c.nested("request", checkRunRequest)
	c.str("runner_id")
	c.timestamp("dispatched_at")
}

func CheckRunDispatch(v any) error { return check("run_dispatch", v, checkRunDispatch) }

// DecodeRunRequest parses and validates a RunRequest.
func DecodeRunRequest(data []byte) (RunRequest, error) {
	return decode[RunRequest](data, CheckRunRequest)
}

// DecodeRunResult parses and validates a RunResult.
func DecodeRunResult(data []byte) (RunResult, error) {
	return decode[RunResult](data, CheckRunResult)
}
