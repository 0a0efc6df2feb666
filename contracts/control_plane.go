package contracts

import (
	"slices"
	"time"
)

// RunRequestStatus is the lifecycle of a queued run request:
// queued -> claimed -> running -> completed | failed | dead_letter. A claimed
// or running request whose lease expires goes back to queued until
// retry_count reaches max_retries, then to dead_letter.
type RunRequestStatus string

const (
	RunStatusQueued     RunRequestStatus = "queued"
	RunStatusClaimed    RunRequestStatus = "claimed"
	RunStatusRunning    RunRequestStatus = "running"
	RunStatusCompleted  RunRequestStatus = "completed"
	RunStatusFailed     RunRequestStatus = "failed"
	RunStatusDeadLetter RunRequestStatus = "dead_letter"
)

var runRequestStatuses = []RunRequestStatus{
	RunStatusQueued,
	RunStatusClaimed,
	RunStatusRunning,
	RunStatusCompleted,
	RunStatusFailed,
	RunStatusDeadLetter,
}

func RunRequestStatuses() []RunRequestStatus { return slices.Clone(runRequestStatuses) }
func (s RunRequestStatus) Valid() bool       { return slices.Contains(runRequestStatuses, s) }
func IsRunRequestStatus(v any) bool          { return member(runRequestStatuses, v) }

// Terminal reports whether no further transition is possible.
func (s RunRequestStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed || s == RunStatusDeadLetter
}

type AccountType string

const (
	AccountOrganization AccountType = "Organization"
	AccountUser         AccountType = "User"
)

var accountTypes = []AccountType{AccountOrganization, AccountUser}

func IsAccountType(v any) bool { return member(accountTypes, v) }

type RepositorySelection string

const (
	RepositoriesAll      RepositorySelection = "all"
	RepositoriesSelected RepositorySelection = "selected"
)

var repositorySelections = []RepositorySelection{RepositoriesAll, RepositoriesSelected}

func IsRepositorySelection(v any) bool { return member(repositorySelections, v) }

type GitHubAppInstallation struct {
	ID             string              `json:"id"`
	InstallationID int64               `json:"installation_id"`
	AccountLogin   string              `json:"account_login"`
	AccountType    AccountType         `json:"account_type"`
	TargetType     RepositorySelection `json:"target_type"`
	Repositories   []string            `json:"repositories"`
	Permissions    map[string]string   `json:"permissions"`
	SuspendedAt    *time.Time          `json:"suspended_at"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// AgentDefinition owns its AgentTriggers; run requests reference it.
type AgentDefinition struct {
	ID               string            `json:"id"`
	InstallationID   int64             `json:"installation_id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	WorkflowSource   string            `json:"workflow_source"`
	RepoFullName     string            `json:"repo_full_name"`
	RunnerTarget     AgentRunnerTarget `json:"runner_target"`
	AutonomyLevel    AutonomyLevel     `json:"autonomy_level"`
	MaxAutonomyLevel AutonomyLevel     `json:"max_autonomy_level"`
	ReportingConfig  ReportingConfig   `json:"reporting_config"`
	Enabled          bool              `json:"enabled"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type AgentTrigger struct {
	ID                string           `json:"id"`
	AgentDefinitionID string           `json:"agent_definition_id"`
	Event             TriggerEventType `json:"event"`
	Actions           []string         `json:"actions"`
	Paths             []string         `json:"paths"`
	PathsExclude      []string         `json:"paths_exclude"`
	Pattern           *string          `json:"pattern"`
	Cron              *string          `json:"cron"`
	CreatedAt         time.Time        `json:"created_at"`
}

type ControlPlaneRunRequest struct {
	ID                 string            `json:"id"`
	AgentDefinitionID  string            `json:"agent_definition_id"`
	InstallationID     int64             `json:"installation_id"`
	RepoFullName       string            `json:"repo_full_name"`
	TriggerEvent       TriggerEventType  `json:"trigger_event"`
	WebhookDeliveryID  *string           `json:"webhook_delivery_id"`
	DedupHash          *string           `json:"dedup_hash"`
	Status             RunRequestStatus  `json:"status"`
	RunRequestPayload  RunRequest        `json:"run_request_payload"`
	RunnerID           *string           `json:"runner_id"`
	LeaseExpiresAt     *time.Time        `json:"lease_expires_at"`
	RetryCount         int               `json:"retry_count"`
	MaxRetries         int               `json:"max_retries"`
	Error              *string           `json:"error"`
	ClaimedAt          *time.Time        `json:"claimed_at"`
	CompletedAt        *time.Time        `json:"completed_at"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	SourceRunRequestID *string           `json:"source_run_request_id,omitempty"`
	InheritedVariables map[string]string `json:"inherited_variables,omitempty"`
}

// LeaseExpired reports whether a claimed or running request has outlived its
// lease at now and may be reclaimed.
func (r ControlPlaneRunRequest) LeaseExpired(now time.Time) bool {
	if r.Status != RunStatusClaimed && r.Status != RunStatusRunning {
		return false
	}
	return r.LeaseExpiresAt != nil && !now.Before(*r.LeaseExpiresAt)
}

// RetriesLeft reports whether a reclaimed request can be queued again rather
// than dead-lettered.
func (r ControlPlaneRunRequest) RetriesLeft() bool {
	return r.RetryCount < r.MaxRetries
}

type ExecutionStatus string

const (
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionSucceeded ExecutionStatus = "succeeded"
	ExecutionFailed    ExecutionStatus = "failed"
	ExecutionTimedOut  ExecutionStatus = "timed_out"
)

var executionStatuses = []ExecutionStatus{ExecutionRunning, ExecutionSucceeded, ExecutionFailed, ExecutionTimedOut}

func ExecutionStatuses() []ExecutionStatus { return slices.Clone(executionStatuses) }
func (s ExecutionStatus) Valid() bool      { return slices.Contains(executionStatuses, s) }
func IsExecutionStatus(v any) bool         { return member(executionStatuses, v) }

type RunExecution struct {
	ID           string          `json:"id"`
	RunRequestID string          `json:"run_request_id"`
	RunnerID     string          `json:"runner_id"`
	Status       ExecutionStatus `json:"status"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
	RunResult    *RunResult      `json:"run_result"`
	Error        *string         `json:"error"`
	DurationMS   *int64          `json:"duration_ms"`
	CreatedAt    time.Time       `json:"created_at"`
}

// OrgPolicy applies to every repo of an installation when RepoFullName is
// nil, otherwise to that repo only.
type OrgPolicy struct {
	ID                  string         `json:"id"`
	InstallationID      int64          `json:"installation_id"`
	RepoFullName        *string        `json:"repo_full_name"`
	AIAllowed           bool           `json:"ai_allowed"`
	AIAllowedConditions map[string]any `json:"ai_allowed_conditions"`
	SensitivePaths      []string       `json:"sensitive_paths"`
	MaxAutonomy         AutonomyLevel  `json:"max_autonomy"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

type RunnerPollRequest struct {
	RunnerID     string   `json:"runner_id"`
	Capabilities []string `json:"capabilities"`
}

type RunnerPollResponse struct {
	RunRequest     *ControlPlaneRunRequest `json:"run_request"`
	PollIntervalMS int64                   `json:"poll_interval_ms"`
}

// RunClaimRequest claims a specific queued request for a runner.
type RunClaimRequest struct {
	RunRequestID string `json:"run_request_id"`
	RunnerID     string `json:"runner_id"`
}

type RunClaimResponse struct {
	Claimed      bool                    `json:"claimed"`
	RunRequest   *ControlPlaneRunRequest `json:"run_request"`
	LeaseSeconds int                     `json:"lease_seconds"`
}

type RunCompleteRequest struct {
	RunRequestID string    `json:"run_request_id"`
	RunnerID     string    `json:"runner_id"`
	Result       RunResult `json:"result"`
}

type RunFailRequest struct {
	RunRequestID string `json:"run_request_id"`
	RunnerID     string `json:"runner_id"`
	Error        string `json:"error"`
	Retry        bool   `json:"retry"`
}

// NormalizedEvent is a webhook delivery reduced to the fields dispatch needs.
type NormalizedEvent struct {
	Event          TriggerEventType `json:"event"`
	Action         string           `json:"action"`
	Repo           string           `json:"repo"`
	SHA            string           `json:"sha"`
	Ref            string           `json:"ref"`
	PRNumber       *int             `json:"pr_number"`
	ChangedFiles   []string         `json:"changed_files"`
	CommentBody    *string          `json:"comment_body"`
	Sender         string           `json:"sender"`
	InstallationID int64            `json:"installation_id"`
	DeliveryID     string           `json:"delivery_id"`
	IsFork         bool             `json:"is_fork"`
}

type DispatchOutcome string

const (
	OutcomeDispatched DispatchOutcome = "dispatched"
	OutcomeBlocked    DispatchOutcome = "blocked"
	OutcomeDeduped    DispatchOutcome = "deduped"
	OutcomeError      DispatchOutcome = "error"
)

var dispatchOutcomes = []DispatchOutcome{OutcomeDispatched, OutcomeBlocked, OutcomeDeduped, OutcomeError}

func DispatchOutcomes() []DispatchOutcome { return slices.Clone(dispatchOutcomes) }
func (o DispatchOutcome) Valid() bool     { return slices.Contains(dispatchOutcomes, o) }
func IsDispatchOutcome(v any) bool        { return member(dispatchOutcomes, v) }

type DispatchResult struct {
	AgentDefinitionID string          `json:"agent_definition_id"`
	AgentName         string          `json:"agent_name"`
	Outcome           DispatchOutcome `json:"outcome"`
	RunRequestID      *string         `json:"run_request_id"`
	Reason            *string         `json:"reason"`
}

type PolicyDecision struct {
	Allowed               bool          `json:"allowed"`
	DeterministicOnly     bool          `json:"deterministic_only"`
	CappedAutonomy        AutonomyLevel `json:"capped_autonomy"`
	SensitiveFilesTouched []string      `json:"sensitive_files_touched"`
	Reason                *string       `json:"reason"`
}

func checkGitHubAppInstallation(c *checker) {
	c.str("id")
	c.integer("installation_id")
	c.str("account_login")
	c.required("account_type", "Organization or User", IsAccountType)
	c.required("target_type", "all or selected", IsRepositorySelection)
	c.strs("repositories")
	c.strMap("permissions")
	c.nullTimestamp("suspended_at")
	c.timestamp("created_at")
	c.timestamp("updated_at")
}

func CheckGitHubAppInstallation(v any) error {
	return check("github_app_installation", v, checkGitHubAppInstallation)
}

func checkAgentDefinition(c *checker) {
	c.str("id")
	c.integer("installation_id")
	c.str("name")
	c.str("description")
	c.str("workflow_source")
	c.str("repo_full_name")
	c.required("runner_target", "agent runner target", IsAgentRunnerTarget)
	c.required("autonomy_level", "autonomy level", IsAutonomyLevel)
	c.required("max_autonomy_level", "autonomy level", IsAutonomyLevel)
	c.nested("reporting_config", checkReportingConfig)
	c.boolean("enabled")
	c.timestamp("created_at")
	c.timestamp("updated_at")
}

func CheckAgentDefinition(v any) error {
	return check("agent_definition", v, checkAgentDefinition)
}

func checkAgentTrigger(c *checker) {
	c.str("id")
	c.str("agent_definition_id")
	c.required("event", "trigger event type", IsTriggerEventType)
	c.nullStrs("actions")
	c.nullStrs("paths")
	c.nullStrs("paths_exclude")
	c.nullStr("pattern")
	c.nullStr("cron")
	c.timestamp("created_at")
}

func CheckAgentTrigger(v any) error { return check("agent_trigger", v, checkAgentTrigger) }

func checkControlPlaneRunRequest(c *checker) {
	c.str("id")
	c.str("agent_definition_id")
	c.integer("installation_id")
	c.str("repo_full_name")
	c.required("trigger_event", "trigger event type", IsTriggerEventType)
	c.nullStr("webhook_delivery_id")
	c.nullStr("dedup_hash")
	c.required("status", "run request status", IsRunRequestStatus)
	c.nested("run_request_payload", checkRunRequest)
	c.nullStr("runner_id")
	c.nullTimestamp("lease_expires_at")
	c.count("retry_count")
	c.count("max_retries")
	c.nullStr("error")
	c.nullTimestamp("claimed_at")
	c.nullTimestamp("completed_at")
	c.timestamp("created_at")
	c.timestamp("updated_at")
	c.optStr("source_run_request_id")
	c.optStrMap("inherited_variables")
}

func CheckControlPlaneRunRequest(v any) error {
	return check("control_plane_run_request", v, checkControlPlaneRunRequest)
}

func checkRunExecution(c *checker) {
	c.str("id")
	c.str("run_request_id")
	c.str("runner_id")
	c.required("status", "execution status", IsExecutionStatus)
	c.timestamp("started_at")
	c.nullTimestamp("completed_at")
	c.nullNested("run_result", checkRunResult)
	c.nullStr("error")
	c.nullable("duration_ms", "non-negative integer", isCount)
	c.timestamp("created_at")
}

func CheckRunExecution(v any) error { return check("run_execution", v, checkRunExecution) }

func checkOrgPolicy(c *checker) {
	c.str("id")
	c.integer("installation_id")
	c.nullStr("repo_full_name")
	c.boolean("ai_allowed")
	c.nullObject("ai_allowed_conditions")
	c.nullStrs("sensitive_paths")
	c.required("max_autonomy", "autonomy level", IsAutonomyLevel)
	c.timestamp("created_at")
	c.timestamp("updated_at")
}

func CheckOrgPolicy(v any) error { return check("org_policy", v, checkOrgPolicy) }

func checkRunnerPollRequest(c *checker) {
	c.str("runner_id")
	c.strs("capabilities")
}

func CheckRunnerPollRequest(v any) error {
	return check("runner_poll_request", v, checkRunnerPollRequest)
}

func checkRunnerPollResponse(c *checker) {
	c.nullNested("run_request", checkControlPlaneRunRequest)
	c.count("poll_interval_ms")
}

func CheckRunnerPollResponse(v any) error {
	return check("runner_poll_response", v, checkRunnerPollResponse)
}

func checkRunClaimRequest(c *checker) {
	c.str("run_request_id")
	c.str("runner_id")
}

func CheckRunClaimRequest(v any) error {
	return check("run_claim_request", v, checkRunClaimRequest)
}

func checkRunClaimResponse(c *checker) {
	c.boolean("claimed")
	c.nullNested("run_request", checkControlPlaneRunRequest)
	c.count("lease_seconds")
}

func CheckRunClaimResponse(v any) error {
	return check("run_claim_response", v, checkRunClaimResponse)
}

func checkRunCompleteRequest(c *checker) {
	c.str("run_request_id")
	c.str("runner_id")
	c.nested("result", checkRunResult)
}

func CheckRunCompleteRequest(v any) error {
	return check("run_complete_request", v, checkRunCompleteRequest)
}

func checkRunFailRequest(c *checker) {
	c.str("run_request_id")
	c.str("runner_id")
	c.str("error")
	c.boolean("retry")
}

func CheckRunFailRequest(v any) error {
	return check("run_fail_request", v, checkRunFailRequest)
}

func checkNormalizedEvent(c *checker) {
	c.required("event", "trigger event type", IsTriggerEventType)
	c.str("action")
	c.str("repo")
	c.str("sha")
	c.str("ref")
	c.nullable("pr_number", "non-negative integer", isCount)
	c.nullStrs("changed_files")
	c.nullStr("comment_body")
	c.str("sender")
	c.integer("installation_id")
	c.str("delivery_id")
	c.boolean("is_fork")
}

func CheckNormalizedEvent(v any) error {
	return check("normalized_event", v, checkNormalizedEvent)
}

func checkDispatchResult(c *checker) {
	c.str("agent_definition_id")
	c.str("agent_name")
	c.required("outcome", "dispatch outcome", IsDispatchOutcome)
	c.nullStr("run_request_id")
	c.nullStr("reason")
}

func CheckDispatchResult(v any) error { return check("dispatch_result", v, checkDispatchResult) }

func checkPolicyDecision(c *checker) {
	c.boolean("allowed")
	c.boolean("deterministic_only")
	c.required("capped_autonomy", "autonomy level", IsAutonomyLevel)
	c.strs("sensitive_files_touched")
	c.nullStr("reason")
}

func CheckPolicyDecision(v any) error { return check("policy_decision", v, checkPolicyDecision) }
