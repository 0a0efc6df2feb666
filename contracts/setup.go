package contracts

import (
	"maps"
	"slices"
	"time"
)

// Self-hosted onboarding: the setup wizard (/api/setup/*), GitHub App setup
// and the deep health check.

type SetupStepId string

const (
	StepEnvCheck           SetupStepId = "env-check"
	StepDBMigration        SetupStepId = "db-migration"
	StepGitHubApp          SetupStepId = "github-app"
	StepRunnerRegistration SetupStepId = "runner-registration"
	StepFirstAgent         SetupStepId = "first-agent"
	StepVerificationRun    SetupStepId = "verification-run"
)

// setupStepIds is in wizard order.
var setupStepIds = []SetupStepId{
	StepEnvCheck,
	StepDBMigration,
	StepGitHubApp,
	StepRunnerRegistration,
	StepFirstAgent,
	StepVerificationRun,
}

func SetupStepIds() []SetupStepId { return slices.Clone(setupStepIds) }
func (s SetupStepId) Valid() bool { return slices.Contains(setupStepIds, s) }
func IsSetupStepId(v any) bool    { return member(setupStepIds, v) }

// ResultStatus is the outcome of one setup step or validation check.
type ResultStatus string

const (
	StatusPass    ResultStatus = "pass"
	StatusFail    ResultStatus = "fail"
	StatusSkip    ResultStatus = "skip"
	StatusWarn    ResultStatus = "warn"
	StatusPending ResultStatus = "pending"
)

var (
	stepResultStatuses = []ResultStatus{StatusPass, StatusFail, StatusSkip, StatusPending}
	validationStatuses = []ResultStatus{StatusPass, StatusFail, StatusSkip, StatusWarn}
)

type SetupStepResult struct {
	StepID      SetupStepId    `json:"step_id"`
	Name        string         `json:"name"`
	Status      ResultStatus   `json:"status"`
	Message     string         `json:"message"`
	Remediation *string        `json:"remediation,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

type SetupStatus struct {
	Complete    bool              `json:"complete"`
	Steps       []SetupStepResult `json:"steps"`
	CurrentStep *SetupStepId      `json:"current_step,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// NextStep returns the first step, in wizard order, that has not passed or
// been skipped. It reports false when every step is done.
func (s SetupStatus) NextStep() (SetupStepId, bool) {
	done := make(map[SetupStepId]bool, len(s.Steps))
	for _, r := range s.Steps {
		if r.Status == StatusPass || r.Status == StatusSkip {
			done[r.StepID] = true
		}
	}
	for _, id := range setupStepIds {
		if !done[id] {
			return id, true
		}
	}
	return "", false
}

// RunnerBootstrapToken is a one-shot credential for registering a runner.
type RunnerBootstrapToken struct {
	Token         string `json:"token"`
	ControlAPIURL string `json:"control_api_url"`
	// StartCommand is a ready-to-paste command for the operator.
	StartCommand string    `json:"start_command"`
	ExpiresAt    time.Time `json:"expires_at"`
	Used         bool      `json:"used"`
}

// Usable reports whether the token can still be redeemed at now.
func (t RunnerBootstrapToken) Usable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

type DiagnosticCategory string

const (
	DiagnosticEnv      DiagnosticCategory = "env"
	DiagnosticDatabase DiagnosticCategory = "database"
	DiagnosticGitHub   DiagnosticCategory = "github"
	DiagnosticRunner   DiagnosticCategory = "runner"
	DiagnosticAgent    DiagnosticCategory = "agent"
	DiagnosticNetwork  DiagnosticCategory = "network"
)

var diagnosticCategories = []DiagnosticCategory{
	DiagnosticEnv,
	DiagnosticDatabase,
	DiagnosticGitHub,
	DiagnosticRunner,
	DiagnosticAgent,
	DiagnosticNetwork,
}

func IsDiagnosticCategory(v any) bool { return member(diagnosticCategories, v) }

type DiagnosticSeverity string

const (
	DiagnosticInfo    DiagnosticSeverity = "info"
	DiagnosticWarning DiagnosticSeverity = "warning"
	DiagnosticError   DiagnosticSeverity = "error"
)

var diagnosticSeverities = []DiagnosticSeverity{DiagnosticInfo, DiagnosticWarning, DiagnosticError}

func IsDiagnosticSeverity(v any) bool { return member(diagnosticSeverities, v) }

type SetupDiagnostic struct {
	Category    DiagnosticCategory `json:"category"`
	Severity    DiagnosticSeverity `json:"severity"`
	Message     string             `json:"message"`
	Remediation *string            `json:"remediation,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
}

type GitHubAppSetupRequest struct {
	AppID          int64   `json:"app_id"`
	WebhookSecret  string  `json:"webhook_secret"`
	PrivateKeyPath *string `json:"private_key_path,omitempty"`
	// NonInteractive skips prompts.
	NonInteractive *bool `json:"non_interactive,omitempty"`
}

type GitHubAppSetupResult struct {
	Valid              bool     `json:"valid"`
	AppID              int64    `json:"app_id"`
	AppName            *string  `json:"app_name,omitempty"`
	InstallationID     *int64   `json:"installation_id,omitempty"`
	PermissionsOK      bool     `json:"permissions_ok"`
	MissingPermissions []string `json:"missing_permissions"`
	WebhookConfigured  bool     `json:"webhook_configured"`
	Errors             []string `json:"errors"`
}

type SetupValidationResult struct {
	Step    string         `json:"step"`
	Valid   bool           `json:"valid"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type OnboardingStatus string

const (
	OnboardingPending    OnboardingStatus = "pending"
	OnboardingInProgress OnboardingStatus = "in_progress"
	OnboardingCompleted  OnboardingStatus = "completed"
	OnboardingFailed     OnboardingStatus = "failed"
	OnboardingSkipped    OnboardingStatus = "skipped"
)

var onboardingStatuses = []OnboardingStatus{
	OnboardingPending,
	OnboardingInProgress,
	OnboardingCompleted,
	OnboardingFailed,
	OnboardingSkipped,
}

func IsOnboardingStatus(v any) bool { return member(onboardingStatuses, v) }

type OnboardingStep struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Status      OnboardingStatus `json:"status"`
	Required    bool             `json:"required"`
	Error       *string          `json:"error,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// HealthCheckResult is the body of /health/deep.
type HealthCheckResult struct {
	Status        HealthState            `json:"status"`
	Service       string                 `json:"service"`
	Timestamp     time.Time              `json:"timestamp"`
	UptimeSeconds float64                `json:"uptime_seconds"`
	Components    []HealthCheckComponent `json:"components"`
}

type HealthCheckComponent struct {
	Name        string      `json:"name"`
	Status      HealthState `json:"status"`
	LatencyMS   *float64    `json:"latency_ms,omitempty"`
	Message     *string     `json:"message,omitempty"`
	LastChecked time.Time   `json:"last_checked"`
}

// OverallHealth rolls component states up: any error makes the service
// unhealthy, any degraded component makes it degraded.
func OverallHealth(components []HealthCheckComponent) HealthState {
	overall := Healthy
	for _, c := range components {
		switch c.Status {
		case HealthError:
			return Unhealthy
		case Degraded:
			overall = Degraded
		}
	}
	return overall
}

var requiredGitHubAppPermissions = map[string]string{
	"checks":        "write",
	"contents":      "read",
	"issues":        "write",
	"metadata":      "read",
	"pull_requests": "write",
}

// RequiredGitHubAppPermissions returns a copy of the permission scopes the
// GitHub App must be granted.
func RequiredGitHubAppPermissions() map[string]string {
	return maps.Clone(requiredGitHubAppPermissions)
}

var defaultWebhookEvents = []string{"check_run", "pull_request", "push"}

// DefaultWebhookEvents returns the webhook events the GitHub App subscribes to.
func DefaultWebhookEvents() []string { return slices.Clone(defaultWebhookEvents) }

// MissingPermissions compares granted permissions with the required set and
// returns "scope:level" for every scope that is absent or insufficient,
// sorted. Write access satisfies a read requirement.
func MissingPermissions(granted map[string]string) []string {
	var missing []string
	for _, scope := range sortedKeys(requiredGitHubAppPermissions) {
		want := requiredGitHubAppPermissions[scope]
		have := granted[scope]
		if have == want || (want == "read" && have == "write") {
			continue
		}
		missing = append(missing, scope+":"+want)
	}
	return missing
}

func checkSetupStepResult(c *checker) {
	c.required("step_id", "setup step id", IsSetupStepId)
	c.str("name")
	c.required("status", "pass, fail, skip or pending", predicate(stepResultStatuses))
	c.str("message")
	c.optStr("remediation")
	c.optObject("details")
}

func checkSetupStatus(c *checker) {
	c.boolean("complete")
	c.list("steps", checkSetupStepResult)
	c.optional("current_step", "setup step id", IsSetupStepId)
	c.timestamp("timestamp")
}

func CheckSetupStatus(v any) error { return check("setup_status", v, checkSetupStatus) }

func checkRunnerBootstrapToken(c *checker) {
	c.str("token")
	c.str("control_api_url")
	c.str("start_command")
	c.timestamp("expires_at")
	c.boolean("used")
}

func CheckRunnerBootstrapToken(v any) error {
	return check("runner_bootstrap_token", v, checkRunnerBootstrapToken)
}

func checkSetupDiagnostic(c *checker) {
	c.required("category", "diagnostic category", IsDiagnosticCategory)
	c.required("severity", "diagnostic severity", IsDiagnosticSeverity)
	c.str("message")
	c.optStr("remediation")
	c.timestamp("timestamp")
}

func CheckSetupDiagnostic(v any) error {
	return check("setup_diagnostic", v, checkSetupDiagnostic)
}

func checkGitHubAppSetupRequest(c *checker) {
	c.integer("app_id")
	c.str("webhook_secret")
	c.optStr("private_key_path")
	c.optBoolean("non_interactive")
}

func CheckGitHubAppSetupRequest(v any) error {
	return check("github_app_setup_request", v, checkGitHubAppSetupRequest)
}

func checkGitHubAppSetupResult(c *checker) {
	c.boolean("valid")
	c.integer("app_id")
	c.optStr("app_name")
	c.optInteger("installation_id")
	c.boolean("permissions_ok")
	c.strs("missing_permissions")
	c.boolean("webhook_configured")
	c.strs("errors")
}

func CheckGitHubAppSetupResult(v any) error {
	return check("github_app_setup_result", v, checkGitHubAppSetupResult)
}

func checkSetupValidationResult(c *checker) {
	c.str("step")
	c.boolean("valid")
	c.str("message")
	c.optObject("details")
}

func CheckSetupValidationResult(v any) error {
	return check("setup_validation_result", v, checkSetupValidationResult)
}

func checkOnboardingStep(c *checker) {
	c.str("id")
	c.str("name")
	c.str("description")
	c.required("status", "onboarding status", IsOnboardingStatus)
	c.boolean("required")
	c.optStr("error")
	c.optTimestamp("completed_at")
}

func CheckOnboardingStep(v any) error { return check("onboarding_step", v, checkOnboardingStep) }

func checkHealthCheckComponent(c *checker) {
	c.str("name")
	c.required("status", "ok, degraded or error", predicate(dependencyHealth))
	c.optNum("latency_ms")
	c.optStr("message")
	c.timestamp("last_checked")
}

func checkHealthCheckResult(c *checker) {
	c.required("status", "healthy, degraded or unhealthy", predicate(controlPlaneHealth))
	c.str("service")
	c.timestamp("timestamp")
	c.num("uptime_seconds")
	c.list("components", checkHealthCheckComponent)
}

func CheckHealthCheckResult(v any) error {
	return check("health_check_result", v, checkHealthCheckResult)
}
