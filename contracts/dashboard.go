package contracts

import "time"

// View models served to the control-plane dashboard. Status-like fields
// carry their own small value sets, distinct from the control-plane enums.

type DashboardRunStatus string

const (
	DashboardQueued    DashboardRunStatus = "queued"
	DashboardRunning   DashboardRunStatus = "running"
	DashboardCompleted DashboardRunStatus = "completed"
	DashboardFailed    DashboardRunStatus = "failed"
	DashboardCancelled DashboardRunStatus = "cancelled"
)

var dashboardRunStatuses = []DashboardRunStatus{
	DashboardQueued,
	DashboardRunning,
	DashboardCompleted,
	DashboardFailed,
	DashboardCancelled,
}

func IsDashboardRunStatus(v any) bool { return member(dashboardRunStatuses, v) }

// DashboardStatusOf projects a run request status onto the dashboard's
// coarser set. Claimed requests show as queued and dead letters as failed.
func DashboardStatusOf(s RunRequestStatus) DashboardRunStatus {
	switch s {
	case RunStatusRunning:
		return DashboardRunning
	case RunStatusCompleted:
		return DashboardCompleted
	case RunStatusFailed, RunStatusDeadLetter:
		return DashboardFailed
	}
	return DashboardQueued
}

type TrustLevel string

const (
	TrustNone   TrustLevel = "none"
	TrustLow    TrustLevel = "low"
	TrustMedium TrustLevel = "medium"
	TrustHigh   TrustLevel = "high"
)

var trustLevels = []TrustLevel{TrustNone, TrustLow, TrustMedium, TrustHigh}

func IsTrustLevel(v any) bool { return member(trustLevels, v) }

// TrustLevelFor buckets a 0-1 trust score for display. Agents with no runs
// have no trust level.
func TrustLevelFor(score float64, runs int) TrustLevel {
	switch {
	case runs == 0:
		return TrustNone
	case score >= 0.8:
		return TrustHigh
	case score >= 0.5:
		return TrustMedium
	}
	return TrustLow
}

type DigestPeriod string

const (
	PeriodDaily   DigestPeriod = "daily"
	PeriodWeekly  DigestPeriod = "weekly"
	PeriodMonthly DigestPeriod = "monthly"
)

var (
	telemetryPeriods = []DigestPeriod{PeriodDaily, PeriodWeekly, PeriodMonthly}
	digestPeriods    = []DigestPeriod{PeriodWeekly, PeriodMonthly}
)

type HealthState string

const (
	Healthy     HealthState = "healthy"
	Degraded    HealthState = "degraded"
	Unhealthy   HealthState = "unhealthy"
	HealthOK    HealthState = "ok"
	HealthError HealthState = "error"
)

var (
	controlPlaneHealth = []HealthState{Healthy, Degraded, Unhealthy}
	dependencyHealth   = []HealthState{HealthOK, Degraded, HealthError}
)

type DashboardRunSummary struct {
	RunID         string             `json:"run_id"`
	AgentID       string             `json:"agent_id"`
	AgentName     string             `json:"agent_name"`
	Repository    string             `json:"repository"`
	TriggerEvent  string             `json:"trigger_event"`
	Status        DashboardRunStatus `json:"status"`
	StartedAt     time.Time          `json:"started_at"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	DurationMS    *int64             `json:"duration_ms,omitempty"`
	AutonomyLevel string             `json:"autonomy_level"`
	TrustScore    *float64           `json:"trust_score,omitempty"`
	PRNumber      *int               `json:"pr_number,omitempty"`
	PRURL         *string            `json:"pr_url,omitempty"`
}

type DashboardAgentStatus struct {
	AgentID       string     `json:"agent_id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description,omitempty"`
	TriggerEvents []string   `json:"trigger_events"`
	TrustLevel    TrustLevel `json:"trust_level"`
	TrustScore    float64    `json:"trust_score"`
	LastRunAt     *time.Time `json:"last_run_at,omitempty"`
	LastRunStatus *string    `json:"last_run_status,omitempty"`
	TotalRuns     int        `json:"total_runs"`
	SuccessRate   float64    `json:"success_rate"`
	Active        bool       `json:"active"`
}

type DashboardTopAgent struct {
	AgentID string `json:"agent_id"`
	Name    string `json:"name"`
	Runs    int    `json:"runs"`
}

type DashboardTelemetrySummary struct {
	Period                DigestPeriod        `json:"period"`
	StartDate             string              `json:"start_date"`
	EndDate               string              `json:"end_date"`
	TotalRuns             int                 `json:"total_runs"`
	SuccessfulRuns        int                 `json:"successful_runs"`
	FailedRuns            int                 `json:"failed_runs"`
	TotalTimeSavedMinutes float64             `json:"total_time_saved_minutes"`
	AvgDurationMS         float64             `json:"avg_duration_ms"`
	AgentsActive          int                 `json:"agents_active"`
	TopAgents             []DashboardTopAgent `json:"top_agents"`
}

type DashboardDigestMetrics struct {
	TotalRuns        int     `json:"total_runs"`
	SuccessRate      float64 `json:"success_rate"`
	TimeSavedMinutes float64 `json:"time_saved_minutes"`
	HotspotCount     int     `json:"hotspot_count"`
}

type DashboardHotspot struct {
	FilePath           string  `json:"file_path"`
	ChangeFrequency    float64 `json:"change_frequency"`
	FailureCorrelation float64 `json:"failure_correlation"`
}

type DashboardDigestView struct {
	DigestID       string                 `json:"digest_id"`
	InstallationID int64                  `json:"installation_id"`
	Period         DigestPeriod           `json:"period"`
	GeneratedAt    time.Time              `json:"generated_at"`
	SummaryText    string                 `json:"summary_text"`
	Highlights     []string               `json:"highlights"`
	Metrics        DashboardDigestMetrics `json:"metrics"`
	Hotspots       []DashboardHotspot     `json:"hotspots"`
}

type DashboardDispatchChain struct {
	RuleID          string     `json:"rule_id"`
	SourceAgentID   string     `json:"source_agent_id"`
	SourceAgentName string     `json:"source_agent_name"`
	TargetAgentID   string     `json:"target_agent_id"`
	TargetAgentName string     `json:"target_agent_name"`
	TriggerEvent    string     `json:"trigger_event"`
	Condition       *string    `json:"condition,omitempty"`
	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty"`
	TriggerCount    int        `json:"trigger_count"`
}

type DashboardHealthStatus struct {
	ControlPlane  HealthState `json:"control_plane"`
	Database      HealthState `json:"database"`
	GitHubApp     HealthState `json:"github_app"`
	QueueDepth    int         `json:"queue_depth"`
	ActiveRunners int         `json:"active_runners"`
	LastWebhookAt *time.Time  `json:"last_webhook_at,omitempty"`
}

func checkDashboardRunSummary(c *checker) {
	c.str("run_id")
	c.str("agent_id")
	c.str("agent_name")
	c.str("repository")
	c.str("trigger_event")
	c.required("status", "dashboard run status", IsDashboardRunStatus)
	c.timestamp("started_at")
	c.optTimestamp("completed_at")
	c.optional("duration_ms", "non-negative integer", isCount)
	c.str("autonomy_level")
	c.optional("trust_score", "number between 0 and 1", isFraction)
	c.optional("pr_number", "non-negative integer", isCount)
	c.optStr("pr_url")
}

func CheckDashboardRunSummary(v any) error {
	return check("dashboard_run_summary", v, checkDashboardRunSummary)
}

func checkDashboardAgentStatus(c *checker) {
	c.str("agent_id")
	c.str("name")
	c.optStr("description")
	c.strs("trigger_events")
	c.required("trust_level", "trust level", IsTrustLevel)
	c.fraction("trust_score")
	c.optTimestamp("last_run_at")
	c.optStr("last_run_status")
	c.count("total_runs")
	c.fraction("success_rate")
	c.boolean("active")
}

func CheckDashboardAgentStatus(v any) error {
	return check("dashboard_agent_status", v, checkDashboardAgentStatus)
}

func checkDashboardTopAgent(c *checker) {
	c.str("agent_id")
	c.str("name")
	c.count("runs")
}

func checkDashboardTelemetrySummary(c *checker) {
	c.required("period", "daily, weekly or monthly", predicate(telemetryPeriods))
	c.str("start_date")
	c.str("end_date")
	c.count("total_runs")
	c.count("successful_runs")
	c.count("failed_runs")
	c.num("total_time_saved_minutes")
	c.num("avg_duration_ms")
	c.count("agents_active")
	c.list("top_agents", checkDashboardTopAgent)
}

func CheckDashboardTelemetrySummary(v any) error {
	return check("dashboard_telemetry_summary", v, checkDashboardTelemetrySummary)
}

func checkDashboardDigestMetrics(c *checker) {
	c.count("total_runs")
	c.fraction("success_rate")
	c.num("time_saved_minutes")
	c.count("hotspot_count")
}

func checkDashboardHotspot(c *checker) {
	c.str("file_path")
	c.num("change_frequency")
	c.num("failure_correlation")
}

func checkDashboardDigestView(c *checker) {
	c.str("digest_id")
	c.integer("installation_id")
	c.required("period", "weekly or monthly", predicate(digestPeriods))
	c.timestamp("generated_at")
	c.str("summary_text")
	c.strs("highlights")
	c.nested("metrics", checkDashboardDigestMetrics)
	c.list("hotspots", checkDashboardHotspot)
}

func CheckDashboardDigestView(v any) error {
	return check("dashboard_digest_view", v, checkDashboardDigestView)
}

func checkDashboardDispatchChain(c *checker) {
	c.str("rule_id")
	c.str("source_agent_id")
	c.str("source_agent_name")
	c.str("target_agent_id")
	c.str("target_agent_name")
	c.str("trigger_event")
	c.optStr("condition")
	c.optTimestamp("last_triggered_at")
	c.count("trigger_count")
}

func CheckDashboardDispatchChain(v any) error {
	return check("dashboard_dispatch_chain", v, checkDashboardDispatchChain)
}

func checkDashboardHealthStatus(c *checker) {
	c.required("control_plane", "healthy, degraded or unhealthy", predicate(controlPlaneHealth))
	c.required("database", "ok, degraded or error", predicate(dependencyHealth))
	c.required("github_app", "ok, degraded or error", predicate(dependencyHealth))
	c.count("queue_depth")
	c.count("active_runners")
	c.optTimestamp("last_webhook_at")
}

func CheckDashboardHealthStatus(v any) error {
	return check("dashboard_health_status", v, checkDashboardHealthStatus)
}
