package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

// SeverityBreakdown counts findings per severity.
type SeverityBreakdown struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

// Add counts one finding of severity s. Unknown severities are ignored.
func (b *SeverityBreakdown) Add(s FindingSeverity) {
	switch s {
	case SeverityCritical:
		b.Critical++
	case SeverityHigh:
		b.High++
	case SeverityMedium:
		b.Medium++
	case SeverityLow:
		b.Low++
	case SeverityInfo:
		b.Info++
	}
}

// Count returns the number of findings at severity s.
func (b SeverityBreakdown) Count(s FindingSeverity) int {
	switch s {
	case SeverityCritical:
		return b.Critical
	case SeverityHigh:
		return b.High
	case SeverityMedium:
		return b.Medium
	case SeverityLow:
		return b.Low
	case SeverityInfo:
		return b.Info
	}
	return 0
}

func (b SeverityBreakdown) Total() int {
	return b.Critical + b.High + b.Medium + b.Low + b.Info
}

// Merge returns the element-wise sum of b and o.
func (b SeverityBreakdown) Merge(o SeverityBreakdown) SeverityBreakdown {
	return SeverityBreakdown{
		Critical: b.Critical + o.Critical,
		High:     b.High + o.High,
		Medium:   b.Medium + o.Medium,
		Low:      b.Low + o.Low,
		Info:     b.Info + o.Info,
	}
}

// BreakdownOf tallies findings by severity.
func BreakdownOf(findings []Finding) SeverityBreakdown {
	var b SeverityBreakdown
	for _, f := range findings {
		b.Add(f.Severity)
	}
	return b
}

type RiskTrend string

const (
	RiskRising  RiskTrend = "rising"
	RiskStable  RiskTrend = "stable"
	RiskFalling RiskTrend = "falling"
)

var riskTrends = []RiskTrend{RiskRising, RiskStable, RiskFalling}

func RiskTrends() []RiskTrend   { return slices.Clone(riskTrends) }
func (t RiskTrend) Valid() bool { return slices.Contains(riskTrends, t) }
func IsRiskTrend(v any) bool    { return member(riskTrends, v) }

// HotspotEntry is a path that keeps collecting findings.
type HotspotEntry struct {
	Path         string    `json:"path"`
	FindingCount int       `json:"finding_count"`
	RiskTrend    RiskTrend `json:"risk_trend"`
}

// AgentTelemetryRecord is the per-run metric row that rollups aggregate.
type AgentTelemetryRecord struct {
	ID                string            `json:"id"`
	RunExecutionID    string            `json:"run_execution_id"`
	AgentDefinitionID string            `json:"agent_definition_id"`
	InstallationID    int64             `json:"installation_id"`
	RepoFullName      string            `json:"repo_full_name"`
	TriggerEvent      string            `json:"trigger_event"`
	Conclusion        string            `json:"conclusion"`
	FindingsCount     int               `json:"findings_count"`
	SeverityBreakdown SeverityBreakdown `json:"severity_breakdown"`
	DurationMS        int64             `json:"duration_ms"`
	TokenCount        int64             `json:"token_count"`
	StepsExecuted     int               `json:"steps_executed"`
	LLMCalls          int               `json:"llm_calls"`
	AutonomyLevelUsed string            `json:"autonomy_level_used"`
	TrustScoreAtRun   float64           `json:"trust_score_at_run"`
	CreatedAt         time.Time         `json:"created_at"`
}

// NewTelemetryRecord derives the metric fields of a record from a run result.
// Identity fields are left for the caller.
func NewTelemetryRecord(result RunResult, trigger TriggerEventType, level AutonomyLevel, trust float64) AgentTelemetryRecord {
	return AgentTelemetryRecord{
		TriggerEvent:      string(trigger),
		Conclusion:        string(result.Conclusion),
		FindingsCount:     len(result.Findings),
		SeverityBreakdown: BreakdownOf(result.Findings),
		DurationMS:        result.Telemetry.DurationMS,
		TokenCount:        result.Telemetry.TokenCount,
		StepsExecuted:     result.Telemetry.StepsExecuted,
		LLMCalls:          result.Telemetry.LLMCalls,
		AutonomyLevelUsed: string(level),
		TrustScoreAtRun:   trust,
		CreatedAt:         result.CompletedAt,
	}
}

type TelemetryDailyRollup struct {
	ID                string            `json:"id"`
	AgentDefinitionID string            `json:"agent_definition_id"`
	InstallationID    int64             `json:"installation_id"`
	RollupDate        string            `json:"rollup_date"`
	TotalRuns         int               `json:"total_runs"`
	PassedRuns        int               `json:"passed_runs"`
	FailedRuns        int               `json:"failed_runs"`
	TotalFindings     int               `json:"total_findings"`
	SeverityTotals    SeverityBreakdown `json:"severity_totals"`
	AvgDurationMS     float64           `json:"avg_duration_ms"`
	TotalTokens       int64             `json:"total_tokens"`
	HotspotPaths      []HotspotEntry    `json:"hotspot_paths"`
	CreatedAt         time.Time         `json:"created_at"`
}

type TelemetryWeeklyRollup struct {
	ID                  string            `json:"id"`
	AgentDefinitionID   string            `json:"agent_definition_id"`
	InstallationID      int64             `json:"installation_id"`
	WeekStart           string            `json:"week_start"`
	TotalRuns           int               `json:"total_runs"`
	PassedRuns          int               `json:"passed_runs"`
	FailedRuns          int               `json:"failed_runs"`
	TotalFindings       int               `json:"total_findings"`
	SeverityTotals      SeverityBreakdown `json:"severity_totals"`
	AvgDurationMS       float64           `json:"avg_duration_ms"`
	TotalTokens         int64             `json:"total_tokens"`
	HotspotPaths        []HotspotEntry    `json:"hotspot_paths"`
	EstimatedHoursSaved float64           `json:"estimated_hours_saved"`
	AccuracyDeltaPct    float64           `json:"accuracy_delta_pct"`
	Recommendations     []string          `json:"recommendations"`
	CreatedAt           time.Time         `json:"created_at"`
}

type DigestSummary struct {
	TotalRuns           int     `json:"total_runs"`
	IssuesCaught        int     `json:"issues_caught"`
	EstimatedHoursSaved float64 `json:"estimated_hours_saved"`
	AccuracyChangePct   float64 `json:"accuracy_change_pct"`
}

type AgentDigestDetail struct {
	AgentDefinitionID   string  `json:"agent_definition_id"`
	AgentName           string  `json:"agent_name"`
	TotalRuns           int     `json:"total_runs"`
	PassedRuns          int     `json:"passed_runs"`
	FailedRuns          int     `json:"failed_runs"`
	FindingsCount       int     `json:"findings_count"`
	AvgDurationMS       float64 `json:"avg_duration_ms"`
	EstimatedHoursSaved float64 `json:"estimated_hours_saved"`
}

type WeeklyDigest struct {
	InstallationID  int64               `json:"installation_id"`
	WeekStart       string              `json:"week_start"`
	Summary         DigestSummary       `json:"summary"`
	AgentDetails    []AgentDigestDetail `json:"agent_details"`
	Hotspots        []HotspotEntry      `json:"hotspots"`
	Recommendations []string            `json:"recommendations"`
}

// DefaultBenchmarkKey is the benchmark used for agents without their own entry.
const DefaultBenchmarkKey = "default"

var manualReviewBenchmarksMS = map[string]int64{
	"pr-guard":                25 * 60_000,
	"security-review-expert":  45 * 60_000,
	"root-cause-analysis":     60 * 60_000,
	"iac-preflight":           30 * 60_000,
	"consensus-code-approval": 90 * 60_000,
	DefaultBenchmarkKey:       30 * 60_000,
}

// ManualReviewBenchmarksMS returns a copy of the estimated manual review time
// per agent, in milliseconds.
func ManualReviewBenchmarksMS() map[string]int64 {
	return maps.Clone(manualReviewBenchmarksMS)
}

// ManualReviewBenchmarkMS returns the benchmark for agent, falling back to the
// default entry for unknown agents.
func ManualReviewBenchmarkMS(agent string) int64 {
	if ms, ok := manualReviewBenchmarksMS[agent]; ok {
		return ms
	}
	return manualReviewBenchmarksMS[DefaultBenchmarkKey]
}

// EstimateHoursSaved is runs times the agent's manual review benchmark.
func EstimateHoursSaved(agent string, runs int) float64 {
	if runs <= 0 {
		return 0
	}
	return float64(runs) * float64(ManualReviewBenchmarkMS(agent)) / float64(time.Hour/time.Millisecond)
}

type DispatchConditionType string

const (
	ConditionConclusion      DispatchConditionType = "conclusion"
	ConditionFindingSeverity DispatchConditionType = "finding_severity"
	ConditionRiskScore       DispatchConditionType = "risk_score"
	ConditionCustom          DispatchConditionType = "custom"
)

var dispatchConditionTypes = []DispatchConditionType{
	ConditionConclusion,
	ConditionFindingSeverity,
	ConditionRiskScore,
	ConditionCustom,
}

func DispatchConditionTypes() []DispatchConditionType { return slices.Clone(dispatchConditionTypes) }
func (t DispatchConditionType) Valid() bool           { return slices.Contains(dispatchConditionTypes, t) }
func IsDispatchConditionType(v any) bool              { return member(dispatchConditionTypes, v) }

type DispatchOperator string

const (
	OperatorEq       DispatchOperator = "eq"
	OperatorGte      DispatchOperator = "gte"
	OperatorLte      DispatchOperator = "lte"
	OperatorContains DispatchOperator = "contains"
)

var dispatchOperators = []DispatchOperator{OperatorEq, OperatorGte, OperatorLte, OperatorContains}

func DispatchOperators() []DispatchOperator { return slices.Clone(dispatchOperators) }
func (o DispatchOperator) Valid() bool      { return slices.Contains(dispatchOperators, o) }
func IsDispatchOperator(v any) bool         { return member(dispatchOperators, v) }

// DispatchValue is a JSON string or number. The zero value is the empty
// string.
type DispatchValue struct {
	str   string
	num   float64
	isNum bool
}

func StringValue(s string) DispatchValue  { return DispatchValue{str: s} }
func NumberValue(n float64) DispatchValue { return DispatchValue{num: n, isNum: true} }

// AsString returns the string value and whether the value is a string.
func (v DispatchValue) AsString() (string, bool) { return v.str, !v.isNum }

// AsNumber returns the numeric value and whether the value is a number.
func (v DispatchValue) AsNumber() (float64, bool) { return v.num, v.isNum }

func (v DispatchValue) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

func (v *DispatchValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	}
	var n float64
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("contracts: dispatch value must be a string or number, got null")
	}
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("contracts: dispatch value must be a string or number: %w", err)
	}
	*v = NumberValue(n)
	return nil
}

// DispatchCondition decides whether a finished run triggers a dispatch rule.
// Field is a JSON path into the source result and is used by custom
// conditions.
type DispatchCondition struct {
	Type     DispatchConditionType `json:"type"`
	Operator DispatchOperator      `json:"operator"`
	Value    DispatchValue         `json:"value"`
	Field    *string               `json:"field,omitempty"`
}

// ResultMapping copies values from a source run into the dispatched run.
type ResultMapping struct {
	// VariableMappings maps a target variable to a JSON path in the source result.
	VariableMappings map[string]string `json:"variable_mappings"`
	// InheritContext copies repo, sha and pr_number.
	InheritContext bool `json:"inherit_context"`
}

type AgentDispatchRule struct {
	ID             string            `json:"id"`
	SourceAgentID  string            `json:"source_agent_id"`
	TargetAgentID  string            `json:"target_agent_id"`
	InstallationID int64             `json:"installation_id"`
	Condition      DispatchCondition `json:"condition"`
	ResultMapping  ResultMapping     `json:"result_mapping"`
	Enabled        bool              `json:"enabled"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type AgentDispatchResult struct {
	RuleID             string `json:"rule_id"`
	SourceRunRequestID string `json:"source_run_request_id"`
	TargetRunRequestID string `json:"target_run_request_id"`
	TargetAgentID      string `json:"target_agent_id"`
	Dispatched         bool   `json:"dispatched"`
	Reason             string `json:"reason"`
}

type PackCategory string

const (
	PackCodeReview     PackCategory = "code-review"
	PackSecurity       PackCategory = "security"
	PackCITriage       PackCategory = "ci-triage"
	PackInfrastructure PackCategory = "infrastructure"
	PackRelease        PackCategory = "release"
	PackCustom         PackCategory = "custom"
)

var packCategories = []PackCategory{
	PackCodeReview,
	PackSecurity,
	PackCITriage,
	PackInfrastructure,
	PackRelease,
	PackCustom,
}

func PackCategories() []PackCategory { return slices.Clone(packCategories) }
func (p PackCategory) Valid() bool   { return slices.Contains(packCategories, p) }
func IsPackCategory(v any) bool      { return member(packCategories, v) }

// PackAgentConfig is the agent config a pack installs, without name and
// description, which come from the pack itself.
type PackAgentConfig struct {
	Triggers  []TriggerConfig `json:"triggers"`
	Runner    RunnerConfig    `json:"runner"`
	Autonomy  AutonomyConfig  `json:"autonomy"`
	Reporting ReportingConfig `json:"reporting"`
}

type PackDispatchRule struct {
	TargetPack string            `json:"target_pack"`
	Condition  DispatchCondition `json:"condition"`
}

// AutomationPackManifest describes an installable bundle of one agent and
// its follow-on dispatch rules.
type AutomationPackManifest struct {
	PackID            string             `json:"pack_id"`
	Name              string             `json:"name"`
	Version           string             `json:"version"`
	Description       string             `json:"description"`
	Category          PackCategory       `json:"category"`
	WorkflowSlug      string             `json:"workflow_slug"`
	AgentConfig       PackAgentConfig    `json:"agent_config"`
	DefaultTrustLevel AutonomyLevel      `json:"default_trust_level"`
	DispatchRules     []PackDispatchRule `json:"dispatch_rules,omitempty"`
}

// FullAgentConfig expands the pack's agent config into a full AgentConfig.
func (m AutomationPackManifest) FullAgentConfig() AgentConfig {
	return AgentConfig{
		Name:        m.Name,
		Description: m.Description,
		Triggers:    m.AgentConfig.Triggers,
		Runner:      m.AgentConfig.Runner,
		Autonomy:    m.AgentConfig.Autonomy,
		Reporting:   m.AgentConfig.Reporting,
	}
}

type PackInstallRequest struct {
	PackID         string `json:"pack_id"`
	InstallationID int64  `json:"installation_id"`
	RepoFullName   string `json:"repo_full_name"`
	RunnerTarget   string `json:"runner_target"`
}

type PackInstallResult struct {
	AgentDefinitionID string   `json:"agent_definition_id"`
	TriggerIDs        []string `json:"trigger_ids"`
	GitHubActionsFile *string  `json:"github_actions_file,omitempty"`
	DispatchRuleIDs   []string `json:"dispatch_rule_ids"`
}

func checkSeverityBreakdown(c *checker) {
	c.count("critical")
	c.count("high")
	c.count("medium")
	c.count("low")
	c.count("info")
}

func CheckSeverityBreakdown(v any) error {
	return check("severity_breakdown", v, checkSeverityBreakdown)
}

func IsSeverityBreakdown(v any) bool { return CheckSeverityBreakdown(v) == nil }

func checkHotspotEntry(c *checker) {
	c.str("path")
	c.count("finding_count")
	c.required("risk_trend", "risk trend", IsRiskTrend)
}

func CheckHotspotEntry(v any) error { return check("hotspot_entry", v, checkHotspotEntry) }
func IsHotspotEntry(v any) bool     { return CheckHotspotEntry(v) == nil }

func checkAgentTelemetryRecord(c *checker) {
	c.str("id")
	c.str("run_execution_id")
	c.str("agent_definition_id")
	c.integer("installation_id")
	c.str("repo_full_name")
	c.str("trigger_event")
	c.str("conclusion")
	c.count("findings_count")
	c.nested("severity_breakdown", checkSeverityBreakdown)
	c.count("duration_ms")
	c.count("token_count")
	c.count("steps_executed")
	c.count("llm_calls")
	c.str("autonomy_level_used")
	c.fraction("trust_score_at_run")
	c.timestamp("created_at")
}

func CheckAgentTelemetryRecord(v any) error {
	return check("agent_telemetry_record", v, checkAgentTelemetryRecord)
}

func checkRollupCounts(c *checker) {
	c.count("total_runs")
	c.count("passed_runs")
	c.count("failed_runs")
	c.count("total_findings")
	c.nested("severity_totals", checkSeverityBreakdown)
	c.num("avg_duration_ms")
	c.count("total_tokens")
	c.list("hotspot_paths", checkHotspotEntry)
}

func checkTelemetryDailyRollup(c *checker) {
	c.str("id")
	c.str("agent_definition_id")
	c.integer("installation_id")
	c.str("rollup_date")
	checkRollupCounts(c)
	c.timestamp("created_at")
}

func CheckTelemetryDailyRollup(v any) error {
	return check("telemetry_daily_rollup", v, checkTelemetryDailyRollup)
}

func checkTelemetryWeeklyRollup(c *checker) {
	c.str("id")
	c.str("agent_definition_id")
	c.integer("installation_id")
	c.str("week_start")
	checkRollupCounts(c)
	c.num("estimated_hours_saved")
	c.num("accuracy_delta_pct")
	c.strs("recommendations")
	c.timestamp("created_at")
}

func CheckTelemetryWeeklyRollup(v any) error {
	return check("telemetry_weekly_rollup", v, checkTelemetryWeeklyRollup)
}

func checkDigestSummary(c *checker) {
	c.count("total_runs")
	c.count("issues_caught")
	c.num("estimated_hours_saved")
	c.num("accuracy_change_pct")
}

func checkAgentDigestDetail(c *checker) {
	c.str("agent_definition_id")
	c.str("agent_name")
	c.count("total_runs")
	c.count("passed_runs")
	c.count("failed_runs")
	c.count("findings_count")
	c.num("avg_duration_ms")
	c.num("estimated_hours_saved")
}

func checkWeeklyDigest(c *checker) {
	c.integer("installation_id")
	c.str("week_start")
	c.nested("summary", checkDigestSummary)
	c.list("agent_details", checkAgentDigestDetail)
	c.list("hotspots", checkHotspotEntry)
	c.strs("recommendations")
}

func CheckWeeklyDigest(v any) error { return check("weekly_digest", v, checkWeeklyDigest) }

func checkDispatchCondition(c *checker) {
	c.required("type", "dispatch condition type", IsDispatchConditionType)
	c.required("operator", "dispatch operator", IsDispatchOperator)
	c.required("value", "string or number", isStringOrNumber)
	c.optStr("field")
}

func CheckDispatchCondition(v any) error {
	return check("dispatch_condition", v, checkDispatchCondition)
}

func IsDispatchCondition(v any) bool { return CheckDispatchCondition(v) == nil }

func checkResultMapping(c *checker) {
	c.strMap("variable_mappings")
	c.boolean("inherit_context")
}

func checkAgentDispatchRule(c *checker) {
	c.str("id")
	c.str("source_agent_id")
	c.str("target_agent_id")
	c.integer("installation_id")
	c.nested("condition", checkDispatchCondition)
	c.nested("result_mapping", checkResultMapping)
	c.boolean("enabled")
	c.timestamp("created_at")
	c.timestamp("updated_at")
}

func CheckAgentDispatchRule(v any) error {
	return check("agent_dispatch_rule", v, checkAgentDispatchRule)
}

func checkAgentDispatchResult(c *checker) {
	c.str("rule_id")
	c.str("source_run_request_id")
	c.str("target_run_request_id")
	c.str("target_agent_id")
	c.boolean("dispatched")
	c.str("reason")
}

func CheckAgentDispatchResult(v any) error {
	return check("agent_dispatch_result", v, checkAgentDispatchResult)
}

func checkPackAgentConfig(c *checker) {
	c.list("triggers", checkTriggerConfig)
	c.nested("runner", checkRunnerConfig)
	c.nested("autonomy", checkAutonomyConfig)
	c.nested("reporting", checkReportingConfig)
}

func checkPackDispatchRule(c *checker) {
	c.str("target_pack")
	c.nested("condition", checkDispatchCondition)
}

func checkAutomationPackManifest(c *checker) {
	c.str("pack_id")
	c.str("name")
	c.str("version")
	c.str("description")
	c.required("category", "pack category", IsPackCategory)
	c.str("workflow_slug")
	c.nested("agent_config", checkPackAgentConfig)
	c.required("default_trust_level", "autonomy level", IsAutonomyLevel)
	c.optList("dispatch_rules", checkPackDispatchRule)
}

func CheckAutomationPackManifest(v any) error {
	return check("automation_pack_manifest", v, checkAutomationPackManifest)
}

// ParseAutomationPackManifest reads a pack manifest from YAML or JSON and
// validates it.
func ParseAutomationPackManifest(data []byte) (AutomationPackManifest, error) {
	return parseDocument[AutomationPackManifest](data, CheckAutomationPackManifest)
}

func checkPackInstallRequest(c *checker) {
	c.str("pack_id")
	c.integer("installation_id")
	c.str("repo_full_name")
	c.str("runner_target")
}

func CheckPackInstallRequest(v any) error {
	return check("pack_install_request", v, checkPackInstallRequest)
}

func checkPackInstallResult(c *checker) {
	c.str("agent_definition_id")
	c.strs("trigger_ids")
	c.optStr("github_actions_file")
	c.strs("dispatch_rule_ids")
}

func CheckPackInstallResult(v any) error {
	return check("pack_install_result", v, checkPackInstallResult)
}
