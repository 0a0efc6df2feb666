package contracts_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limerclaw/shared-types/contracts"
)

func TestManualReviewBenchmarks(t *testing.T) {
	table := contracts.ManualReviewBenchmarksMS()
	require.Contains(t, table, contracts.DefaultBenchmarkKey)
	assert.Equal(t, int64(30*60_000), table[contracts.DefaultBenchmarkKey])
	for agent, ms := range table {
		assert.Positive(t, ms, "benchmark for %q", agent)
	}

	assert.Equal(t, int64(25*60_000), contracts.ManualReviewBenchmarkMS("pr-guard"))
	assert.Equal(t, int64(90*60_000), contracts.ManualReviewBenchmarkMS("consensus-code-approval"))
	assert.Equal(t, table[contracts.DefaultBenchmarkKey], contracts.ManualReviewBenchmarkMS("brand-new-agent"))

	table["pr-guard"] = 1
	assert.Equal(t, int64(25*60_000), contracts.ManualReviewBenchmarkMS("pr-guard"))
}

func TestEstimateHoursSaved(t *testing.T) {
	tests := []struct {
		name  string
		agent string
		runs  int
		want  float64
	}{
		{"root cause hour each", "root-cause-analysis", 3, 3},
		{"pr guard", "pr-guard", 12, 5},
		{"unknown uses default", "custom-bot", 4, 2},
		{"no runs", "pr-guard", 0, 0},
		{"negative runs", "pr-guard", -2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, contracts.EstimateHoursSaved(tt.agent, tt.runs), 1e-9)
		})
	}
}

func TestSeverityBreakdown(t *testing.T) {
	findings := []contracts.Finding{
		{Severity: contracts.SeverityHigh, Message: "a"},
		{Severity: contracts.SeverityHigh, Message: "b"},
		{Severity: contracts.SeverityInfo, Message: "c"},
		{Severity: contracts.FindingSeverity("bogus"), Message: "d"},
	}
	b := contracts.BreakdownOf(findings)
	assert.Equal(t, 2, b.High)
	assert.Equal(t, 1, b.Count(contracts.SeverityInfo))
	assert.Equal(t, 0, b.Count("bogus"))
	assert.Equal(t, 3, b.Total())

	merged := b.Merge(contracts.SeverityBreakdown{Critical: 1, High: 1})
	assert.Equal(t, contracts.SeverityBreakdown{Critical: 1, High: 3, Info: 1}, merged)

	require.NoError(t, contracts.CheckSeverityBreakdown(b))
	assert.False(t, contracts.IsSeverityBreakdown(map[string]any{
		"critical": 0, "high": 0, "medium": "1", "low": 0, "info": 0,
	}))
	assert.False(t, contracts.IsSeverityBreakdown(map[string]any{
		"critical": 0, "high": -1, "medium": 0, "low": 0, "info": 0,
	}))
	assert.False(t, contracts.IsSeverityBreakdown(map[string]any{"critical": 0}))
}

func TestHotspotEntry(t *testing.T) {
	assert.True(t, contracts.IsHotspotEntry(contracts.HotspotEntry{
		Path: "internal/db", FindingCount: 7, RiskTrend: contracts.RiskRising,
	}))
	assert.False(t, contracts.IsHotspotEntry(map[string]any{
		"path": "internal/db", "finding_count": 7, "risk_trend": "exploding",
	}))
	assert.False(t, contracts.IsHotspotEntry(map[string]any{
		"path": "internal/db", "finding_count": 1.5, "risk_trend": "stable",
	}))
}

func TestNewTelemetryRecord(t *testing.T) {
	result := sampleRunResult()
	rec := contracts.NewTelemetryRecord(result, contracts.TriggerPullRequest, contracts.AutonomyL1, 0.72)
	assert.Equal(t, "pull_request", rec.TriggerEvent)
	assert.Equal(t, "warn", rec.Conclusion)
	assert.Equal(t, 2, rec.FindingsCount)
	assert.Equal(t, 1, rec.SeverityBreakdown.High)
	assert.Equal(t, int64(93_000), rec.DurationMS)
	assert.Equal(t, "L1", rec.AutonomyLevelUsed)
	assert.True(t, rec.CreatedAt.Equal(result.CompletedAt))

	rec.ID = "rec-1"
	rec.RunExecutionID = "exec-1"
	rec.AgentDefinitionID = "agent-1"
	rec.InstallationID = 99
	rec.RepoFullName = "limeriq/limeriq"
	require.NoError(t, contracts.CheckAgentTelemetryRecord(rec))
}

func TestDispatchConditionGuard(t *testing.T) {
	tests := []struct {
		name string
		cond map[string]any
		want bool
	}{
		{"custom contains with field", map[string]any{
			"type": "custom", "operator": "contains", "value": "sql-injection", "field": "$.findings[0].rule",
		}, true},
		{"numeric value", map[string]any{"type": "risk_score", "operator": "gte", "value": 0.7}, true},
		{"string value", map[string]any{"type": "conclusion", "operator": "eq", "value": "fail"}, true},
		{"operator not allowed", map[string]any{"type": "conclusion", "operator": "ne", "value": "x"}, false},
		{"unknown type", map[string]any{"type": "weather", "operator": "eq", "value": "x"}, false},
		{"boolean value", map[string]any{"type": "conclusion", "operator": "eq", "value": true}, false},
		{"null value", map[string]any{"type": "conclusion", "operator": "eq", "value": nil}, false},
		{"array value", map[string]any{"type": "conclusion", "operator": "eq", "value": []any{"fail"}}, false},
		{"missing value", map[string]any{"type": "conclusion", "operator": "eq"}, false},
		{"numeric field", map[string]any{"type": "custom", "operator": "eq", "value": "x", "field": 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contracts.IsDispatchCondition(tt.cond))
		})
	}
}

func TestDispatchValueJSON(t *testing.T) {
	var cond contracts.DispatchCondition
	require.NoError(t, json.Unmarshal([]byte(`{"type":"risk_score","operator":"gte","value":0.75}`), &cond))
	n, ok := cond.Value.AsNumber()
	require.True(t, ok)
	assert.InDelta(t, 0.75, n, 1e-12)
	_, ok = cond.Value.AsString()
	assert.False(t, ok)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"conclusion","operator":"eq","value":"fail"}`), &cond))
	s, ok := cond.Value.AsString()
	require.True(t, ok)
	assert.Equal(t, "fail", s)

	for _, raw := range []string{`true`, `null`, `[1]`, `{}`} {
		var v contracts.DispatchValue
		assert.Error(t, json.Unmarshal([]byte(raw), &v), "value %s", raw)
	}

	out, err := json.Marshal(contracts.DispatchCondition{
		Type:     contracts.ConditionFindingSeverity,
		Operator: contracts.OperatorGte,
		Value:    contracts.StringValue("high"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"finding_severity","operator":"gte","value":"high"}`, string(out))

	out, err = json.Marshal(contracts.NumberValue(3))
	require.NoError(t, err)
	assert.JSONEq(t, `3`, string(out))
	require.NoError(t, contracts.CheckDispatchCondition(contracts.DispatchCondition{
		Type: contracts.ConditionRiskScore, Operator: contracts.OperatorLte, Value: contracts.NumberValue(3),
	}))
}

const securityPackYAML = `
pack_id: security-review
name: Security Review
version: 1.2.0
description: Deep security review on pull requests
category: security
workflow_slug: security-review-expert
default_trust_level: L1
agent_config:
  triggers:
    - event: pull_request
      actions: [opened, synchronize]
      paths: ["**/*.go"]
  runner:
    target: github_actions
    timeout_minutes: 20
  autonomy:
    initial_level: L1
    max_level: L3
    trust_threshold: 0.8
  reporting:
    github_check: true
    pr_comment: true
dispatch_rules:
  - target_pack: root-cause-analysis
    condition:
      type: finding_severity
      operator: gte
      value: critical
`

func TestParseAutomationPackManifest(t *testing.T) {
	m, err := contracts.ParseAutomationPackManifest([]byte(securityPackYAML))
	require.NoError(t, err)
	assert.Equal(t, "security-review", m.PackID)
	assert.Equal(t, contracts.PackSecurity, m.Category)
	assert.Equal(t, contracts.AutonomyL1, m.DefaultTrustLevel)
	require.Len(t, m.DispatchRules, 1)
	v, ok := m.DispatchRules[0].Condition.Value.AsString()
	require.True(t, ok)
	assert.Equal(t, "critical", v)

	cfg := m.FullAgentConfig()
	assert.Equal(t, "Security Review", cfg.Name)
	assert.Equal(t, 20, cfg.Runner.TimeoutMinutes)
	require.NotNil(t, cfg.Autonomy.TrustThreshold)
	assert.InDelta(t, 0.8, *cfg.Autonomy.TrustThreshold, 1e-12)
	require.NoError(t, contracts.CheckAgentConfig(cfg))

	_, err = contracts.ParseAutomationPackManifest([]byte("pack_id: x\ncategory: gardening\n"))
	require.ErrorIs(t, err, contracts.ErrInvalid)

	_, err = contracts.ParseAutomationPackManifest([]byte(""))
	require.Error(t, err)
}

func TestDailyRollupValidatesHotspots(t *testing.T) {
	rollup := contracts.TelemetryDailyRollup{
		ID:                "r1",
		AgentDefinitionID: "a1",
		InstallationID:    1,
		RollupDate:        "2026-03-01",
		TotalRuns:         3,
		PassedRuns:        2,
		FailedRuns:        1,
		TotalFindings:     4,
		SeverityTotals:    contracts.SeverityBreakdown{High: 4},
		AvgDurationMS:     812.5,
		TotalTokens:       1200,
		HotspotPaths:      []contracts.HotspotEntry{},
		CreatedAt:         time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, contracts.CheckTelemetryDailyRollup(rollup))

	rollup.HotspotPaths = []contracts.HotspotEntry{{Path: "x", FindingCount: 1, RiskTrend: "sideways"}}
	ve, ok := contracts.AsValidationError(contracts.CheckTelemetryDailyRollup(rollup))
	require.True(t, ok)
	assert.Equal(t, "hotspot_paths[0].risk_trend", ve.Path)
}
