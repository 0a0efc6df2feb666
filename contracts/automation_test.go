package contracts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limerclaw/shared-types/contracts"
)

const prGuardConfigYAML = `
name: pr-guard
description: Reviews every pull request
triggers:
  - event: pull_request
    actions: [opened, synchronize, reopened]
    paths_exclude: ["docs/**"]
  - event: issue_comment
    pattern: "^/guard"
runner:
  target: self_hosted
  timeout_minutes: 15
  concurrency:
    group: "pr-guard-${{ github.ref }}"
    cancel_in_progress: true
autonomy:
  initial_level: L0
  max_level: L2
reporting:
  github_check: true
  pr_comment: false
  check_name: limerIQ / pr-guard
memory:
  ignore_rules: [G104]
`

func TestParseAgentConfigYAML(t *testing.T) {
	cfg, err := contracts.ParseAgentConfig([]byte(prGuardConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "pr-guard", cfg.Name)
	require.Len(t, cfg.Triggers, 2)
	assert.Equal(t, contracts.TriggerPullRequest, cfg.Triggers[0].Event)
	assert.Equal(t, []string{"opened", "synchronize", "reopened"}, cfg.Triggers[0].Actions)
	assert.Equal(t, []string{"docs/**"}, cfg.Triggers[0].PathsExclude)
	require.NotNil(t, cfg.Triggers[1].Pattern)
	assert.Equal(t, "^/guard", *cfg.Triggers[1].Pattern)
	assert.Equal(t, contracts.RunnerSelfHosted, cfg.Runner.Target)
	assert.Equal(t, 15, cfg.Runner.TimeoutMinutes)
	require.NotNil(t, cfg.Runner.Concurrency)
	assert.True(t, cfg.Runner.Concurrency.CancelInProgress)
	assert.Equal(t, contracts.AutonomyL2, cfg.Autonomy.MaxLevel)
	assert.Nil(t, cfg.Autonomy.TrustThreshold)
	require.NotNil(t, cfg.Reporting.CheckName)
	assert.Contains(t, cfg.Memory, "ignore_rules")
	assert.True(t, contracts.IsAgentConfig(cfg))
}

func TestParseAgentConfigJSON(t *testing.T) {
	raw := `{
		"name": "iac-preflight",
		"description": "Plans terraform changes",
		"triggers": [{"event": "push", "paths": ["infra/**"]}],
		"runner": {"target": "github_actions", "timeout_minutes": 30},
		"autonomy": {"initial_level": "L1", "max_level": "L1", "trust_threshold": 0.9},
		"reporting": {"github_check": true, "pr_comment": true}
	}`
	cfg, err := contracts.ParseAgentConfig([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, contracts.TriggerPush, cfg.Triggers[0].Event)
	require.NotNil(t, cfg.Autonomy.TrustThreshold)
	assert.InDelta(t, 0.9, *cfg.Autonomy.TrustThreshold, 1e-12)
}

func TestParseAgentConfigRejections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"max below initial", `
name: x
description: y
triggers: []
runner: {target: local, timeout_minutes: 5}
autonomy: {initial_level: L3, max_level: L1}
reporting: {github_check: false, pr_comment: false}
`, "autonomy.max_level"},
		{"trust threshold above one", `
name: x
description: y
triggers: []
runner: {target: local, timeout_minutes: 5}
autonomy: {initial_level: L0, max_level: L1, trust_threshold: 1.5}
reporting: {github_check: false, pr_comment: false}
`, "autonomy.trust_threshold"},
		{"unknown trigger event", `
name: x
description: y
triggers: [{event: release}]
runner: {target: local, timeout_minutes: 5}
autonomy: {initial_level: L0, max_level: L1}
reporting: {github_check: false, pr_comment: false}
`, "triggers[0].event"},
		{"fractional timeout", `
name: x
description: y
triggers: []
runner: {target: local, timeout_minutes: 2.5}
autonomy: {initial_level: L0, max_level: L1}
reporting: {github_check: false, pr_comment: false}
`, "runner.timeout_minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := contracts.ParseAgentConfig([]byte(tt.doc))
			require.ErrorIs(t, err, contracts.ErrInvalid)
			ve, ok := contracts.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, "agent_config", ve.Shape)
			assert.Equal(t, tt.path, ve.Path)
		})
	}

	_, err := contracts.ParseAgentConfig([]byte("name: [unclosed"))
	require.Error(t, err)
	_, err = contracts.ParseAgentConfig(nil)
	require.Error(t, err)
}

func TestCheckProviderManifest(t *testing.T) {
	require.NoError(t, contracts.CheckProviderManifest(contracts.ProviderManifest{
		ProviderID:      "anthropic",
		CLICommand:      "claude",
		RequiredSecrets: []string{"ANTHROPIC_API_KEY"},
		AuthMode:        "api_key",
	}))
	// A nil slice encodes as null, which is not an array.
	assert.Error(t, contracts.CheckProviderManifest(contracts.ProviderManifest{
		ProviderID: "anthropic", CLICommand: "claude", AuthMode: "api_key",
	}))
}
