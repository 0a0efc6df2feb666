package contracts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limerclaw/shared-types/contracts"
)

func TestMissingPermissions(t *testing.T) {
	tests := []struct {
		name    string
		granted map[string]string
		want    []string
	}{
		{"nothing granted", nil, []string{
			"checks:write", "contents:read", "issues:write", "metadata:read", "pull_requests:write",
		}},
		{"exact grant", contracts.RequiredGitHubAppPermissions(), nil},
		{"write satisfies read", map[string]string{
			"checks": "write", "contents": "write", "issues": "write", "metadata": "write", "pull_requests": "write",
		}, nil},
		{"read does not satisfy write", map[string]string{
			"checks": "read", "contents": "read", "issues": "write", "metadata": "read", "pull_requests": "write",
		}, []string{"checks:write"}},
		{"unknown level", map[string]string{
			"checks": "write", "contents": "admin", "issues": "write", "metadata": "read", "pull_requests": "write",
		}, []string{"contents:read"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contracts.MissingPermissions(tt.granted))
		})
	}
}

func TestGitHubAppDefaultsAreCopies(t *testing.T) {
	perms := contracts.RequiredGitHubAppPermissions()
	perms["checks"] = "read"
	delete(perms, "issues")
	assert.Equal(t, "write", contracts.RequiredGitHubAppPermissions()["checks"])
	assert.Len(t, contracts.RequiredGitHubAppPermissions(), 5)

	events := contracts.DefaultWebhookEvents()
	assert.Equal(t, []string{"check_run", "pull_request", "push"}, events)
	events[0] = "release"
	assert.Equal(t, "check_run", contracts.DefaultWebhookEvents()[0])
}

func TestSetupStatusNextStep(t *testing.T) {
	step := func(id contracts.SetupStepId, status contracts.ResultStatus) contracts.SetupStepResult {
		return contracts.SetupStepResult{StepID: id, Name: string(id), Status: status, Message: "-"}
	}

	status := contracts.SetupStatus{Timestamp: time.Now()}
	next, ok := status.NextStep()
	require.True(t, ok)
	assert.Equal(t, contracts.StepEnvCheck, next)

	status.Steps = []contracts.SetupStepResult{
		step(contracts.StepEnvCheck, contracts.StatusPass),
		step(contracts.StepDBMigration, contracts.StatusSkip),
		step(contracts.StepGitHubApp, contracts.StatusFail),
		step(contracts.StepRunnerRegistration, contracts.StatusPass),
	}
	next, ok = status.NextStep()
	require.True(t, ok)
	assert.Equal(t, contracts.StepGitHubApp, next, "a failed step is still pending")

	status.Steps = nil
	for _, id := range contracts.SetupStepIds() {
		status.Steps = append(status.Steps, step(id, contracts.StatusPass))
	}
	_, ok = status.NextStep()
	assert.False(t, ok)
}

func TestCheckSetupStatus(t *testing.T) {
	current := contracts.StepFirstAgent
	status := contracts.SetupStatus{
		Complete: false,
		Steps: []contracts.SetupStepResult{
			{StepID: contracts.StepEnvCheck, Name: "Environment", Status: contracts.StatusPass, Message: "ok"},
		},
		CurrentStep: &current,
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, contracts.CheckSetupStatus(status))

	// warn is a validation outcome, not a wizard step outcome.
	status.Steps[0].Status = contracts.StatusWarn
	ve, ok := contracts.AsValidationError(contracts.CheckSetupStatus(status))
	require.True(t, ok)
	assert.Equal(t, "steps[0].status", ve.Path)
}

func TestRunnerBootstrapTokenUsable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := contracts.RunnerBootstrapToken{
		Token:         "rbt_123",
		ControlAPIURL: "http://localhost:8787",
		StartCommand:  "limerclaw-runner start --token rbt_123",
		ExpiresAt:     now.Add(time.Hour),
	}
	assert.True(t, tok.Usable(now))
	assert.False(t, tok.Usable(now.Add(time.Hour)), "expiry is exclusive")
	tok.Used = true
	assert.False(t, tok.Usable(now))
	require.NoError(t, contracts.CheckRunnerBootstrapToken(tok))
}

func TestOverallHealth(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	comp := func(status contracts.HealthState) contracts.HealthCheckComponent {
		return contracts.HealthCheckComponent{Name: "db", Status: status, LastChecked: at}
	}
	tests := []struct {
		name       string
		components []contracts.HealthCheckComponent
		want       contracts.HealthState
	}{
		{"no components", nil, contracts.Healthy},
		{"all ok", []contracts.HealthCheckComponent{comp(contracts.HealthOK), comp(contracts.HealthOK)}, contracts.Healthy},
		{"one degraded", []contracts.HealthCheckComponent{comp(contracts.HealthOK), comp(contracts.Degraded)}, contracts.Degraded},
		{"error wins", []contracts.HealthCheckComponent{comp(contracts.Degraded), comp(contracts.HealthError)}, contracts.Unhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contracts.OverallHealth(tt.components))
		})
	}

	result := contracts.HealthCheckResult{
		Status:        contracts.OverallHealth([]contracts.HealthCheckComponent{comp(contracts.HealthOK)}),
		Service:       "limerclaw-control",
		Timestamp:     at,
		UptimeSeconds: 12.5,
		Components:    []contracts.HealthCheckComponent{comp(contracts.HealthOK)},
	}
	require.NoError(t, contracts.CheckHealthCheckResult(result))

	// Component states use ok/degraded/error, never healthy.
	result.Components[0].Status = contracts.Healthy
	ve, ok := contracts.AsValidationError(contracts.CheckHealthCheckResult(result))
	require.True(t, ok)
	assert.Equal(t, "components[0].status", ve.Path)
}

func TestCheckGitHubAppSetupResult(t *testing.T) {
	res := contracts.GitHubAppSetupResult{
		Valid:              false,
		AppID:              1234,
		PermissionsOK:      false,
		MissingPermissions: contracts.MissingPermissions(map[string]string{"metadata": "read"}),
		Errors:             []string{"missing permissions"},
	}
	require.NoError(t, contracts.CheckGitHubAppSetupResult(res))

	res.Errors = nil
	ve, ok := contracts.AsValidationError(contracts.CheckGitHubAppSetupResult(res))
	require.True(t, ok)
	assert.Equal(t, "errors", ve.Path)
}
