package contracts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limerclaw/shared-types/contracts"
)

func TestRequiredLevelCoversEveryCategory(t *testing.T) {
	table := contracts.ActionRequiredLevel()
	require.Len(t, table, len(contracts.ActionCategories()))
	for _, cat := range contracts.ActionCategories() {
		level, ok := contracts.RequiredLevel(cat)
		require.True(t, ok, "no level for %q", cat)
		assert.True(t, level.Valid())
		assert.Equal(t, table[cat], level)
	}
	_, ok := contracts.RequiredLevel("deploy")
	assert.False(t, ok)
}

func TestPermits(t *testing.T) {
	tests := []struct {
		name     string
		level    contracts.AutonomyLevel
		category contracts.ActionCategory
		want     bool
	}{
		{"L0 observes", contracts.AutonomyL0, contracts.ActionObserve, true},
		{"L0 cannot comment", contracts.AutonomyL0, contracts.ActionComment, false},
		{"L2 suggests", contracts.AutonomyL2, contracts.ActionSuggest, true},
		{"L2 cannot commit", contracts.AutonomyL2, contracts.ActionCommit, false},
		{"L3 commits", contracts.AutonomyL3, contracts.ActionCommit, true},
		{"L3 cannot approve", contracts.AutonomyL3, contracts.ActionApprove, false},
		{"L4 approves", contracts.AutonomyL4, contracts.ActionApprove, true},
		{"unknown category", contracts.AutonomyL4, contracts.ActionCategory("deploy"), false},
		{"unknown level", contracts.AutonomyLevel("L9"), contracts.ActionObserve, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contracts.Permits(tt.level, tt.category))
		})
	}
}

func TestClassify(t *testing.T) {
	c, err := contracts.Classify("push_commit", contracts.ActionCommit, "push a fix to the PR branch")
	require.NoError(t, err)
	assert.Equal(t, contracts.AutonomyL3, c.RequiredLevel)
	require.NoError(t, contracts.CheckActionClassification(c))

	_, err = contracts.Classify("deploy", "deploy", "ship to production")
	require.ErrorIs(t, err, contracts.ErrInvalid)

	c.RequiredLevel = contracts.AutonomyL1
	ve, ok := contracts.AsValidationError(contracts.CheckActionClassification(c))
	require.True(t, ok)
	assert.Equal(t, "required_level", ve.Path)
}

func TestCheckTrustScore(t *testing.T) {
	score := contracts.TrustScore{
		AgentDefinitionID: "agent-1",
		InstallationID:    42,
		Score:             0.81,
		Components: contracts.TrustComponent{
			Accuracy: 0.9, Reliability: 0.95, Safety: 1, Usefulness: 0.6, Consistency: 0,
		},
		EffectiveLevel:   contracts.AutonomyL2,
		RunCount30d:      57,
		LastCalculatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, contracts.CheckTrustScore(score))

	score.Components.Safety = 1.01
	ve, ok := contracts.AsValidationError(contracts.CheckTrustScore(score))
	require.True(t, ok)
	assert.Equal(t, "components.safety", ve.Path)

	score.Components.Safety = 1
	score.Score = -0.1
	ve, ok = contracts.AsValidationError(contracts.CheckTrustScore(score))
	require.True(t, ok)
	assert.Equal(t, "score", ve.Path)
}

func TestApprovalRequestDeadline(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	action, err := contracts.Classify("push_commit", contracts.ActionCommit, "push fix")
	require.NoError(t, err)
	req := contracts.AgentApprovalRequest{
		ID:                "ap-1",
		AgentDefinitionID: "agent-1",
		RunRequestID:      "run-1",
		InstallationID:    42,
		RepoFullName:      "limeriq/limeriq",
		PRNumber:          ptr(17),
		Action:            action,
		AgentName:         "pr-guard",
		TrustScore:        0.64,
		ContextSummary:    "lint fix on a failing check",
		Status:            contracts.ApprovalPending,
		TimeoutSeconds:    1800,
		DefaultOnTimeout:  contracts.TimeoutDeny,
		CreatedAt:         created,
	}
	assert.Equal(t, created.Add(30*time.Minute), req.Deadline())
	require.NoError(t, contracts.CheckAgentApprovalRequest(req))

	channel := contracts.ChannelMobile
	req.Status = contracts.ApprovalApproved
	req.ResolvedAt = ptr(created.Add(time.Minute))
	req.ResolvedBy = ptr("octocat")
	req.ResolutionChannel = &channel
	require.NoError(t, contracts.CheckAgentApprovalRequest(req))

	req.DefaultOnTimeout = "approve_all"
	ve, ok := contracts.AsValidationError(contracts.CheckAgentApprovalRequest(req))
	require.True(t, ok)
	assert.Equal(t, "default_on_timeout", ve.Path)
}
