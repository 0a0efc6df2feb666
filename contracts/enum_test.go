package contracts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limerclaw/shared-types/contracts"
)

type enumCase struct {
	name   string
	values []string
	is     func(any) bool
}

func enumCases() []enumCase {
	return []enumCase{
		{"event_type", contracts.Strings(contracts.AllowedEventTypes()), contracts.IsEventType},
		{"node_mode", contracts.Strings(contracts.NodeModes()), contracts.IsNodeMode},
		{"node_status", contracts.Strings(contracts.NodeStatuses()), contracts.IsNodeStatus},
		{"device_status", contracts.Strings(contracts.DeviceStatuses()), contracts.IsDeviceStatus},
		{"device_type", contracts.Strings(contracts.DeviceTypes()), contracts.IsDeviceType},
		{"pairing_session_status", contracts.Strings(contracts.PairingSessionStatuses()), contracts.IsPairingSessionStatus},
		{"pairing_status", contracts.Strings(contracts.PairingStatuses()), contracts.IsPairingStatus},
		{"encryption_scheme", contracts.Strings(contracts.EncryptionSchemes()), contracts.IsEncryptionScheme},
		{"peer_kind", contracts.Strings(contracts.PeerKinds()), contracts.IsPeerKind},
		{"relay_control_type", contracts.Strings(contracts.RelayControlTypes()), contracts.IsRelayControlType},
		{"run_conclusion_enum", contracts.Strings(contracts.RunConclusionEnums()), contracts.IsRunConclusionEnum},
		{"sdlc_trigger_event", contracts.Strings(contracts.SdlcTriggerEvents()), contracts.IsSdlcTriggerEvent},
		{"agent_kind", contracts.Strings(contracts.AgentKinds()), contracts.IsAgentKind},
		{"agent_status", contracts.Strings(contracts.AgentStatuses()), contracts.IsAgentStatus},
		{"execution_mode", contracts.Strings(contracts.ExecutionModes()), contracts.IsExecutionMode},
		{"agent_event_type", contracts.Strings(contracts.AgentEventTypes()), contracts.IsAgentEventType},
		{"decrypted_message_type", contracts.Strings(contracts.DecryptedMessageTypes()), contracts.IsDecryptedMessageType},
		{"approval_decision", contracts.Strings(contracts.ApprovalDecisions()), contracts.IsApprovalDecision},
		{"runtime_state_component", contracts.Strings(contracts.RuntimeStateComponents()), contracts.IsRuntimeStateComponent},
		{"space_runtime_state", contracts.Strings(contracts.SpaceRuntimeStates()), contracts.IsSpaceRuntimeState},
		{"agent_runtime_state", contracts.Strings(contracts.AgentRuntimeStates()), contracts.IsAgentRuntimeState},
		{"session_runtime_state", contracts.Strings(contracts.SessionRuntimeStates()), contracts.IsSessionRuntimeState},
		{"node_identity_runtime_state", contracts.Strings(contracts.NodeIdentityRuntimeStates()), contracts.IsNodeIdentityRuntimeState},
		{"relay_connection_runtime_state", contracts.Strings(contracts.RelayConnectionRuntimeStates()), contracts.IsRelayConnectionRuntimeState},
		{"runtime_transition_status", contracts.Strings(contracts.RuntimeTransitionStatuses()), contracts.IsRuntimeTransitionStatus},
		{"agent_runner_target", contracts.Strings(contracts.AgentRunnerTargets()), contracts.IsAgentRunnerTarget},
		{"trigger_event_type", contracts.Strings(contracts.TriggerEventTypes()), contracts.IsTriggerEventType},
		{"autonomy_level", contracts.Strings(contracts.AutonomyLevels()), contracts.IsAutonomyLevel},
		{"run_conclusion", contracts.Strings(contracts.RunConclusions()), contracts.IsRunConclusion},
		{"finding_severity", contracts.Strings(contracts.FindingSeverities()), contracts.IsFindingSeverity},
		{"artifact_type", contracts.Strings(contracts.ArtifactTypes()), contracts.IsArtifactType},
		{"github_check_conclusion", []string{"success", "neutral", "failure", "skipped"}, contracts.IsGitHubCheckConclusion},
		{"annotation_level", contracts.Strings(contracts.AnnotationLevels()), contracts.IsAnnotationLevel},
		{"run_request_status", contracts.Strings(contracts.RunRequestStatuses()), contracts.IsRunRequestStatus},
		{"execution_status", contracts.Strings(contracts.ExecutionStatuses()), contracts.IsExecutionStatus},
		{"dispatch_outcome", contracts.Strings(contracts.DispatchOutcomes()), contracts.IsDispatchOutcome},
		{"action_category", contracts.Strings(contracts.ActionCategories()), contracts.IsActionCategory},
		{"approval_status", contracts.Strings(contracts.ApprovalStatuses()), contracts.IsApprovalStatus},
		{"approval_timeout_default", contracts.Strings(contracts.ApprovalTimeoutDefaults()), contracts.IsApprovalTimeoutDefault},
		{"approval_channel", contracts.Strings(contracts.ApprovalChannels()), contracts.IsApprovalChannel},
		{"risk_trend", contracts.Strings(contracts.RiskTrends()), contracts.IsRiskTrend},
		{"dispatch_condition_type", contracts.Strings(contracts.DispatchConditionTypes()), contracts.IsDispatchConditionType},
		{"dispatch_operator", contracts.Strings(contracts.DispatchOperators()), contracts.IsDispatchOperator},
		{"pack_category", contracts.Strings(contracts.PackCategories()), contracts.IsPackCategory},
		{"setup_step_id", contracts.Strings(contracts.SetupStepIds()), contracts.IsSetupStepId},
		{"deployment_profile", contracts.Strings(contracts.DeploymentProfiles()), contracts.IsDeploymentProfile},
		{"trust_level", []string{"none", "low", "medium", "high"}, contracts.IsTrustLevel},
		{"account_type", []string{"Organization", "User"}, contracts.IsAccountType},
		{"repository_selection", []string{"all", "selected"}, contracts.IsRepositorySelection},
		{"ssl_mode", []string{"disable", "require", "verify-ca", "verify-full"}, contracts.IsSSLMode},
		{"onboarding_status", []string{"pending", "in_progress", "completed", "failed", "skipped"}, contracts.IsOnboardingStatus},
	}
}

func TestEnumValuesAreDistinct(t *testing.T) {
	for _, tc := range enumCases() {
		t.Run(tc.name, func(t *testing.T) {
			require.NotEmpty(t, tc.values)
			seen := make(map[string]bool, len(tc.values))
			for _, v := range tc.values {
				assert.NotEmpty(t, v)
				assert.False(t, seen[v], "duplicate value %q", v)
				seen[v] = true
			}
		})
	}
}

func TestEnumGuardsAcceptExactlyTheirMembers(t *testing.T) {
	nonStrings := []any{nil, 0, 1, 1.5, true, map[string]any{}, []any{}, struct{}{}}

	for _, tc := range enumCases() {
		t.Run(tc.name, func(t *testing.T) {
			for _, v := range tc.values {
				assert.True(t, tc.is(v), "member %q rejected", v)
				assert.False(t, tc.is(v+"_unknown"), "%q accepted", v+"_unknown")
				assert.False(t, tc.is(" "+v), "padded %q accepted", v)
				assert.False(t, tc.is([]any{v}), "array containing %q accepted", v)
			}
			assert.False(t, tc.is(""))
			assert.False(t, tc.is("definitely-not-a-member"))
			for _, v := range nonStrings {
				assert.False(t, tc.is(v), "non-string %#v accepted", v)
			}
		})
	}
}

func TestEnumValuesAreCopies(t *testing.T) {
	levels := contracts.AutonomyLevels()
	levels[0] = "L9"
	assert.Equal(t, contracts.AutonomyL0, contracts.AutonomyLevels()[0])

	events := contracts.AllowedEventTypes()
	events[0] = "bogus"
	assert.True(t, contracts.IsEventType(string(contracts.AllowedEventTypes()[0])))
}

func TestTypedEnumValuesAreAccepted(t *testing.T) {
	assert.True(t, contracts.IsRunConclusion(contracts.ConclusionPass))
	assert.True(t, contracts.IsAutonomyLevel(contracts.AutonomyL3))
	assert.True(t, contracts.ConclusionSkipped.Valid())
	assert.False(t, contracts.RunConclusion("maybe").Valid())
	// A value of a different enum type is not a member, even when the
	// underlying string matches.
	assert.False(t, contracts.IsRunConclusion(contracts.GitHubSkipped))
}

func TestRunConclusionDuplicatesAgree(t *testing.T) {
	assert.ElementsMatch(t,
		contracts.Strings(contracts.RunConclusions()),
		contracts.Strings(contracts.RunConclusionEnums()))
}

func TestTriggerEventDuplicatesAgree(t *testing.T) {
	assert.ElementsMatch(t,
		contracts.Strings(contracts.TriggerEventTypes()),
		contracts.Strings(contracts.SdlcTriggerEvents()))
}

func TestAutonomyLevelOrdering(t *testing.T) {
	levels := contracts.AutonomyLevels()
	for i := 1; i < len(levels); i++ {
		assert.Greater(t, levels[i].Rank(), levels[i-1].Rank(),
			"%q should rank higher than %q", levels[i], levels[i-1])
		assert.True(t, levels[i].AtLeast(levels[i-1]))
		assert.False(t, levels[i-1].AtLeast(levels[i]))
	}
	assert.Equal(t, -1, contracts.AutonomyLevel("L9").Rank())
	assert.False(t, contracts.AutonomyLevel("L9").AtLeast(contracts.AutonomyL0))
	assert.False(t, contracts.AutonomyL4.AtLeast("L9"))

	tests := []struct {
		name string
		a, b contracts.AutonomyLevel
		want contracts.AutonomyLevel
	}{
		{"lower first", contracts.AutonomyL1, contracts.AutonomyL3, contracts.AutonomyL1},
		{"lower second", contracts.AutonomyL4, contracts.AutonomyL2, contracts.AutonomyL2},
		{"equal", contracts.AutonomyL0, contracts.AutonomyL0, contracts.AutonomyL0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contracts.MinLevel(tt.a, tt.b))
		})
	}
}

func TestFindingSeverityRank(t *testing.T) {
	tests := []struct {
		severity contracts.FindingSeverity
		rank     int
	}{
		{contracts.SeverityCritical, 4},
		{contracts.SeverityHigh, 3},
		{contracts.SeverityMedium, 2},
		{contracts.SeverityLow, 1},
		{contracts.SeverityInfo, 0},
		{contracts.FindingSeverity("bogus"), -1},
	}
	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.rank, tt.severity.Rank())
		})
	}
	assert.True(t, contracts.SeverityCritical.AtLeast(contracts.SeverityHigh))
	assert.True(t, contracts.SeverityMedium.AtLeast(contracts.SeverityMedium))
	assert.False(t, contracts.SeverityLow.AtLeast(contracts.SeverityMedium))
	assert.False(t, contracts.FindingSeverity("bogus").AtLeast(contracts.SeverityInfo))
}

func TestTerminalStatuses(t *testing.T) {
	terminal := map[contracts.RunRequestStatus]bool{
		contracts.RunStatusCompleted:  true,
		contracts.RunStatusFailed:     true,
		contracts.RunStatusDeadLetter: true,
	}
	for _, s := range contracts.RunRequestStatuses() {
		assert.Equal(t, terminal[s], s.Terminal(), "Terminal(%q)", s)
	}

	assert.False(t, contracts.ApprovalPending.Terminal())
	for _, s := range contracts.ApprovalStatuses() {
		if s != contracts.ApprovalPending {
			assert.True(t, s.Terminal(), "Terminal(%q)", s)
		}
	}
}

func TestRunConclusionFailed(t *testing.T) {
	for _, c := range contracts.RunConclusions() {
		want := c == contracts.ConclusionFail || c == contracts.ConclusionError
		assert.Equal(t, want, c.Failed(), "Failed(%q)", c)
	}
}
