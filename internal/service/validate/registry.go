package validate

import (
	"slices"
	"strings"

	"github.com/limerclaw/shared-types/contracts"
)

// Shape is one named contract guard.
type Shape struct {
	Name  string            `json:"name"`
	Group string            `json:"group"`
	Check func(v any) error `json:"-"`
}

// Groups follow the contract business areas.
const (
	GroupRelay        = "relay"
	GroupAPI          = "api"
	GroupDB           = "db"
	GroupAgents       = "agents"
	GroupRuntime      = "runtime"
	GroupAutomation   = "automation"
	GroupRun          = "run"
	GroupReporter     = "reporter"
	GroupControlPlane = "control_plane"
	GroupTrust        = "trust"
	GroupTelemetry    = "telemetry"
	GroupDashboard    = "dashboard"
	GroupSetup        = "setup"
	GroupDeployment   = "deployment"
)

var registry = []Shape{
	{"envelope", GroupRelay, contracts.CheckEnvelope},
	{"relay_control_message", GroupRelay, contracts.CheckRelayControlMessage},

	{"device_register_request", GroupAPI, contracts.CheckDeviceRegisterRequest},
	{"node_register_request", GroupAPI, contracts.CheckNodeRegisterRequest},
	{"node_heartbeat_request", GroupAPI, contracts.CheckNodeHeartbeatRequest},
	{"pairing_create_request", GroupAPI, contracts.CheckPairingCreateRequest},
	{"pairing_resolve_request", GroupAPI, contracts.CheckPairingResolveRequest},
	{"pairing_confirm_request", GroupAPI, contracts.CheckPairingConfirmRequest},
	{"nodes_list_response", GroupAPI, contracts.CheckNodesListResponse},
	{"push_notify_request", GroupAPI, contracts.CheckPushNotifyRequest},
	{"node_agent_sync_request", GroupAPI, contracts.CheckNodeAgentSyncRequest},
	{"api_error_response", GroupAPI, contracts.CheckApiErrorResponse},

	{"limerclaw_node_row", GroupDB, contracts.CheckNodeRow},
	{"limerclaw_device_row", GroupDB, contracts.CheckDeviceRow},
	{"limerclaw_pairing_session_row", GroupDB, contracts.CheckPairingSessionRow},
	{"limerclaw_pairing_row", GroupDB, contracts.CheckPairingRow},
	{"limerclaw_node_agent_row", GroupDB, contracts.CheckNodeAgentRow},

	{"agent_info", GroupAgents, contracts.CheckAgentInfo},
	{"agent_create_request", GroupAgents, contracts.CheckAgentCreateRequest},
	{"agent_update_request", GroupAgents, contracts.CheckAgentUpdateRequest},
	{"decrypted_payload", GroupAgents, contracts.CheckDecryptedPayload},

	{"runtime_state_transition_event", GroupRuntime, contracts.CheckRuntimeStateTransitionEvent},
	{"runtime_state_snapshot", GroupRuntime, contracts.CheckRuntimeStateSnapshot},

	{"agent_config", GroupAutomation, contracts.CheckAgentConfig},
	{"provider_manifest", GroupAutomation, contracts.CheckProviderManifest},

	{"finding", GroupRun, contracts.CheckFinding},
	{"artifact", GroupRun, contracts.CheckArtifact},
	{"run_telemetry", GroupRun, contracts.CheckRunTelemetry},
	{"run_request", GroupRun, contracts.CheckRunRequest},
	{"run_result", GroupRun, contracts.CheckRunResult},
	{"run_heartbeat", GroupRun, contracts.CheckRunHeartbeat},
	{"run_dispatch", GroupRun, contracts.CheckRunDispatch},

	{"reporter_output", GroupReporter, contracts.CheckReporterOutput},

	{"github_app_installation", GroupControlPlane, contracts.CheckGitHubAppInstallation},
	{"agent_definition", GroupControlPlane, contracts.CheckAgentDefinition},
	{"agent_trigger", GroupControlPlane, contracts.CheckAgentTrigger},
	{"control_plane_run_request", GroupControlPlane, contracts.CheckControlPlaneRunRequest},
	{"run_execution", GroupControlPlane, contracts.CheckRunExecution},
	{"org_policy", GroupControlPlane, contracts.CheckOrgPolicy},
	{"runner_poll_request", GroupControlPlane, contracts.CheckRunnerPollRequest},
	{"runner_poll_response", GroupControlPlane, contracts.CheckRunnerPollResponse},
	{"run_claim_request", GroupControlPlane, contracts.CheckRunClaimRequest},
	{"run_claim_response", GroupControlPlane, contracts.CheckRunClaimResponse},
	{"run_complete_request", GroupControlPlane, contracts.CheckRunCompleteRequest},
	{"run_fail_request", GroupControlPlane, contracts.CheckRunFailRequest},
	{"normalized_event", GroupControlPlane, contracts.CheckNormalizedEvent},
	{"dispatch_result", GroupControlPlane, contracts.CheckDispatchResult},
	{"policy_decision", GroupControlPlane, contracts.CheckPolicyDecision},

	{"trust_score", GroupTrust, contracts.CheckTrustScore},
	{"action_classification", GroupTrust, contracts.CheckActionClassification},
	{"autonomy_gate_result", GroupTrust, contracts.CheckAutonomyGateResult},
	{"agent_approval_request", GroupTrust, contracts.CheckAgentApprovalRequest},
	{"agent_memory_entry", GroupTrust, contracts.CheckAgentMemoryEntry},

	{"severity_breakdown", GroupTelemetry, contracts.CheckSeverityBreakdown},
	{"hotspot_entry", GroupTelemetry, contracts.CheckHotspotEntry},
	{"agent_telemetry_record", GroupTelemetry, contracts.CheckAgentTelemetryRecord},
	{"telemetry_daily_rollup", GroupTelemetry, contracts.CheckTelemetryDailyRollup},
	{"telemetry_weekly_rollup", GroupTelemetry, contracts.CheckTelemetryWeeklyRollup},
	{"weekly_digest", GroupTelemetry, contracts.CheckWeeklyDigest},
	{"dispatch_condition", GroupTelemetry, contracts.CheckDispatchCondition},
	{"agent_dispatch_rule", GroupTelemetry, contracts.CheckAgentDispatchRule},
	{"agent_dispatch_result", GroupTelemetry, contracts.CheckAgentDispatchResult},
	{"automation_pack_manifest", GroupTelemetry, contracts.CheckAutomationPackManifest},
	{"pack_install_request", GroupTelemetry, contracts.CheckPackInstallRequest},
	{"pack_install_result", GroupTelemetry, contracts.CheckPackInstallResult},

	{"dashboard_run_summary", GroupDashboard, contracts.CheckDashboardRunSummary},
	{"dashboard_agent_status", GroupDashboard, contracts.CheckDashboardAgentStatus},
	{"dashboard_telemetry_summary", GroupDashboard, contracts.CheckDashboardTelemetrySummary},
	{"dashboard_digest_view", GroupDashboard, contracts.CheckDashboardDigestView},
	{"dashboard_dispatch_chain", GroupDashboard, contracts.CheckDashboardDispatchChain},
	{"dashboard_health_status", GroupDashboard, contracts.CheckDashboardHealthStatus},

	{"setup_status", GroupSetup, contracts.CheckSetupStatus},
	{"onboarding_step", GroupSetup, contracts.CheckOnboardingStep},
	{"runner_bootstrap_token", GroupSetup, contracts.CheckRunnerBootstrapToken},
	{"setup_diagnostic", GroupSetup, contracts.CheckSetupDiagnostic},
	{"github_app_setup_request", GroupSetup, contracts.CheckGitHubAppSetupRequest},
	{"github_app_setup_result", GroupSetup, contracts.CheckGitHubAppSetupResult},
	{"setup_validation_result", GroupSetup, contracts.CheckSetupValidationResult},
	{"health_check_result", GroupSetup, contracts.CheckHealthCheckResult},

	{"compose_config", GroupDeployment, contracts.CheckComposeConfig},
	{"self_hosted_validation_result", GroupDeployment, contracts.CheckSelfHostedValidationResult},
	{"provider_key_mapping", GroupDeployment, contracts.CheckProviderKeyMapping},
	{"runner_provider_config", GroupDeployment, contracts.CheckRunnerProviderConfig},
	{"provider_validation_result", GroupDeployment, contracts.CheckProviderValidationResult},
}

// Shapes returns every registered shape sorted by name.
func Shapes() []Shape {
	out := slices.Clone(registry)
	slices.SortFunc(out, func(a, b Shape) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Lookup finds a shape by name.
func Lookup(name string) (Shape, bool) {
	i := slices.IndexFunc(registry, func(s Shape) bool { return s.Name == name })
	if i < 0 {
		return Shape{}, false
	}
	return registry[i], true
}

// Names returns the sorted shape names.
func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.Name
	}
	slices.Sort(names)
	return names
}

// Groups returns the sorted, distinct shape groups.
func Groups() []string {
	var groups []string
	for _, s := range registry {
		if !slices.Contains(groups, s.Group) {
			groups = append(groups, s.Group)
		}
	}
	slices.Sort(groups)
	return groups
}

// InGroup returns the shapes of one group sorted by name.
func InGroup(group string) []Shape {
	var out []Shape
	for _, s := range Shapes() {
		if s.Group == group {
			out = append(out, s)
		}
	}
	return out
}
