package contracts

import "maps"

// EnumSets returns every closed string set in the package keyed by its
// snake_case name. Each call returns fresh slices.
func EnumSets() map[string][]string {
	return map[string][]string{
		"event_type":                     Strings(eventTypes),
		"node_mode":                      Strings(nodeModes),
		"node_status":                    Strings(nodeStatuses),
		"device_status":                  Strings(deviceStatuses),
		"device_type":                    Strings(deviceTypes),
		"pairing_session_status":         Strings(pairingSessionStatuses),
		"pairing_status":                 Strings(pairingStatuses),
		"encryption_scheme":              Strings(encryptionSchemes),
		"peer_kind":                      Strings(peerKinds),
		"relay_control_type":             Strings(relayControlTypes),
		"run_conclusion_enum":            Strings(runConclusionEnums),
		"sdlc_trigger_event":             Strings(sdlcTriggerEvents),
		"agent_kind":                     Strings(agentKinds),
		"agent_status":                   Strings(agentStatuses),
		"execution_mode":                 Strings(executionModes),
		"agent_event_type":               Strings(agentEventTypes),
		"decrypted_message_type":         Strings(decryptedMessageTypes),
		"approval_decision":              Strings(approvalDecisions),
		"runtime_state_component":        Strings(runtimeStateComponents),
		"space_runtime_state":            Strings(spaceRuntimeStates),
		"agent_runtime_state":            Strings(agentRuntimeStates),
		"session_runtime_state":          Strings(sessionRuntimeStates),
		"node_identity_runtime_state":    Strings(nodeIdentityRuntimeStates),
		"relay_connection_runtime_state": Strings(relayConnectionRuntimeStates),
		"runtime_transition_status":      Strings(runtimeTransitionStatuses),
		"agent_runner_target":            Strings(agentRunnerTargets),
		"trigger_event_type":             Strings(triggerEventTypes),
		"autonomy_level":                 Strings(autonomyLevels),
		"run_conclusion":                 Strings(runConclusions),
		"finding_severity":               Strings(findingSeverities),
		"artifact_type":                  Strings(artifactTypes),
		"github_check_conclusion":        Strings(githubConclusionValues),
		"annotation_level":               Strings(annotationLevels),
		"run_request_status":             Strings(runRequestStatuses),
		"execution_status":               Strings(executionStatuses),
		"dispatch_outcome":               Strings(dispatchOutcomes),
		"action_category":                Strings(actionCategories),
		"approval_status":                Strings(approvalStatuses),
		"approval_timeout_default":       Strings(approvalTimeoutDefaults),
		"approval_channel":               Strings(approvalChannels),
		"risk_trend":                     Strings(riskTrends),
		"dispatch_condition_type":        Strings(dispatchConditionTypes),
		"dispatch_operator":              Strings(dispatchOperators),
		"pack_category":                  Strings(packCategories),
		"setup_step_id":                  Strings(setupStepIds),
		"deployment_profile":             Strings(deploymentProfiles),
		"trust_level":                    Strings(trustLevels),
		"account_type":                   Strings(accountTypes),
		"repository_selection":           Strings(repositorySelections),
		"ssl_mode":                       Strings(sslModes),
		"onboarding_status":              Strings(onboardingStatuses),
		"dashboard_run_status":           Strings(dashboardRunStatuses),
		"diagnostic_category":            Strings(diagnosticCategories),
		"diagnostic_severity":            Strings(diagnosticSeverities),
	}
}

// Catalog is the read-only table of protocol constants and lookup tables
// that tools publish alongside the shapes.
type Catalog struct {
	ProtocolVersion          int                                     `json:"protocol_version"`
	MaxEnvelopeBytes         int                                     `json:"max_envelope_bytes"`
	MaxBacklogCount          int                                     `json:"max_backlog_count"`
	BacklogTTLSeconds        int                                     `json:"backlog_ttl_seconds"`
	MaxMsgsPerMinute         int                                     `json:"max_msgs_per_minute"`
	PairingSessionTTLMinutes int                                     `json:"pairing_session_ttl_minutes"`
	HeartbeatIntervalSeconds int                                     `json:"heartbeat_interval_seconds"`
	BossAgentID              string                                  `json:"boss_agent_id"`
	ActionRequiredLevel      map[ActionCategory]AutonomyLevel        `json:"action_required_level"`
	GitHubConclusionMap      map[RunConclusion]GitHubCheckConclusion `json:"github_conclusion_map"`
	ManualReviewBenchmarksMS map[string]int64                        `json:"manual_review_benchmarks_ms"`
	GitHubAppPermissions     map[string]string                       `json:"github_app_permissions"`
	DefaultWebhookEvents     []string                                `json:"default_webhook_events"`
	ProviderMappings         map[string]ProviderKeyMapping           `json:"provider_mappings"`
	PersistedTables          []TableSpec                             `json:"persisted_tables"`
}

// NewCatalog returns a Catalog filled from the package tables. The maps and
// slices are copies and may be modified by the caller.
func NewCatalog() Catalog {
	return Catalog{
		ProtocolVersion:          ProtocolVersion,
		MaxEnvelopeBytes:         MaxEnvelopeBytes,
		MaxBacklogCount:          MaxBacklogCount,
		BacklogTTLSeconds:        BacklogTTLSeconds,
		MaxMsgsPerMinute:         MaxMsgsPerMinute,
		PairingSessionTTLMinutes: PairingSessionTTLMinutes,
		HeartbeatIntervalSeconds: HeartbeatIntervalSeconds,
		BossAgentID:              BossAgentID,
		ActionRequiredLevel:      ActionRequiredLevel(),
		GitHubConclusionMap:      maps.Clone(githubCheckConclusions),
		ManualReviewBenchmarksMS: ManualReviewBenchmarksMS(),
		GitHubAppPermissions:     RequiredGitHubAppPermissions(),
		DefaultWebhookEvents:     DefaultWebhookEvents(),
		ProviderMappings:         DefaultProviderMappings(),
		PersistedTables:          PersistedTables(),
	}
}
