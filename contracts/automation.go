package contracts

import (
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// AgentRunnerTarget is where an agent's workflow executes.
type AgentRunnerTarget string

const (
	RunnerGitHubActions AgentRunnerTarget = "github_actions"
	RunnerSelfHosted    AgentRunnerTarget = "self_hosted"
	RunnerLocal         AgentRunnerTarget = "local"
)

var agentRunnerTargets = []AgentRunnerTarget{RunnerGitHubActions, RunnerSelfHosted, RunnerLocal}

func AgentRunnerTargets() []AgentRunnerTarget { return slices.Clone(agentRunnerTargets) }
func (t AgentRunnerTarget) Valid() bool       { return slices.Contains(agentRunnerTargets, t) }
func IsAgentRunnerTarget(v any) bool          { return member(agentRunnerTargets, v) }

// TriggerEventType is an SDLC event that can start an agent run.
// SdlcTriggerEvent must carry the same values.
type TriggerEventType string

const (
	TriggerPullRequest      TriggerEventType = "pull_request"
	TriggerIssueComment     TriggerEventType = "issue_comment"
	TriggerPush             TriggerEventType = "push"
	TriggerSchedule         TriggerEventType = "schedule"
	TriggerWorkflowDispatch TriggerEventType = "workflow_dispatch"
	TriggerAgentCompleted   TriggerEventType = "agent_completed"
)

var triggerEventTypes = []TriggerEventType{
	TriggerPullRequest,
	TriggerIssueComment,
	TriggerPush,
	TriggerSchedule,
	TriggerWorkflowDispatch,
	TriggerAgentCompleted,
}

func TriggerEventTypes() []TriggerEventType { return slices.Clone(triggerEventTypes) }
func (e TriggerEventType) Valid() bool      { return slices.Contains(triggerEventTypes, e) }
func IsTriggerEventType(v any) bool         { return member(triggerEventTypes, v) }

// AutonomyLevel is an ordered permission tier. Higher levels allow more
// automated actions without human approval.
type AutonomyLevel string

const (
	AutonomyL0 AutonomyLevel = "L0"
	AutonomyL1 AutonomyLevel = "L1"
	AutonomyL2 AutonomyLevel = "L2"
	AutonomyL3 AutonomyLevel = "L3"
	AutonomyL4 AutonomyLevel = "L4"
)

// autonomyLevels is in ascending order; Rank depends on it.
var autonomyLevels = []AutonomyLevel{AutonomyL0, AutonomyL1, AutonomyL2, AutonomyL3, AutonomyL4}

func AutonomyLevels() []AutonomyLevel { return slices.Clone(autonomyLevels) }
func (l AutonomyLevel) Valid() bool   { return slices.Contains(autonomyLevels, l) }
func IsAutonomyLevel(v any) bool      { return member(autonomyLevels, v) }

// Rank returns the level's position (L0 is 0), or -1 for an unknown level.
func (l AutonomyLevel) Rank() int {
	return slices.Index(autonomyLevels, l)
}

// AtLeast reports whether l is at or above floor. Unknown levels never qualify.
func (l AutonomyLevel) AtLeast(floor AutonomyLevel) bool {
	return l.Rank() >= 0 && floor.Rank() >= 0 && l.Rank() >= floor.Rank()
}

// MinLevel returns the lower of two levels. An unknown level is treated as
// below L0 and is returned as is.
func MinLevel(a, b AutonomyLevel) AutonomyLevel {
	if a.Rank() <= b.Rank() {
		return a
	}
	return b
}

type TriggerConfig struct {
	Event        TriggerEventType `json:"event"`
	Actions      []string         `json:"actions,omitempty"`
	Paths        []string         `json:"paths,omitempty"`
	PathsExclude []string         `json:"paths_exclude,omitempty"`
	Pattern      *string          `json:"pattern,omitempty"`
	Cron         *string          `json:"cron,omitempty"`
}

type AutonomyConfig struct {
	InitialLevel AutonomyLevel `json:"initial_level"`
	MaxLevel     AutonomyLevel `json:"max_level"`
	// TrustThreshold is the trust score (0-1) required to escalate.
	TrustThreshold *float64 `json:"trust_threshold,omitempty"`
}

type ConcurrencyConfig struct {
	Group            string `json:"group"`
	CancelInProgress bool   `json:"cancel_in_progress"`
}

type ReportingConfig struct {
	GitHubCheck bool    `json:"github_check"`
	PRComment   bool    `json:"pr_comment"`
	CheckName   *string `json:"check_name,omitempty"`
}

type RunnerConfig struct {
	Target         AgentRunnerTarget  `json:"target"`
	TimeoutMinutes int                `json:"timeout_minutes"`
	Concurrency    *ConcurrencyConfig `json:"concurrency,omitempty"`
}

// AgentConfig is the declarative definition of an agent, usually authored as
// YAML next to its workflow.
type AgentConfig struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Triggers    []TriggerConfig `json:"triggers"`
	Runner      RunnerConfig    `json:"runner"`
	Autonomy    AutonomyConfig  `json:"autonomy"`
	Reporting   ReportingConfig `json:"reporting"`
	Memory      map[string]any  `json:"memory,omitempty"`
}

// ProviderManifest describes how a runner invokes an LLM provider's CLI.
type ProviderManifest struct {
	ProviderID      string   `json:"provider_id"`
	CLICommand      string   `json:"cli_command"`
	RequiredSecrets []string `json:"required_secrets"`
	AuthMode        string   `json:"auth_mode"`
}

func checkTriggerConfig(c *checker) {
	c.required("event", "trigger event type", IsTriggerEventType)
	c.optStrs("actions")
	c.optStrs("paths")
	c.optStrs("paths_exclude")
	c.optStr("pattern")
	c.optStr("cron")
}

func checkAutonomyConfig(c *checker) {
	c.required("initial_level", "autonomy level", IsAutonomyLevel)
	c.required("max_level", "autonomy level", IsAutonomyLevel)
	c.optional("trust_threshold", "number between 0 and 1", isFraction)
	if c.err != nil {
		return
	}
	initial := AutonomyLevel(c.strValue("initial_level"))
	if !AutonomyLevel(c.strValue("max_level")).AtLeast(initial) {
		c.fail("max_level", "must not be below initial_level")
	}
}

func checkConcurrencyConfig(c *checker) {
	c.str("group")
	c.boolean("cancel_in_progress")
}

func checkReportingConfig(c *checker) {
	c.boolean("github_check")
	c.boolean("pr_comment")
	c.optStr("check_name")
}

func checkRunnerConfig(c *checker) {
	c.required("target", "agent runner target", IsAgentRunnerTarget)
	c.count("timeout_minutes")
	c.optNested("concurrency", checkConcurrencyConfig)
}

func checkAgentConfig(c *checker) {
	c.str("name")
	c.str("description")
	c.list("triggers", checkTriggerConfig)
	c.nested("runner", checkRunnerConfig)
	c.nested("autonomy", checkAutonomyConfig)
	c.nested("reporting", checkReportingConfig)
	c.optObject("memory")
}

func CheckAgentConfig(v any) error { return check("agent_config", v, checkAgentConfig) }
func IsAgentConfig(v any) bool     { return CheckAgentConfig(v) == nil }

func checkProviderManifest(c *checker) {
	c.str("provider_id")
	c.str("cli_command")
	c.strs("required_secrets")
	c.str("auth_mode")
}

func CheckProviderManifest(v any) error {
	return check("provider_manifest", v, checkProviderManifest)
}

// ParseAgentConfig reads an agent config from YAML or JSON and validates it.
func ParseAgentConfig(data []byte) (AgentConfig, error) {
	return parseDocument[AgentConfig](data, CheckAgentConfig)
}

// parseDocument decodes a YAML (or JSON, which YAML accepts) document through
// the JSON checker so both formats get identical validation.
func parseDocument[T any](data []byte, checkFn func(any) error) (T, error) {
	var zero T
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return zero, fmt.Errorf("contracts: parse document: %w", err)
	}
	if doc == nil {
		return zero, fmt.Errorf("contracts: parse document: empty document")
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("contracts: parse document: %w", err)
	}
	return decode[T](asJSON, checkFn)
}
