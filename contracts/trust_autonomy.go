package contracts

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// TrustComponent holds the five 0-1 inputs to a trust score, each computed
// over a rolling 30-day window.
type TrustComponent struct {
	Accuracy    float64 `json:"accuracy"`    // inverse of the false positive rate
	Reliability float64 `json:"reliability"` // run success rate
	Safety      float64 `json:"safety"`
	Usefulness  float64 `json:"usefulness"` // inverse of the override rate
	Consistency float64 `json:"consistency"`
}

// TrustScore is an agent's weighted composite score and the autonomy level
// it currently earns.
type TrustScore struct {
	AgentDefinitionID string         `json:"agent_definition_id"`
	InstallationID    int64          `json:"installation_id"`
	Score             float64        `json:"score"`
	Components        TrustComponent `json:"components"`
	EffectiveLevel    AutonomyLevel  `json:"effective_level"`
	RunCount30d       int            `json:"run_count_30d"`
	LastCalculatedAt  time.Time      `json:"last_calculated_at"`
}

// ActionCategory groups gated actions by how much autonomy they need.
type ActionCategory string

const (
	ActionObserve ActionCategory = "observe" // run workflows, collect findings
	ActionComment ActionCategory = "comment" // PR comments and check results
	ActionSuggest ActionCategory = "suggest" // PR change suggestions
	ActionCommit  ActionCategory = "commit"  // push to feature branches
	ActionApprove ActionCategory = "approve" // approve or request changes
)

var actionCategories = []ActionCategory{ActionObserve, ActionComment, ActionSuggest, ActionCommit, ActionApprove}

func ActionCategories() []ActionCategory { return slices.Clone(actionCategories) }
func (a ActionCategory) Valid() bool     { return slices.Contains(actionCategories, a) }
func IsActionCategory(v any) bool        { return member(actionCategories, v) }

var actionRequiredLevel = map[ActionCategory]AutonomyLevel{
	ActionObserve: AutonomyL0,
	ActionComment: AutonomyL1,
	ActionSuggest: AutonomyL2,
	ActionCommit:  AutonomyL3,
	ActionApprove: AutonomyL4,
}

// ActionRequiredLevel returns a copy of the category to minimum level table.
func ActionRequiredLevel() map[ActionCategory]AutonomyLevel {
	return maps.Clone(actionRequiredLevel)
}

// RequiredLevel returns the minimum autonomy level for a category.
func RequiredLevel(category ActionCategory) (AutonomyLevel, bool) {
	l, ok := actionRequiredLevel[category]
	return l, ok
}

// Permits reports whether an agent at level may take actions of category
// without approval. Unknown categories are never permitted.
func Permits(level AutonomyLevel, category ActionCategory) bool {
	required, ok := actionRequiredLevel[category]
	return ok && level.AtLeast(required)
}

type ActionClassification struct {
	Action        string         `json:"action"` // e.g. "push_commit"
	Category      ActionCategory `json:"category"`
	RequiredLevel AutonomyLevel  `json:"required_level"`
	Description   string         `json:"description"`
}

// Classify builds an ActionClassification with the category's required level.
func Classify(action string, category ActionCategory, description string) (ActionClassification, error) {
	required, ok := RequiredLevel(category)
	if !ok {
		return ActionClassification{}, fmt.Errorf("%w: action category %q", ErrInvalid, category)
	}
	return ActionClassification{
		Action:        action,
		Category:      category,
		RequiredLevel: required,
		Description:   description,
	}, nil
}

type AutonomyGateResult struct {
	Allowed          bool                 `json:"allowed"`
	Action           ActionClassification `json:"action"`
	AgentLevel       AutonomyLevel        `json:"agent_level"`
	TrustScore       float64              `json:"trust_score"`
	RequiresApproval bool                 `json:"requires_approval"`
	ApprovalID       *string              `json:"approval_id,omitempty"`
	Reason           string               `json:"reason"`
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalDenied   ApprovalStatus = "denied"
	ApprovalTimedOut ApprovalStatus = "timed_out"
)

var approvalStatuses = []ApprovalStatus{ApprovalPending, ApprovalApproved, ApprovalDenied, ApprovalTimedOut}

func ApprovalStatuses() []ApprovalStatus { return slices.Clone(approvalStatuses) }
func (s ApprovalStatus) Valid() bool     { return slices.Contains(approvalStatuses, s) }
func IsApprovalStatus(v any) bool        { return member(approvalStatuses, v) }

// Terminal reports whether the approval has been resolved.
func (s ApprovalStatus) Terminal() bool { return s.Valid() && s != ApprovalPending }

// ApprovalTimeoutDefault is what happens when nobody answers in time.
// TimeoutApproveL0 is recorded as-is; no gating behavior is attached to it
// here.
type ApprovalTimeoutDefault string

const (
	TimeoutDeny      ApprovalTimeoutDefault = "deny"
	TimeoutApproveL0 ApprovalTimeoutDefault = "approve_l0"
)

var approvalTimeoutDefaults = []ApprovalTimeoutDefault{TimeoutDeny, TimeoutApproveL0}

func ApprovalTimeoutDefaults() []ApprovalTimeoutDefault { return slices.Clone(approvalTimeoutDefaults) }
func (d ApprovalTimeoutDefault) Valid() bool            { return slices.Contains(approvalTimeoutDefaults, d) }
func IsApprovalTimeoutDefault(v any) bool               { return member(approvalTimeoutDefaults, v) }

type ApprovalChannel string

const (
	ChannelGitHub  ApprovalChannel = "github"
	ChannelMobile  ApprovalChannel = "mobile"
	ChannelTimeout ApprovalChannel = "timeout"
)

var approvalChannels = []ApprovalChannel{ChannelGitHub, ChannelMobile, ChannelTimeout}

func ApprovalChannels() []ApprovalChannel { return slices.Clone(approvalChannels) }
func (c ApprovalChannel) Valid() bool     { return slices.Contains(approvalChannels, c) }
func IsApprovalChannel(v any) bool        { return member(approvalChannels, v) }

// AgentApprovalRequest: pending -> approved | denied | timed_out.
type AgentApprovalRequest struct {
	ID                string                 `json:"id"`
	AgentDefinitionID string                 `json:"agent_definition_id"`
	RunRequestID      string                 `json:"run_request_id"`
	InstallationID    int64                  `json:"installation_id"`
	RepoFullName      string                 `json:"repo_full_name"`
	PRNumber          *int                   `json:"pr_number,omitempty"`
	Action            ActionClassification   `json:"action"`
	AgentName         string                 `json:"agent_name"`
	TrustScore        float64                `json:"trust_score"`
	ContextSummary    string                 `json:"context_summary"`
	Status            ApprovalStatus         `json:"status"`
	TimeoutSeconds    int                    `json:"timeout_seconds"`
	DefaultOnTimeout  ApprovalTimeoutDefault `json:"default_on_timeout"`
	CreatedAt         time.Time              `json:"created_at"`
	ResolvedAt        *time.Time             `json:"resolved_at,omitempty"`
	ResolvedBy        *string                `json:"resolved_by,omitempty"`
	ResolutionChannel *ApprovalChannel       `json:"resolution_channel,omitempty"`
}

// Deadline is when a pending request times out.
func (r AgentApprovalRequest) Deadline() time.Time {
	return r.CreatedAt.Add(time.Duration(r.TimeoutSeconds) * time.Second)
}

// AgentMemoryEntry is one learned fact an agent keeps per repo, such as
// "false_positives" or "learned_patterns".
type AgentMemoryEntry struct {
	ID                string     `json:"id"`
	AgentDefinitionID string     `json:"agent_definition_id"`
	InstallationID    int64      `json:"installation_id"`
	RepoFullName      string     `json:"repo_full_name"`
	MemoryKey         string     `json:"memory_key"`
	MemoryValue       any        `json:"memory_value"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}

func checkTrustComponent(c *checker) {
	c.fraction("accuracy")
	c.fraction("reliability")
	c.fraction("safety")
	c.fraction("usefulness")
	c.fraction("consistency")
}

func checkTrustScore(c *checker) {
	c.str("agent_definition_id")
	c.integer("installation_id")
	c.fraction("score")
	c.nested("components", checkTrustComponent)
	c.required("effective_level", "autonomy level", IsAutonomyLevel)
	c.count("run_count_30d")
	c.timestamp("last_calculated_at")
}

// CheckTrustScore validates a trust score, including that the score and every
// component lie in [0, 1].
func CheckTrustScore(v any) error { return check("trust_score", v, checkTrustScore) }

func checkActionClassification(c *checker) {
	c.str("action")
	c.required("category", "action category", IsActionCategory)
	c.required("required_level", "autonomy level", IsAutonomyLevel)
	c.str("description")
	if c.err != nil {
		return
	}
	want, _ := RequiredLevel(ActionCategory(c.strValue("category")))
	if AutonomyLevel(c.strValue("required_level")) != want {
		c.fail("required_level", "expected "+string(want)+" for category")
	}
}

func CheckActionClassification(v any) error {
	return check("action_classification", v, checkActionClassification)
}

func checkAutonomyGateResult(c *checker) {
	c.boolean("allowed")
	c.nested("action", checkActionClassification)
	c.required("agent_level", "autonomy level", IsAutonomyLevel)
	c.fraction("trust_score")
	c.boolean("requires_approval")
	c.optStr("approval_id")
	c.str("reason")
}

func CheckAutonomyGateResult(v any) error {
	return check("autonomy_gate_result", v, checkAutonomyGateResult)
}

func checkAgentApprovalRequest(c *checker) {
	c.str("id")
	c.str("agent_definition_id")
	c.str("run_request_id")
	c.integer("installation_id")
	c.str("repo_full_name")
	c.optional("pr_number", "non-negative integer", isCount)
	c.nested("action", checkActionClassification)
	c.str("agent_name")
	c.fraction("trust_score")
	c.str("context_summary")
	c.required("status", "approval status", IsApprovalStatus)
	c.count("timeout_seconds")
	c.required("default_on_timeout", "approval timeout default", IsApprovalTimeoutDefault)
	c.timestamp("created_at")
	c.optTimestamp("resolved_at")
	c.optStr("resolved_by")
	c.optional("resolution_channel", "approval channel", IsApprovalChannel)
}

func CheckAgentApprovalRequest(v any) error {
	return check("agent_approval_request", v, checkAgentApprovalRequest)
}

func checkAgentMemoryEntry(c *checker) {
	c.str("id")
	c.str("agent_definition_id")
	c.integer("installation_id")
	c.str("repo_full_name")
	c.str("memory_key")
	c.required("memory_value", "any JSON value", func(any) bool { return true })
	c.timestamp("created_at")
	c.timestamp("updated_at")
	c.optTimestamp("expires_at")
}

func CheckAgentMemoryEntry(v any) error {
	return check("agent_memory_entry", v, checkAgentMemoryEntry)
}
