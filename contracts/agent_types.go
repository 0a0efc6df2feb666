package contracts

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// AgentKind distinguishes the always-present boss agent from user agents.
type AgentKind string

const (
	AgentKindBoss       AgentKind = "boss"
	AgentKindPersistent AgentKind = "persistent"
	AgentKindOnDemand   AgentKind = "on-demand"
)

var agentKinds = []AgentKind{AgentKindBoss, AgentKindPersistent, AgentKindOnDemand}

func AgentKinds() []AgentKind   { return slices.Clone(agentKinds) }
func (k AgentKind) Valid() bool { return slices.Contains(agentKinds, k) }
func IsAgentKind(v any) bool    { return member(agentKinds, v) }

type AgentStatus string

const (
	AgentStatusActive  AgentStatus = "active"
	AgentStatusPaused  AgentStatus = "paused"
	AgentStatusStopped AgentStatus = "stopped"
)

var agentStatuses = []AgentStatus{AgentStatusActive, AgentStatusPaused, AgentStatusStopped}

func AgentStatuses() []AgentStatus { return slices.Clone(agentStatuses) }
func (s AgentStatus) Valid() bool  { return slices.Contains(agentStatuses, s) }
func IsAgentStatus(v any) bool     { return member(agentStatuses, v) }

type ExecutionMode string

const (
	ExecutionRunToCompletion ExecutionMode = "run-to-completion"
	ExecutionInteractive     ExecutionMode = "interactive"
)

var executionModes = []ExecutionMode{ExecutionRunToCompletion, ExecutionInteractive}

func ExecutionModes() []ExecutionMode { return slices.Clone(executionModes) }
func (m ExecutionMode) Valid() bool   { return slices.Contains(executionModes, m) }
func IsExecutionMode(v any) bool      { return member(executionModes, v) }

// AgentEventType is an entry kind in an agent's event log.
type AgentEventType string

const (
	AgentEventCreated              AgentEventType = "agent_created"
	AgentEventStarted              AgentEventType = "agent_started"
	AgentEventStopped              AgentEventType = "agent_stopped"
	AgentEventPaused               AgentEventType = "agent_paused"
	AgentEventRunStarted           AgentEventType = "run_started"
	AgentEventRunCompleted         AgentEventType = "run_completed"
	AgentEventRunFailed            AgentEventType = "run_failed"
	AgentEventInteractiveWaiting   AgentEventType = "interactive_waiting"
	AgentEventInteractiveResponded AgentEventType = "interactive_responded"
)

var agentEventTypes = []AgentEventType{
	AgentEventCreated,
	AgentEventStarted,
	AgentEventStopped,
	AgentEventPaused,
	AgentEventRunStarted,
	AgentEventRunCompleted,
	AgentEventRunFailed,
	AgentEventInteractiveWaiting,
	AgentEventInteractiveResponded,
}

func AgentEventTypes() []AgentEventType { return slices.Clone(agentEventTypes) }
func (e AgentEventType) Valid() bool    { return slices.Contains(agentEventTypes, e) }
func IsAgentEventType(v any) bool       { return member(agentEventTypes, v) }

type AgentInfo struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Kind                AgentKind     `json:"kind"`
	Status              AgentStatus   `json:"status"`
	Description         *string       `json:"description"`
	DefaultWorkflowPath *string       `json:"default_workflow_path"`
	ExecutionMode       ExecutionMode `json:"execution_mode"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

type AgentCreateRequest struct {
	Name                string         `json:"name"`
	Kind                AgentKind      `json:"kind"`
	Description         *string        `json:"description,omitempty"`
	DefaultWorkflowPath *string        `json:"default_workflow_path,omitempty"`
	ExecutionMode       *ExecutionMode `json:"execution_mode,omitempty"`
}

type AgentCreateResponse struct {
	Agent AgentInfo `json:"agent"`
}

// AgentUpdateRequest is a partial update; absent fields are left unchanged.
type AgentUpdateRequest struct {
	Name                *string        `json:"name,omitempty"`
	Description         *string        `json:"description,omitempty"`
	DefaultWorkflowPath *string        `json:"default_workflow_path,omitempty"`
	ExecutionMode       *ExecutionMode `json:"execution_mode,omitempty"`
	Status              *AgentStatus   `json:"status,omitempty"`
}

// DecryptedMessageType discriminates the payload sealed inside an envelope.
type DecryptedMessageType string

const (
	MessageChat                DecryptedMessageType = "chat"
	MessageInteractivePrompt   DecryptedMessageType = "interactive_prompt"
	MessageInteractiveResponse DecryptedMessageType = "interactive_response"
	MessageAgentEvent          DecryptedMessageType = "agent_event"
	MessageApprovalRequest     DecryptedMessageType = "approval_request"
	MessageApprovalResponse    DecryptedMessageType = "approval_response"
)

var decryptedMessageTypes = []DecryptedMessageType{
	MessageChat,
	MessageInteractivePrompt,
	MessageInteractiveResponse,
	MessageAgentEvent,
	MessageApprovalRequest,
	MessageApprovalResponse,
}

func DecryptedMessageTypes() []DecryptedMessageType { return slices.Clone(decryptedMessageTypes) }
func (t DecryptedMessageType) Valid() bool          { return slices.Contains(decryptedMessageTypes, t) }
func IsDecryptedMessageType(v any) bool             { return member(decryptedMessageTypes, v) }

// ApprovalDecision is the user's answer to a tool approval prompt.
type ApprovalDecision string

const (
	DecisionApproved        ApprovalDecision = "approved"
	DecisionDenied          ApprovalDecision = "denied"
	DecisionApprovedSession ApprovalDecision = "approved_session"
)

var approvalDecisions = []ApprovalDecision{DecisionApproved, DecisionDenied, DecisionApprovedSession}

func ApprovalDecisions() []ApprovalDecision { return slices.Clone(approvalDecisions) }
func (d ApprovalDecision) Valid() bool      { return slices.Contains(approvalDecisions, d) }
func IsApprovalDecision(v any) bool         { return member(approvalDecisions, v) }

// DecryptedPayload is one of the message structs below. MessageType reports
// the value carried in the payload's "type" field.
type DecryptedPayload interface {
	MessageType() DecryptedMessageType
}

type ChatMessage struct {
	Type    DecryptedMessageType `json:"type"`
	Text    string               `json:"text"`
	AgentID *string              `json:"agent_id,omitempty"`
}

type InteractivePrompt struct {
	Type     DecryptedMessageType `json:"type"`
	AgentID  string               `json:"agent_id"`
	PromptID string               `json:"prompt_id"`
	Question string               `json:"question"`
	Context  *string              `json:"context,omitempty"`
	Options  []string             `json:"options,omitempty"`
}

type InteractiveResponse struct {
	Type     DecryptedMessageType `json:"type"`
	AgentID  string               `json:"agent_id"`
	PromptID string               `json:"prompt_id"`
	Response string               `json:"response"`
}

type AgentEvent struct {
	Type      DecryptedMessageType `json:"type"`
	AgentID   string               `json:"agent_id"`
	Event     AgentEventType       `json:"event"`
	RunID     *string              `json:"run_id,omitempty"`
	Data      map[string]any       `json:"data,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

// ApprovalRequest asks the paired device to allow a tool call.
type ApprovalRequest struct {
	Type        DecryptedMessageType `json:"type"`
	ApprovalID  string               `json:"approval_id"`
	AgentID     *string              `json:"agent_id,omitempty"`
	Description string               `json:"description"`
	ToolName    *string              `json:"tool_name,omitempty"`
	ToolInput   map[string]any       `json:"tool_input,omitempty"`
}

type ApprovalResponse struct {
	Type       DecryptedMessageType `json:"type"`
	ApprovalID string               `json:"approval_id"`
	Decision   ApprovalDecision     `json:"decision"`
}

func (ChatMessage) MessageType() DecryptedMessageType         { return MessageChat }
func (InteractivePrompt) MessageType() DecryptedMessageType   { return MessageInteractivePrompt }
func (InteractiveResponse) MessageType() DecryptedMessageType { return MessageInteractiveResponse }
func (AgentEvent) MessageType() DecryptedMessageType          { return MessageAgentEvent }
func (ApprovalRequest) MessageType() DecryptedMessageType     { return MessageApprovalRequest }
func (ApprovalResponse) MessageType() DecryptedMessageType    { return MessageApprovalResponse }

func checkAgentInfo(c *checker) {
	c.str("id")
	c.str("name")
	c.required("kind", "agent kind", IsAgentKind)
	c.required("status", "agent status", IsAgentStatus)
	c.nullStr("description")
	c.nullStr("default_workflow_path")
	c.required("execution_mode", "execution mode", IsExecutionMode)
	c.timestamp("created_at")
	c.timestamp("updated_at")
}

func CheckAgentInfo(v any) error { return check("agent_info", v, checkAgentInfo) }

func checkAgentCreateRequest(c *checker) {
	c.str("name")
	c.required("kind", "agent kind", IsAgentKind)
	c.optStr("description")
	c.optStr("default_workflow_path")
	c.optional("execution_mode", "execution mode", IsExecutionMode)
}

func CheckAgentCreateRequest(v any) error {
	return check("agent_create_request", v, checkAgentCreateRequest)
}

func checkAgentUpdateRequest(c *checker) {
	c.optStr("name")
	c.optStr("description")
	c.optStr("default_workflow_path")
	c.optional("execution_mode", "execution mode", IsExecutionMode)
	c.optional("status", "agent status", IsAgentStatus)
}

func CheckAgentUpdateRequest(v any) error {
	return check("agent_update_request", v, checkAgentUpdateRequest)
}

// literal requires field to equal want exactly.
func (c *checker) literal(field string, want DecryptedMessageType) {
	c.required(field, fmt.Sprintf("%q", want), func(v any) bool { return v == string(want) })
}

func checkChatMessage(c *checker) {
	c.literal("type", MessageChat)
	c.str("text")
	c.optStr("agent_id")
}

func checkInteractivePrompt(c *checker) {
	c.literal("type", MessageInteractivePrompt)
	c.str("agent_id")
	c.str("prompt_id")
	c.str("question")
	c.optStr("context")
	c.optStrs("options")
}

func checkInteractiveResponse(c *checker) {
	c.literal("type", MessageInteractiveResponse)
	c.str("agent_id")
	c.str("prompt_id")
	c.str("response")
}

func checkAgentEvent(c *checker) {
	c.literal("type", MessageAgentEvent)
	c.str("agent_id")
	c.required("event", "agent event type", IsAgentEventType)
	c.optStr("run_id")
	c.optObject("data")
	c.timestamp("timestamp")
}

func checkApprovalRequest(c *checker) {
	c.literal("type", MessageApprovalRequest)
	c.str("approval_id")
	c.optStr("agent_id")
	c.str("description")
	c.optStr("tool_name")
	c.optObject("tool_input")
}

func checkApprovalResponse(c *checker) {
	c.literal("type", MessageApprovalResponse)
	c.str("approval_id")
	c.required("decision", "approval decision", IsApprovalDecision)
}

var decryptedShapes = map[DecryptedMessageType]shapeFunc{
	MessageChat:                checkChatMessage,
	MessageInteractivePrompt:   checkInteractivePrompt,
	MessageInteractiveResponse: checkInteractiveResponse,
	MessageAgentEvent:          checkAgentEvent,
	MessageApprovalRequest:     checkApprovalRequest,
	MessageApprovalResponse:    checkApprovalResponse,
}

func checkDecryptedPayload(c *checker) {
	c.required("type", "decrypted message type", IsDecryptedMessageType)
	if c.err != nil {
		return
	}
	decryptedShapes[DecryptedMessageType(c.strValue("type"))](c)
}

// CheckDecryptedPayload validates a plaintext envelope payload against the
// shape selected by its "type" field.
func CheckDecryptedPayload(v any) error {
	return check("decrypted_payload", v, checkDecryptedPayload)
}

func IsDecryptedPayload(v any) bool { return CheckDecryptedPayload(v) == nil }

// DecodeDecryptedPayload parses a decrypted envelope body into its concrete
// payload struct.
func DecodeDecryptedPayload(data []byte) (DecryptedPayload, error) {
	var head struct {
		Type DecryptedMessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("contracts: decode decrypted payload: %w", err)
	}
	switch head.Type {
	case MessageChat:
		return decodePayload[ChatMessage](data)
	case MessageInteractivePrompt:
		return decodePayload[InteractivePrompt](data)
	case MessageInteractiveResponse:
		return decodePayload[InteractiveResponse](data)
	case MessageAgentEvent:
		return decodePayload[AgentEvent](data)
	case MessageApprovalRequest:
		return decodePayload[ApprovalRequest](data)
	case MessageApprovalResponse:
		return decodePayload[ApprovalResponse](data)
	}
	return nil, fmt.Errorf("%w: decrypted payload type %q", ErrUnknownMessage, head.Type)
}

func decodePayload[T DecryptedPayload](data []byte) (DecryptedPayload, error) {
	p, err := decode[T](data, CheckDecryptedPayload)
	if err != nil {
		return nil, err
	}
	return p, nil
}
