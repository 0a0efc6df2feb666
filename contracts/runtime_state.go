package contracts

import (
	"slices"
	"time"
)

// Node runtime state, as reported by a node for diagnostics. Transitions are
// decided by the node; these types only describe what it records.

type RuntimeStateComponent string

const (
	ComponentSpace           RuntimeStateComponent = "space"
	ComponentAgent           RuntimeStateComponent = "agent"
	ComponentSession         RuntimeStateComponent = "session"
	ComponentNodeIdentity    RuntimeStateComponent = "node_identity"
	ComponentRelayConnection RuntimeStateComponent = "relay_connection"
)

var runtimeStateComponents = []RuntimeStateComponent{
	ComponentSpace,
	ComponentAgent,
	ComponentSession,
	ComponentNodeIdentity,
	ComponentRelayConnection,
}

func RuntimeStateComponents() []RuntimeStateComponent { return slices.Clone(runtimeStateComponents) }
func (c RuntimeStateComponent) Valid() bool           { return slices.Contains(runtimeStateComponents, c) }
func IsRuntimeStateComponent(v any) bool              { return member(runtimeStateComponents, v) }

type SpaceRuntimeState string

const (
	SpaceUninitialized SpaceRuntimeState = "uninitialized"
	SpaceReady         SpaceRuntimeState = "ready"
	SpaceRunning       SpaceRuntimeState = "running"
)

var spaceRuntimeStates = []SpaceRuntimeState{SpaceUninitialized, SpaceReady, SpaceRunning}

func SpaceRuntimeStates() []SpaceRuntimeState { return slices.Clone(spaceRuntimeStates) }
func (s SpaceRuntimeState) Valid() bool       { return slices.Contains(spaceRuntimeStates, s) }
func IsSpaceRuntimeState(v any) bool          { return member(spaceRuntimeStates, v) }

type AgentRuntimeState string

const (
	AgentRuntimeNone  AgentRuntimeState = "none"
	AgentRuntimeBound AgentRuntimeState = "bound"
)

var agentRuntimeStates = []AgentRuntimeState{AgentRuntimeNone, AgentRuntimeBound}

func AgentRuntimeStates() []AgentRuntimeState { return slices.Clone(agentRuntimeStates) }
func (s AgentRuntimeState) Valid() bool       { return slices.Contains(agentRuntimeStates, s) }
func IsAgentRuntimeState(v any) bool          { return member(agentRuntimeStates, v) }

type SessionRuntimeState string

const (
	SessionIdle   SessionRuntimeState = "idle"
	SessionActive SessionRuntimeState = "active"
)

var sessionRuntimeStates = []SessionRuntimeState{SessionIdle, SessionActive}

func SessionRuntimeStates() []SessionRuntimeState { return slices.Clone(sessionRuntimeStates) }
func (s SessionRuntimeState) Valid() bool         { return slices.Contains(sessionRuntimeStates, s) }
func IsSessionRuntimeState(v any) bool            { return member(sessionRuntimeStates, v) }

type NodeIdentityRuntimeState string

const (
	NodeIdentityUnknown       NodeIdentityRuntimeState = "unknown"
	NodeIdentityLoaded        NodeIdentityRuntimeState = "loaded"
	NodeIdentityRegistering   NodeIdentityRuntimeState = "registering"
	NodeIdentityRegistered    NodeIdentityRuntimeState = "registered"
	NodeIdentityStaleDetected NodeIdentityRuntimeState = "stale_detected"
)

var nodeIdentityRuntimeStates = []NodeIdentityRuntimeState{
	NodeIdentityUnknown,
	NodeIdentityLoaded,
	NodeIdentityRegistering,
	NodeIdentityRegistered,
	NodeIdentityStaleDetected,
}

func NodeIdentityRuntimeStates() []NodeIdentityRuntimeState {
	return slices.Clone(nodeIdentityRuntimeStates)
}
func (s NodeIdentityRuntimeState) Valid() bool { return slices.Contains(nodeIdentityRuntimeStates, s) }
func IsNodeIdentityRuntimeState(v any) bool    { return member(nodeIdentityRuntimeStates, v) }

type RelayConnectionRuntimeState string

const (
	RelayStateDisconnected RelayConnectionRuntimeState = "disconnected"
	RelayStateConnecting   RelayConnectionRuntimeState = "connecting"
	RelayStateConnected    RelayConnectionRuntimeState = "connected"
	RelayStateDegraded     RelayConnectionRuntimeState = "degraded"
)

var relayConnectionRuntimeStates = []RelayConnectionRuntimeState{
	RelayStateDisconnected,
	RelayStateConnecting,
	RelayStateConnected,
	RelayStateDegraded,
}

func RelayConnectionRuntimeStates() []RelayConnectionRuntimeState {
	return slices.Clone(relayConnectionRuntimeStates)
}
func (s RelayConnectionRuntimeState) Valid() bool {
	return slices.Contains(relayConnectionRuntimeStates, s)
}
func IsRelayConnectionRuntimeState(v any) bool { return member(relayConnectionRuntimeStates, v) }

type RuntimeTransitionStatus string

const (
	TransitionApplied  RuntimeTransitionStatus = "applied"
	TransitionRejected RuntimeTransitionStatus = "rejected"
)

var runtimeTransitionStatuses = []RuntimeTransitionStatus{TransitionApplied, TransitionRejected}

func RuntimeTransitionStatuses() []RuntimeTransitionStatus {
	return slices.Clone(runtimeTransitionStatuses)
}
func (s RuntimeTransitionStatus) Valid() bool { return slices.Contains(runtimeTransitionStatuses, s) }
func IsRuntimeTransitionStatus(v any) bool    { return member(runtimeTransitionStatuses, v) }

// RuntimeStateTransitionEvent records one attempted transition. FromState and
// ToState hold values of the state type matching Component.
type RuntimeStateTransitionEvent struct {
	SpaceID   *string                 `json:"space_id"`
	AgentID   *string                 `json:"agent_id"`
	Component RuntimeStateComponent   `json:"component"`
	FromState string                  `json:"from_state"`
	ToState   string                  `json:"to_state"`
	Status    RuntimeTransitionStatus `json:"status"`
	Reason    *string                 `json:"reason,omitempty"`
	Details   map[string]any          `json:"details,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

type RuntimeStateSnapshot struct {
	Key                  string                      `json:"key"`
	SpaceState           SpaceRuntimeState           `json:"space_state"`
	AgentState           AgentRuntimeState           `json:"agent_state"`
	SessionState         SessionRuntimeState         `json:"session_state"`
	NodeIdentityState    NodeIdentityRuntimeState    `json:"node_identity_state"`
	RelayConnectionState RelayConnectionRuntimeState `json:"relay_connection_state"`
	CurrentAgentID       *string                     `json:"current_agent_id"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

// componentStates maps each component to the guard for its state values.
var componentStates = map[RuntimeStateComponent]func(any) bool{
	ComponentSpace:           IsSpaceRuntimeState,
	ComponentAgent:           IsAgentRuntimeState,
	ComponentSession:         IsSessionRuntimeState,
	ComponentNodeIdentity:    IsNodeIdentityRuntimeState,
	ComponentRelayConnection: IsRelayConnectionRuntimeState,
}

// IsComponentState reports whether state is a valid state of component.
func IsComponentState(component RuntimeStateComponent, state string) bool {
	fn, ok := componentStates[component]
	return ok && fn(state)
}

func checkRuntimeStateTransitionEvent(c *checker) {
	c.nullStr("space_id")
	c.nullStr("agent_id")
	c.required("component", "runtime state component", IsRuntimeStateComponent)
	c.str("from_state")
	c.str("to_state")
	c.required("status", "transition status", IsRuntimeTransitionStatus)
	c.optStr("reason")
	c.optObject("details")
	c.timestamp("created_at")
	if c.err != nil {
		return
	}
	component := RuntimeStateComponent(c.strValue("component"))
	for _, field := range []string{"from_state", "to_state"} {
		if !IsComponentState(component, c.strValue(field)) {
			c.fail(field, "expected "+string(component)+" state")
			return
		}
	}
}

func CheckRuntimeStateTransitionEvent(v any) error {
	return check("runtime_state_transition_event", v, checkRuntimeStateTransitionEvent)
}

func checkRuntimeStateSnapshot(c *checker) {
	c.str("key")
	c.required("space_state", "space state", IsSpaceRuntimeState)
	c.required("agent_state", "agent state", IsAgentRuntimeState)
	c.required("session_state", "session state", IsSessionRuntimeState)
	c.required("node_identity_state", "node identity state", IsNodeIdentityRuntimeState)
	c.required("relay_connection_state", "relay connection state", IsRelayConnectionRuntimeState)
	c.nullStr("current_agent_id")
	c.timestamp("updated_at")
}

func CheckRuntimeStateSnapshot(v any) error {
	return check("runtime_state_snapshot", v, checkRuntimeStateSnapshot)
}
