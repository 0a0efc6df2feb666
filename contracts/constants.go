package contracts

import (
	"fmt"
	"slices"
	"time"
)

// Relay and pairing limits. The relay, node and mobile clients read these as
// configuration; nothing in this module enforces them at runtime except
// ParseRelayMessage, which rejects frames above MaxEnvelopeBytes.
const (
	// ProtocolVersion is the envelope framing version. Incremented on breaking changes.
	ProtocolVersion = 1

	// MaxEnvelopeBytes bounds a single relay frame (64 KB).
	MaxEnvelopeBytes = 65_536

	// MaxBacklogCount is the number of envelopes a relay room retains for offline peers.
	MaxBacklogCount = 100

	// BacklogTTLSeconds is how long a backlogged envelope is kept (5 minutes).
	BacklogTTLSeconds = 300

	// MaxMsgsPerMinute is the relay rate limit per sender.
	MaxMsgsPerMinute = 60

	PairingSessionTTLMinutes = 10

	HeartbeatIntervalSeconds = 30

	// BossAgentID addresses the boss agent; envelopes without agent_id go there.
	BossAgentID = "boss"
)

// RelayLimits bundles the relay constants so consumers can carry them as one
// configuration value.
type RelayLimits struct {
	MaxEnvelopeBytes  int           `json:"max_envelope_bytes"`
	MaxBacklogCount   int           `json:"max_backlog_count"`
	BacklogTTL        time.Duration `json:"backlog_ttl"`
	MaxMsgsPerMinute  int           `json:"max_msgs_per_minute"`
	PairingSessionTTL time.Duration `json:"pairing_session_ttl"`
	HeartbeatInterval time.Duration `json:"heartbeat_interval"`
}

// DefaultRelayLimits returns the protocol's fixed limits.
func DefaultRelayLimits() RelayLimits {
	return RelayLimits{
		MaxEnvelopeBytes:  MaxEnvelopeBytes,
		MaxBacklogCount:   MaxBacklogCount,
		BacklogTTL:        BacklogTTLSeconds * time.Second,
		MaxMsgsPerMinute:  MaxMsgsPerMinute,
		PairingSessionTTL: PairingSessionTTLMinutes * time.Minute,
		HeartbeatInterval: HeartbeatIntervalSeconds * time.Second,
	}
}

// Validate checks that every limit is positive.
func (l RelayLimits) Validate() error {
	switch {
	case l.MaxEnvelopeBytes <= 0:
		return fmt.Errorf("contracts: relay limits: max_envelope_bytes must be positive")
	case l.MaxBacklogCount <= 0:
		return fmt.Errorf("contracts: relay limits: max_backlog_count must be positive")
	case l.BacklogTTL <= 0:
		return fmt.Errorf("contracts: relay limits: backlog_ttl must be positive")
	case l.MaxMsgsPerMinute <= 0:
		return fmt.Errorf("contracts: relay limits: max_msgs_per_minute must be positive")
	case l.PairingSessionTTL <= 0:
		return fmt.Errorf("contracts: relay limits: pairing_session_ttl must be positive")
	case l.HeartbeatInterval <= 0:
		return fmt.Errorf("contracts: relay limits: heartbeat_interval must be positive")
	}
	return nil
}

// EventType is a push-notification shoulder tap. The push carries only the
// event type and an opaque id; details travel encrypted through the relay.
type EventType string

const (
	EventApprovalPending   EventType = "approval_pending"
	EventMessageReceived   EventType = "message_received"
	EventRunCompleted      EventType = "run_completed"
	EventRunFailed         EventType = "run_failed"
	EventNodeStatusChanged EventType = "node_status_changed"
	EventConfigChanged     EventType = "config_changed"
)

var eventTypes = []EventType{
	EventApprovalPending,
	EventMessageReceived,
	EventRunCompleted,
	EventRunFailed,
	EventNodeStatusChanged,
	EventConfigChanged,
}

// AllowedEventTypes returns the event types accepted for push notifications.
func AllowedEventTypes() []EventType { return slices.Clone(eventTypes) }
func (e EventType) Valid() bool      { return slices.Contains(eventTypes, e) }
func IsEventType(v any) bool         { return member(eventTypes, v) }

// NodeMode says whether a node runs on the user's machine or is hosted.
type NodeMode string

const (
	NodeModeLocal  NodeMode = "local"
	NodeModeHosted NodeMode = "hosted"
)

var nodeModes = []NodeMode{NodeModeLocal, NodeModeHosted}

func NodeModes() []NodeMode    { return slices.Clone(nodeModes) }
func (m NodeMode) Valid() bool { return slices.Contains(nodeModes, m) }
func IsNodeMode(v any) bool    { return member(nodeModes, v) }

type NodeStatus string

const (
	NodeStatusActive   NodeStatus = "active"
	NodeStatusDisabled NodeStatus = "disabled"
	NodeStatusPending  NodeStatus = "pending"
)

var nodeStatuses = []NodeStatus{NodeStatusActive, NodeStatusDisabled, NodeStatusPending}

func NodeStatuses() []NodeStatus { return slices.Clone(nodeStatuses) }
func (s NodeStatus) Valid() bool { return slices.Contains(nodeStatuses, s) }
func IsNodeStatus(v any) bool    { return member(nodeStatuses, v) }

type DeviceStatus string

const (
	DeviceStatusActive  DeviceStatus = "active"
	DeviceStatusRevoked DeviceStatus = "revoked"
)

var deviceStatuses = []DeviceStatus{DeviceStatusActive, DeviceStatusRevoked}

func DeviceStatuses() []DeviceStatus { return slices.Clone(deviceStatuses) }
func (s DeviceStatus) Valid() bool   { return slices.Contains(deviceStatuses, s) }
func IsDeviceStatus(v any) bool      { return member(deviceStatuses, v) }

type DeviceType string

const (
	DeviceTypeIOS     DeviceType = "ios"
	DeviceTypeAndroid DeviceType = "android"
)

var deviceTypes = []DeviceType{DeviceTypeIOS, DeviceTypeAndroid}

func DeviceTypes() []DeviceType  { return slices.Clone(deviceTypes) }
func (t DeviceType) Valid() bool { return slices.Contains(deviceTypes, t) }
func IsDeviceType(v any) bool    { return member(deviceTypes, v) }

// PairingSessionStatus tracks a short-lived pairing code.
type PairingSessionStatus string

const (
	PairingSessionPending   PairingSessionStatus = "pending"
	PairingSessionConfirmed PairingSessionStatus = "confirmed"
	PairingSessionExpired   PairingSessionStatus = "expired"
	PairingSessionCanceled  PairingSessionStatus = "canceled"
)

var pairingSessionStatuses = []PairingSessionStatus{
	PairingSessionPending,
	PairingSessionConfirmed,
	PairingSessionExpired,
	PairingSessionCanceled,
}

func PairingSessionStatuses() []PairingSessionStatus { return slices.Clone(pairingSessionStatuses) }
func (s PairingSessionStatus) Valid() bool           { return slices.Contains(pairingSessionStatuses, s) }
func IsPairingSessionStatus(v any) bool              { return member(pairingSessionStatuses, v) }

// PairingStatus tracks an established device-node pairing.
type PairingStatus string

const (
	PairingActive  PairingStatus = "active"
	PairingRevoked PairingStatus = "revoked"
)

var pairingStatuses = []PairingStatus{PairingActive, PairingRevoked}

func PairingStatuses() []PairingStatus { return slices.Clone(pairingStatuses) }
func (s PairingStatus) Valid() bool    { return slices.Contains(pairingStatuses, s) }
func IsPairingStatus(v any) bool       { return member(pairingStatuses, v) }

type EncryptionScheme string

const (
	EncryptionSodiumSessionV1 EncryptionScheme = "sodium-session-v1"
)

var encryptionSchemes = []EncryptionScheme{EncryptionSodiumSessionV1}

func EncryptionSchemes() []EncryptionScheme { return slices.Clone(encryptionSchemes) }
func (s EncryptionScheme) Valid() bool      { return slices.Contains(encryptionSchemes, s) }
func IsEncryptionScheme(v any) bool         { return member(encryptionSchemes, v) }

// PeerKind identifies which side of a pairing sent or receives an envelope.
type PeerKind string

const (
	PeerDevice PeerKind = "device"
	PeerNode   PeerKind = "node"
)

var peerKinds = []PeerKind{PeerDevice, PeerNode}

func PeerKinds() []PeerKind    { return slices.Clone(peerKinds) }
func (k PeerKind) Valid() bool { return slices.Contains(peerKinds, k) }
func IsPeerKind(v any) bool    { return member(peerKinds, v) }

// RelayControlType is the type of a non-envelope relay frame.
type RelayControlType string

const (
	RelayPing             RelayControlType = "ping"
	RelayPong             RelayControlType = "pong"
	RelayBacklogTruncated RelayControlType = "backlog_truncated"
	RelayError            RelayControlType = "error"
	RelayConnectChallenge RelayControlType = "connect_challenge"
	RelayConnectAuth      RelayControlType = "connect_auth"
	RelayConnectAck       RelayControlType = "connect_ack"
)

var relayControlTypes = []RelayControlType{
	RelayPing,
	RelayPong,
	RelayBacklogTruncated,
	RelayError,
	RelayConnectChallenge,
	RelayConnectAuth,
	RelayConnectAck,
}

func RelayControlTypes() []RelayControlType { return slices.Clone(relayControlTypes) }
func (t RelayControlType) Valid() bool      { return slices.Contains(relayControlTypes, t) }
func IsRelayControlType(v any) bool         { return member(relayControlTypes, v) }

// RunConclusionEnum is the relay-side copy of the run outcome set. It must
// carry exactly the values of RunConclusion.
type RunConclusionEnum string

const (
	RunConclusionEnumPass    RunConclusionEnum = "pass"
	RunConclusionEnumWarn    RunConclusionEnum = "warn"
	RunConclusionEnumFail    RunConclusionEnum = "fail"
	RunConclusionEnumError   RunConclusionEnum = "error"
	RunConclusionEnumSkipped RunConclusionEnum = "skipped"
)

var runConclusionEnums = []RunConclusionEnum{
	RunConclusionEnumPass,
	RunConclusionEnumWarn,
	RunConclusionEnumFail,
	RunConclusionEnumError,
	RunConclusionEnumSkipped,
}

func RunConclusionEnums() []RunConclusionEnum { return slices.Clone(runConclusionEnums) }
func (c RunConclusionEnum) Valid() bool       { return slices.Contains(runConclusionEnums, c) }
func IsRunConclusionEnum(v any) bool          { return member(runConclusionEnums, v) }

// SdlcTriggerEvent is the relay-side copy of the trigger event set. It must
// carry exactly the values of TriggerEventType.
type SdlcTriggerEvent string

const (
	SdlcPullRequest      SdlcTriggerEvent = "pull_request"
	SdlcIssueComment     SdlcTriggerEvent = "issue_comment"
	SdlcPush             SdlcTriggerEvent = "push"
	SdlcSchedule         SdlcTriggerEvent = "schedule"
	SdlcWorkflowDispatch SdlcTriggerEvent = "workflow_dispatch"
	SdlcAgentCompleted   SdlcTriggerEvent = "agent_completed"
)

var sdlcTriggerEvents = []SdlcTriggerEvent{
	SdlcPullRequest,
	SdlcIssueComment,
	SdlcPush,
	SdlcSchedule,
	SdlcWorkflowDispatch,
	SdlcAgentCompleted,
}

func SdlcTriggerEvents() []SdlcTriggerEvent { return slices.Clone(sdlcTriggerEvents) }
func (e SdlcTriggerEvent) Valid() bool      { return slices.Contains(sdlcTriggerEvents, e) }
func IsSdlcTriggerEvent(v any) bool         { return member(sdlcTriggerEvents, v) }
