package contracts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnvelopePeer is the sender or recipient identity inside an envelope.
type EnvelopePeer struct {
	Kind PeerKind `json:"kind"`
	// DeviceID is set when Kind is PeerDevice.
	DeviceID *string `json:"device_id,omitempty"`
}

// EncryptionBlock carries the sealed payload. All byte fields are base64.
type EncryptionBlock struct {
	Scheme     EncryptionScheme `json:"scheme"`
	KeyID      string           `json:"key_id"` // session key id, tracks rotation
	Nonce      string           `json:"nonce"`
	Ciphertext string           `json:"ciphertext"`
	AAD        string           `json:"aad"`
}

// LimerClawEnvelope is the wire format for every device<->node message,
// whether routed through the relay or sent over a direct connection. The
// relay reads routing metadata only and never the ciphertext.
type LimerClawEnvelope struct {
	ProtocolVersion int             `json:"protocol_version"`
	MessageID       string          `json:"message_id"` // ULID or UUID, used for dedup
	SentAt          time.Time       `json:"sent_at"`
	NodeID          string          `json:"node_id"`
	Sender          EnvelopePeer    `json:"sender"`
	Recipient       EnvelopePeer    `json:"recipient"`
	Encryption      EncryptionBlock `json:"encryption"`
	// AgentID targets a specific agent; omitted for the boss agent.
	AgentID *string `json:"agent_id,omitempty"`
	// MessageType is a routing hint such as "chat" or "interactive_prompt".
	MessageType *string `json:"message_type,omitempty"`
}

// RelayControlMessage is any relay frame that is not an envelope. Which
// optional fields are set depends on Type.
type RelayControlMessage struct {
	Type RelayControlType `json:"type"`
	// Message is set for RelayError.
	Message *string `json:"message,omitempty"`
	// DroppedCount is set for RelayBacklogTruncated.
	DroppedCount *int `json:"dropped_count,omitempty"`
	// Nonce is set for connect_challenge and connect_auth.
	Nonce *string `json:"nonce,omitempty"`
	// Ts is set for connect_challenge, connect_auth and connect_ack.
	Ts *int64 `json:"ts,omitempty"`
	// Proof, PeerKind, PeerID and NodeID are set for connect_auth.
	Proof    *string   `json:"proof,omitempty"`
	PeerKind *PeerKind `json:"peer_kind,omitempty"`
	PeerID   *string   `json:"peer_id,omitempty"`
	NodeID   *string   `json:"node_id,omitempty"`
}

// RelayMessage is either a *LimerClawEnvelope or a *RelayControlMessage.
type RelayMessage interface {
	relayMessage()
}

func (*LimerClawEnvelope) relayMessage()   {}
func (*RelayControlMessage) relayMessage() {}

// IsRelayControlMessage reports whether msg is an object with a "type" key and
// no "protocol_version" key. Only key presence is inspected.
func IsRelayControlMessage(msg any) bool {
	m, ok := normalize(msg).(map[string]any)
	if !ok {
		return false
	}
	_, hasType := m["type"]
	_, hasVersion := m["protocol_version"]
	return hasType && !hasVersion
}

// IsEnvelope reports whether msg is an object with both "protocol_version"
// and "encryption" keys. Only key presence is inspected; use CheckEnvelope
// for a full structural check.
func IsEnvelope(msg any) bool {
	m, ok := normalize(msg).(map[string]any)
	if !ok {
		return false
	}
	_, hasVersion := m["protocol_version"]
	_, hasEncryption := m["encryption"]
	return hasVersion && hasEncryption
}

func checkEnvelopePeer(c *checker) {
	c.required("kind", "peer kind", IsPeerKind)
	c.optStr("device_id")
}

func checkEncryptionBlock(c *checker) {
	c.required("scheme", "encryption scheme", IsEncryptionScheme)
	c.str("key_id")
	c.str("nonce")
	c.str("ciphertext")
	c.str("aad")
}

func checkEnvelope(c *checker) {
	c.integer("protocol_version")
	c.str("message_id")
	c.timestamp("sent_at")
	c.str("node_id")
	c.nested("sender", checkEnvelopePeer)
	c.nested("recipient", checkEnvelopePeer)
	c.nested("encryption", checkEncryptionBlock)
	c.optStr("agent_id")
	c.optStr("message_type")
}

// CheckEnvelope validates every field of an envelope. It does not look at
// the protocol version's value; ParseRelayMessage does.
func CheckEnvelope(v any) error  { return check("envelope", v, checkEnvelope) }
func IsValidEnvelope(v any) bool { return CheckEnvelope(v) == nil }

func checkRelayControlMessage(c *checker) {
	c.required("type", "relay control type", IsRelayControlType)
	c.optStr("message")
	c.optional("dropped_count", "non-negative integer", isCount)
	c.optStr("nonce")
	c.optInteger("ts")
	c.optStr("proof")
	c.optional("peer_kind", "peer kind", IsPeerKind)
	c.optStr("peer_id")
	c.optStr("node_id")
}

func CheckRelayControlMessage(v any) error {
	return check("relay_control_message", v, checkRelayControlMessage)
}

// ParseRelayMessage decodes one relay frame. Frames larger than
// MaxEnvelopeBytes are rejected before parsing. The frame is classified
// structurally (see IsEnvelope and IsRelayControlMessage) and then fully
// validated.
func ParseRelayMessage(data []byte) (RelayMessage, error) {
	if len(data) > MaxEnvelopeBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrEnvelopeTooLarge, len(data))
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("contracts: parse relay message: %w", err)
	}
	switch {
	case IsEnvelope(raw):
		env, err := decode[LimerClawEnvelope](data, CheckEnvelope)
		if err != nil {
			return nil, err
		}
		if env.ProtocolVersion > ProtocolVersion || env.ProtocolVersion < 1 {
			return nil, fmt.Errorf("%w: %d", ErrUnsupportedProtocol, env.ProtocolVersion)
		}
		return &env, nil
	case IsRelayControlMessage(raw):
		msg, err := decode[RelayControlMessage](data, CheckRelayControlMessage)
		if err != nil {
			return nil, err
		}
		return &msg, nil
	}
	return nil, ErrUnknownMessage
}

// NewEnvelope builds a current-version envelope with a fresh UUID message id.
func NewEnvelope(nodeID string, sender, recipient EnvelopePeer, enc EncryptionBlock, sentAt time.Time) LimerClawEnvelope {
	return LimerClawEnvelope{
		ProtocolVersion: ProtocolVersion,
		MessageID:       uuid.NewString(),
		SentAt:          sentAt.UTC(),
		NodeID:          nodeID,
		Sender:          sender,
		Recipient:       recipient,
		Encryption:      enc,
	}
}

// TargetAgent returns the addressed agent, defaulting to BossAgentID.
func (e *LimerClawEnvelope) TargetAgent() string {
	if e.AgentID == nil || *e.AgentID == "" {
		return BossAgentID
	}
	return *e.AgentID
}
