package contracts

import "time"

// Request and response bodies for the /api/limerclaw/* endpoints.

// POST /api/limerclaw/devices/register

type DeviceRegisterRequest struct {
	DeviceType           DeviceType `json:"device_type"`
	DeviceName           string     `json:"device_name"`
	ExpoPushToken        *string    `json:"expo_push_token"`
	DeviceIdentityPubkey string     `json:"device_identity_pubkey"`
}

type DeviceRegisterResponse struct {
	DeviceID                  string    `json:"device_id"`
	DeviceIdentityFingerprint string    `json:"device_identity_fingerprint"`
	ServerTime                time.Time `json:"server_time"`
}

// POST /api/limerclaw/nodes/register

type NodeRegisterRequest struct {
	Mode            NodeMode       `json:"mode"`
	IdentityPubkey  string         `json:"identity_pubkey"`
	DisplayName     *string        `json:"display_name,omitempty"`
	EndpointURL     *string        `json:"endpoint_url,omitempty"`
	SoftwareVersion *string        `json:"software_version,omitempty"`
	Capabilities    map[string]any `json:"capabilities,omitempty"`
}

type NodeRegisterResponse struct {
	NodeID              string     `json:"node_id"`
	IdentityFingerprint string     `json:"identity_fingerprint"`
	Status              NodeStatus `json:"status"`
	ServerTime          time.Time  `json:"server_time"`
}

// POST /api/limerclaw/nodes/heartbeat

type NodeHeartbeatRequest struct {
	NodeID          string         `json:"node_id"`
	SoftwareVersion *string        `json:"software_version,omitempty"`
	Capabilities    map[string]any `json:"capabilities,omitempty"`
}

type NodeHeartbeatResponse struct {
	Status     NodeStatus `json:"status"`
	ServerTime time.Time  `json:"server_time"`
	// NextHeartbeatSeconds echoes HeartbeatIntervalSeconds unless the server
	// asks the node to back off.
	NextHeartbeatSeconds int `json:"next_heartbeat_seconds"`
}

// POST /api/limerclaw/pairing/create

type PairingCreateRequest struct {
	NodeID string `json:"node_id"`
}

type PairingCreateResponse struct {
	PairingSessionID        string    `json:"pairing_session_id"`
	PairingCode             string    `json:"pairing_code"`
	ExpiresAt               time.Time `json:"expires_at"`
	NodeIdentityFingerprint string    `json:"node_identity_fingerprint"`
}

// POST /api/limerclaw/pairing/resolve

// PairingResolveRequest is sent by a device that scanned or typed a code.
type PairingResolveRequest struct {
	PairingCode string `json:"pairing_code"`
	DeviceID    string `json:"device_id"`
}

type PairingResolveResponse struct {
	PairingSessionID        string    `json:"pairing_session_id"`
	NodeID                  string    `json:"node_id"`
	NodeIdentityFingerprint string    `json:"node_identity_fingerprint"`
	NodeIdentityPubkey      string    `json:"node_identity_pubkey"`
	ExpiresAt               time.Time `json:"expires_at"`
}

// POST /api/limerclaw/pairing/confirm

type PairingConfirmRequest struct {
	PairingSessionID string `json:"pairing_session_id"`
	DeviceID         string `json:"device_id"`
}

// PairingConfirmResponse always carries PairingSessionConfirmed.
type PairingConfirmResponse struct {
	Status PairingSessionStatus `json:"status"`
}

// GET /api/limerclaw/nodes/me

type NodeDirectoryEntry struct {
	NodeID              string         `json:"node_id"`
	Mode                NodeMode       `json:"mode"`
	EndpointURL         *string        `json:"endpoint_url"`
	IdentityFingerprint string         `json:"identity_fingerprint"`
	DisplayName         *string        `json:"display_name"`
	Status              string         `json:"status"`
	SoftwareVersion     *string        `json:"software_version"`
	Capabilities        map[string]any `json:"capabilities"`
	LastSeenAt          *time.Time     `json:"last_seen_at"`
}

type NodesListResponse struct {
	Nodes []NodeDirectoryEntry `json:"nodes"`
}

// POST /api/limerclaw/push/notify

type PushNotifyRequest struct {
	NodeID    string    `json:"node_id"`
	EventType EventType `json:"event_type"`
	OpaqueID  string    `json:"opaque_id"`
}

type PushNotifyResponse struct {
	SentCount   int `json:"sent_count"`
	FailedCount int `json:"failed_count"`
}

// POST /api/limerclaw/nodes/agents/sync

// NodeAgentSyncEntry is one agent as the node currently knows it.
type NodeAgentSyncEntry struct {
	AgentID       string        `json:"agent_id"`
	Name          string        `json:"name"`
	Kind          AgentKind     `json:"kind"`
	Status        AgentStatus   `json:"status"`
	ExecutionMode ExecutionMode `json:"execution_mode"`
}

// NodeAgentSyncRequest replaces the node's agent list; agents missing from
// Agents are removed server-side.
type NodeAgentSyncRequest struct {
	NodeID string               `json:"node_id"`
	Agents []NodeAgentSyncEntry `json:"agents"`
}

type NodeAgentSyncResponse struct {
	UpsertedCount int       `json:"upserted_count"`
	RemovedCount  int       `json:"removed_count"`
	SyncedAt      time.Time `json:"synced_at"`
}

// ApiErrorResponse is the body of every non-2xx response.
type ApiErrorResponse struct {
	Error   string  `json:"error"`
	Details *string `json:"details,omitempty"`
}

func checkDeviceRegisterRequest(c *checker) {
	c.required("device_type", "device type", IsDeviceType)
	c.str("device_name")
	c.nullStr("expo_push_token")
	c.str("device_identity_pubkey")
}

func CheckDeviceRegisterRequest(v any) error {
	return check("device_register_request", v, checkDeviceRegisterRequest)
}

func checkNodeRegisterRequest(c *checker) {
	c.required("mode", "node mode", IsNodeMode)
	c.str("identity_pubkey")
	c.optStr("display_name")
	c.optStr("endpoint_url")
	c.optStr("software_version")
	c.optObject("capabilities")
}

func CheckNodeRegisterRequest(v any) error {
	return check("node_register_request", v, checkNodeRegisterRequest)
}

func checkNodeHeartbeatRequest(c *checker) {
	c.str("node_id")
	c.optStr("software_version")
	c.optObject("capabilities")
}

func CheckNodeHeartbeatRequest(v any) error {
	return check("node_heartbeat_request", v, checkNodeHeartbeatRequest)
}

func checkPairingCreateRequest(c *checker) {
	c.str("node_id")
}

func CheckPairingCreateRequest(v any) error {
	return check("pairing_create_request", v, checkPairingCreateRequest)
}

func checkPairingResolveRequest(c *checker) {
	c.str("pairing_code")
	c.str("device_id")
}

func CheckPairingResolveRequest(v any) error {
	return check("pairing_resolve_request", v, checkPairingResolveRequest)
}

func checkPairingConfirmRequest(c *checker) {
	c.str("pairing_session_id")
	c.str("device_id")
}

func CheckPairingConfirmRequest(v any) error {
	return check("pairing_confirm_request", v, checkPairingConfirmRequest)
}

func checkNodeDirectoryEntry(c *checker) {
	c.str("node_id")
	c.required("mode", "node mode", IsNodeMode)
	c.nullStr("endpoint_url")
	c.str("identity_fingerprint")
	c.nullStr("display_name")
	c.str("status")
	c.nullStr("software_version")
	c.nullObject("capabilities")
	c.nullTimestamp("last_seen_at")
}

func checkNodesListResponse(c *checker) {
	c.list("nodes", checkNodeDirectoryEntry)
}

func CheckNodesListResponse(v any) error {
	return check("nodes_list_response", v, checkNodesListResponse)
}

func checkPushNotifyRequest(c *checker) {
	c.str("node_id")
	c.required("event_type", "allowed event type", IsEventType)
	c.str("opaque_id")
}

func CheckPushNotifyRequest(v any) error {
	return check("push_notify_request", v, checkPushNotifyRequest)
}

func checkNodeAgentSyncEntry(c *checker) {
	c.str("agent_id")
	c.str("name")
	c.required("kind", "agent kind", IsAgentKind)
	c.required("status", "agent status", IsAgentStatus)
	c.required("execution_mode", "execution mode", IsExecutionMode)
}

func checkNodeAgentSyncRequest(c *checker) {
	c.str("node_id")
	c.list("agents", checkNodeAgentSyncEntry)
}

func CheckNodeAgentSyncRequest(v any) error {
	return check("node_agent_sync_request", v, checkNodeAgentSyncRequest)
}

func checkApiErrorResponse(c *checker) {
	c.str("error")
	c.optStr("details")
}

func CheckApiErrorResponse(v any) error {
	return check("api_error_response", v, checkApiErrorResponse)
}
