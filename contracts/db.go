package contracts

import (
	"reflect"
	"slices"
	"strings"
	"time"
)

// Row shapes for the limerclaw_* tables. This module does not read or write
// them; the persistence layer must keep its columns in line with these
// structs, which internal/conformance verifies against a live database.

// LimerClawNodeRow is a row of limerclaw_nodes.
type LimerClawNodeRow struct {
	ID                  string         `json:"id"`
	UserID              string         `json:"user_id"`
	Mode                NodeMode       `json:"mode"`
	Status              NodeStatus     `json:"status"`
	DisplayName         *string        `json:"display_name"`
	EndpointURL         *string        `json:"endpoint_url"`
	IdentityFingerprint string         `json:"identity_fingerprint"`
	IdentityPubkey      string         `json:"identity_pubkey"`
	SoftwareVersion     *string        `json:"software_version"`
	Capabilities        map[string]any `json:"capabilities"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	LastSeenAt          *time.Time     `json:"last_seen_at"`
}

// LimerClawDeviceRow is a row of limerclaw_devices.
type LimerClawDeviceRow struct {
	ID                  string       `json:"id"`
	UserID              string       `json:"user_id"`
	DeviceType          DeviceType   `json:"device_type"`
	DeviceName          string       `json:"device_name"`
	Status              DeviceStatus `json:"status"`
	ExpoPushToken       *string      `json:"expo_push_token"`
	IdentityFingerprint string       `json:"identity_fingerprint"`
	IdentityPubkey      string       `json:"identity_pubkey"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
	LastSeenAt          *time.Time   `json:"last_seen_at"`
}

// LimerClawPairingSessionRow is a row of limerclaw_pairing_sessions. The
// plaintext code is never stored.
type LimerClawPairingSessionRow struct {
	ID              string               `json:"id"`
	UserID          string               `json:"user_id"`
	NodeID          string               `json:"node_id"`
	PairingCodeHash string               `json:"pairing_code_hash"`
	ExpiresAt       time.Time            `json:"expires_at"`
	Status          PairingSessionStatus `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
}

// LimerClawPairingRow is a row of the limerclaw_pairings join table.
type LimerClawPairingRow struct {
	ID       string        `json:"id"`
	DeviceID string        `json:"device_id"`
	NodeID   string        `json:"node_id"`
	UserID   string        `json:"user_id"`
	PairedAt time.Time     `json:"paired_at"`
	Status   PairingStatus `json:"status"`
}

// LimerClawNodeAgentRow is a row of limerclaw_node_agents, maintained by the
// node-agent sync endpoint.
type LimerClawNodeAgentRow struct {
	ID            string        `json:"id"`
	NodeID        string        `json:"node_id"`
	UserID        string        `json:"user_id"`
	AgentID       string        `json:"agent_id"`
	Name          string        `json:"name"`
	Kind          AgentKind     `json:"kind"`
	Status        AgentStatus   `json:"status"`
	ExecutionMode ExecutionMode `json:"execution_mode"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	LastSyncedAt  time.Time     `json:"last_synced_at"`
}

// ColumnKind is the storage-agnostic type family of a column.
type ColumnKind string

const (
	ColumnText      ColumnKind = "text"
	ColumnInteger   ColumnKind = "integer"
	ColumnNumeric   ColumnKind = "numeric"
	ColumnBoolean   ColumnKind = "boolean"
	ColumnTimestamp ColumnKind = "timestamp"
	ColumnJSON      ColumnKind = "json"
	ColumnArray     ColumnKind = "array"
)

// ColumnSpec is one column a persisted row shape requires.
type ColumnSpec struct {
	Name     string     `json:"name"`
	Kind     ColumnKind `json:"kind"`
	Nullable bool       `json:"nullable"`
}

// TableSpec is the column set of one table.
type TableSpec struct {
	Name    string       `json:"name"`
	Columns []ColumnSpec `json:"columns"`
}

// Column returns the ColumnSpec for name.
func (t TableSpec) Column(name string) (ColumnSpec, bool) {
	i := slices.IndexFunc(t.Columns, func(c ColumnSpec) bool { return c.Name == name })
	if i < 0 {
		return ColumnSpec{}, false
	}
	return t.Columns[i], true
}

var persistedRows = []struct {
	table string
	row   any
}{
	{"limerclaw_nodes", LimerClawNodeRow{}},
	{"limerclaw_devices", LimerClawDeviceRow{}},
	{"limerclaw_pairing_sessions", LimerClawPairingSessionRow{}},
	{"limerclaw_pairings", LimerClawPairingRow{}},
	{"limerclaw_node_agents", LimerClawNodeAgentRow{}},
}

// PersistedTables derives the table specs from the row structs: column names
// come from the json tags, nullability from pointer, map and slice fields.
func PersistedTables() []TableSpec {
	out := make([]TableSpec, 0, len(persistedRows))
	for _, r := range persistedRows {
		out = append(out, TableSpecFor(r.table, r.row))
	}
	return out
}

var timeType = reflect.TypeOf(time.Time{})

// TableSpecFor derives a TableSpec from a row struct value.
func TableSpecFor(table string, row any) TableSpec {
	t := reflect.TypeOf(row)
	spec := TableSpec{Name: table}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		ft := f.Type
		nullable := false
		switch ft.Kind() {
		case reflect.Pointer:
			nullable = true
			ft = ft.Elem()
		case reflect.Map, reflect.Slice:
			nullable = true
		}
		spec.Columns = append(spec.Columns, ColumnSpec{Name: name, Kind: kindOf(ft), Nullable: nullable})
	}
	return spec
}

func kindOf(t reflect.Type) ColumnKind {
	if t == timeType {
		return ColumnTimestamp
	}
	switch t.Kind() {
	case reflect.String:
		return ColumnText
	case reflect.Bool:
		return ColumnBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ColumnInteger
	case reflect.Float32, reflect.Float64:
		return ColumnNumeric
	case reflect.Slice, reflect.Array:
		return ColumnArray
	}
	return ColumnJSON
}

func checkNodeRow(c *checker) {
	c.str("id")
	c.str("user_id")
	c.required("mode", "node mode", IsNodeMode)
	c.required("status", "node status", IsNodeStatus)
	c.nullStr("display_name")
	c.nullStr("endpoint_url")
	c.str("identity_fingerprint")
	c.str("identity_pubkey")
	c.nullStr("software_version")
	c.nullObject("capabilities")
	c.timestamp("created_at")
	c.timestamp("updated_at")
	c.nullTimestamp("last_seen_at")
}

func CheckNodeRow(v any) error { return check("limerclaw_node_row", v, checkNodeRow) }

func checkDeviceRow(c *checker) {
	c.str("id")
	c.str("user_id")
	c.required("device_type", "device type", IsDeviceType)
	c.str("device_name")
	c.required("status", "device status", IsDeviceStatus)
	c.nullStr("expo_push_token")
	c.str("identity_fingerprint")
	c.str("identity_pubkey")
	c.timestamp("created_at")
	c.timestamp("updated_at")
	c.nullTimestamp("last_seen_at")
}

func CheckDeviceRow(v any) error { return check("limerclaw_device_row", v, checkDeviceRow) }

func checkPairingSessionRow(c *checker) {
	c.str("id")
	c.str("user_id")
	c.str("node_id")
	c.str("pairing_code_hash")
	c.timestamp("expires_at")
	c.required("status", "pairing session status", IsPairingSessionStatus)
	c.timestamp("created_at")
}

func CheckPairingSessionRow(v any) error {
	return check("limerclaw_pairing_session_row", v, checkPairingSessionRow)
}

func checkPairingRow(c *checker) {
	c.str("id")
	c.str("device_id")
	c.str("node_id")
	c.str("user_id")
	c.timestamp("paired_at")
	c.required("status", "pairing status", IsPairingStatus)
}

func CheckPairingRow(v any) error { return check("limerclaw_pairing_row", v, checkPairingRow) }

func checkNodeAgentRow(c *checker) {
	c.str("id")
	c.str("node_id")
	c.str("user_id")
	c.str("agent_id")
	c.str("name")
	c.required("kind", "agent kind", IsAgentKind)
	c.required("status", "agent status", IsAgentStatus)
	c.required("execution_mode", "execution mode", IsExecutionMode)
	c.timestamp("created_at")
	c.timestamp("updated_at")
	c.timestamp("last_synced_at")
}

func CheckNodeAgentRow(v any) error {
	return check("limerclaw_node_agent_row", v, checkNodeAgentRow)
}
