package contracts_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limerclaw/shared-types/contracts"
)

func TestPersistedTables(t *testing.T) {
	tables := contracts.PersistedTables()
	names := make([]string, 0, len(tables))
	for _, tbl := range tables {
		names = append(names, tbl.Name)
		assert.NotEmpty(t, tbl.Columns, tbl.Name)
		id, ok := tbl.Column("id")
		require.True(t, ok, "%s has no id column", tbl.Name)
		assert.Equal(t, contracts.ColumnSpec{Name: "id", Kind: contracts.ColumnText}, id)
	}
	assert.Equal(t, []string{
		"limerclaw_nodes",
		"limerclaw_devices",
		"limerclaw_pairing_sessions",
		"limerclaw_pairings",
		"limerclaw_node_agents",
	}, names)

	nodes := tables[0]
	tests := []struct {
		column string
		want   contracts.ColumnSpec
	}{
		{"display_name", contracts.ColumnSpec{Name: "display_name", Kind: contracts.ColumnText, Nullable: true}},
		{"mode", contracts.ColumnSpec{Name: "mode", Kind: contracts.ColumnText}},
		{"capabilities", contracts.ColumnSpec{Name: "capabilities", Kind: contracts.ColumnJSON, Nullable: true}},
		{"created_at", contracts.ColumnSpec{Name: "created_at", Kind: contracts.ColumnTimestamp}},
		{"last_seen_at", contracts.ColumnSpec{Name: "last_seen_at", Kind: contracts.ColumnTimestamp, Nullable: true}},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			got, ok := nodes.Column(tt.column)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
	_, ok := nodes.Column("pairing_code")
	assert.False(t, ok)

	sessions := tables[2]
	for _, col := range sessions.Columns {
		assert.NotEqual(t, "pairing_code", col.Name, "plaintext codes are never stored")
	}
}

func TestTableSpecFor(t *testing.T) {
	type row struct {
		ID      string   `json:"id"`
		Score   float64  `json:"score"`
		Count   int64    `json:"count"`
		Enabled *bool    `json:"enabled,omitempty"`
		Tags    []string `json:"tags"`
		Skip    string   `json:"-"`
		NoTag   string
	}
	spec := contracts.TableSpecFor("things", row{})
	assert.Equal(t, contracts.TableSpec{Name: "things", Columns: []contracts.ColumnSpec{
		{Name: "id", Kind: contracts.ColumnText},
		{Name: "score", Kind: contracts.ColumnNumeric},
		{Name: "count", Kind: contracts.ColumnInteger},
		{Name: "enabled", Kind: contracts.ColumnBoolean, Nullable: true},
		{Name: "tags", Kind: contracts.ColumnArray, Nullable: true},
	}}, spec)
}

func nodeRow() contracts.LimerClawNodeRow {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return contracts.LimerClawNodeRow{
		ID:                  "node-1",
		UserID:              "user-1",
		Mode:                contracts.NodeModeLocal,
		Status:              contracts.NodeStatusActive,
		IdentityFingerprint: "SHA256:abc",
		IdentityPubkey:      "cHVia2V5",
		CreatedAt:           at,
		UpdatedAt:           at,
	}
}

func TestCheckNodeRowNullableColumns(t *testing.T) {
	row := nodeRow()
	require.NoError(t, contracts.CheckNodeRow(row), "nil pointers encode as null")

	row.Capabilities = map[string]any{"interactive": true}
	row.DisplayName = ptr("laptop")
	require.NoError(t, contracts.CheckNodeRow(row))

	var generic map[string]any
	data, err := json.Marshal(nodeRow())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &generic))

	delete(generic, "last_seen_at")
	ve, ok := contracts.AsValidationError(contracts.CheckNodeRow(generic))
	require.True(t, ok)
	assert.Equal(t, "last_seen_at", ve.Path, "nullable columns are still required")
	assert.Equal(t, "limerclaw_node_row", ve.Shape)

	generic["last_seen_at"] = nil
	generic["mode"] = "cloud"
	ve, ok = contracts.AsValidationError(contracts.CheckNodeRow(generic))
	require.True(t, ok)
	assert.Equal(t, "mode", ve.Path)
}

func TestCheckRowShapes(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, contracts.CheckDeviceRow(contracts.LimerClawDeviceRow{
		ID: "dev-1", UserID: "user-1", DeviceType: contracts.DeviceTypeIOS, DeviceName: "phone",
		Status: contracts.DeviceStatusActive, IdentityFingerprint: "fp", IdentityPubkey: "pk",
		CreatedAt: at, UpdatedAt: at,
	}))
	require.NoError(t, contracts.CheckPairingSessionRow(contracts.LimerClawPairingSessionRow{
		ID: "ps-1", UserID: "user-1", NodeID: "node-1", PairingCodeHash: "salt$hash",
		ExpiresAt: at.Add(10 * time.Minute), Status: contracts.PairingSessionPending, CreatedAt: at,
	}))
	require.NoError(t, contracts.CheckPairingRow(contracts.LimerClawPairingRow{
		ID: "p-1", DeviceID: "dev-1", NodeID: "node-1", UserID: "user-1",
		PairedAt: at, Status: contracts.PairingActive,
	}))
	require.NoError(t, contracts.CheckNodeAgentRow(contracts.LimerClawNodeAgentRow{
		ID: "na-1", NodeID: "node-1", UserID: "user-1", AgentID: contracts.BossAgentID, Name: "Boss",
		Kind: contracts.AgentKindBoss, Status: contracts.AgentStatusActive,
		ExecutionMode: contracts.ExecutionInteractive, CreatedAt: at, UpdatedAt: at, LastSyncedAt: at,
	}))

	assert.Error(t, contracts.CheckPairingRow(contracts.LimerClawPairingRow{
		ID: "p-1", DeviceID: "dev-1", NodeID: "node-1", UserID: "user-1",
		PairedAt: at, Status: contracts.PairingStatus("pending"),
	}))
	assert.Error(t, contracts.CheckDeviceRow(contracts.LimerClawDeviceRow{
		ID: "dev-1", UserID: "user-1", DeviceType: "windows", DeviceName: "pc",
		Status: contracts.DeviceStatusActive, CreatedAt: at, UpdatedAt: at,
	}))
}
