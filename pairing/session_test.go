package pairing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limerclaw/shared-types/contracts"
	"github.com/limerclaw/shared-types/pairing"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("PST", -8*3600))
	row, code, err := pairing.NewSession("user-1", "node-1", now)
	require.NoError(t, err)

	_, err = uuid.Parse(row.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", row.UserID)
	assert.Equal(t, "node-1", row.NodeID)
	assert.Equal(t, contracts.PairingSessionPending, row.Status)
	assert.Equal(t, time.UTC, row.CreatedAt.Location())
	assert.Equal(t, 10*time.Minute, row.ExpiresAt.Sub(row.CreatedAt))
	assert.NotContains(t, row.PairingCodeHash, code)
	require.NoError(t, contracts.CheckPairingSessionRow(row))

	resp := pairing.CreateResponse(row, code, "ab12:cd34")
	assert.Equal(t, row.ID, resp.PairingSessionID)
	assert.Equal(t, code, resp.PairingCode)
	assert.Equal(t, row.ExpiresAt, resp.ExpiresAt)
}

func TestRedeemable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	row, code, err := pairing.NewSession("user-1", "node-1", now)
	require.NoError(t, err)

	require.NoError(t, pairing.Redeemable(row, code, now.Add(time.Minute)))
	require.ErrorIs(t, pairing.Redeemable(row, "2222-2222", now), pairing.ErrCodeMismatch)
	require.ErrorIs(t, pairing.Redeemable(row, code, row.ExpiresAt), pairing.ErrSessionExpired)

	canceled := row
	canceled.Status = contracts.PairingSessionCanceled
	require.ErrorIs(t, pairing.Redeemable(canceled, code, now), pairing.ErrSessionNotPending)

	corrupt := row
	corrupt.PairingCodeHash = "garbage"
	err = pairing.Redeemable(corrupt, code, now)
	require.Error(t, err)
	assert.NotErrorIs(t, err, pairing.ErrCodeMismatch)
}

func TestSettle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	row := contracts.LimerClawPairingSessionRow{
		Status:    contracts.PairingSessionPending,
		ExpiresAt: now.Add(10 * time.Minute),
	}
	assert.Equal(t, contracts.PairingSessionPending, pairing.Settle(row, now))
	assert.Equal(t, contracts.PairingSessionExpired, pairing.Settle(row, now.Add(10*time.Minute)))

	row.Status = contracts.PairingSessionConfirmed
	assert.Equal(t, contracts.PairingSessionConfirmed, pairing.Settle(row, now.Add(time.Hour)))
}

func TestConfirm(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	row := contracts.LimerClawPairingSessionRow{
		ID:        "ps-1",
		UserID:    "user-1",
		NodeID:    "node-1",
		Status:    contracts.PairingSessionPending,
		ExpiresAt: now.Add(10 * time.Minute),
		CreatedAt: now,
	}

	confirmed, paired, err := pairing.Confirm(row, "dev-1", now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, contracts.PairingSessionConfirmed, confirmed.Status)
	assert.Equal(t, contracts.PairingSessionPending, row.Status, "input row is not modified")
	assert.Equal(t, "dev-1", paired.DeviceID)
	assert.Equal(t, "node-1", paired.NodeID)
	assert.Equal(t, "user-1", paired.UserID)
	assert.Equal(t, contracts.PairingActive, paired.Status)
	require.NoError(t, contracts.CheckPairingRow(paired))

	_, _, err = pairing.Confirm(confirmed, "dev-2", now)
	require.ErrorIs(t, err, pairing.ErrSessionNotPending)

	_, _, err = pairing.Confirm(row, "dev-1", now.Add(time.Hour))
	require.ErrorIs(t, err, pairing.ErrSessionExpired)
}
