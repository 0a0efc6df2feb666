// Package pairing derives the values the pairing flow stores and compares:
// one-time pairing codes, their Argon2id hashes, identity fingerprints and
// the limerclaw_pairing_sessions and limerclaw_pairings rows built from them.
package pairing

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/limerclaw/shared-types/contracts"
)

var (
	ErrSessionExpired    = errors.New("pairing: session expired")
	ErrSessionNotPending = errors.New("pairing: session is not pending")
	ErrCodeMismatch      = errors.New("pairing: code does not match")
)

// NewSession opens a pairing session for a node and returns the row to store
// together with the plaintext code to show the user. The code is not
// recoverable from the row.
func NewSession(userID, nodeID string, now time.Time) (contracts.LimerClawPairingSessionRow, string, error) {
	code, err := GenerateCode()
	if err != nil {
		return contracts.LimerClawPairingSessionRow{}, "", err
	}
	hash, err := HashCode(code)
	if err != nil {
		return contracts.LimerClawPairingSessionRow{}, "", err
	}
	now = now.UTC()
	row := contracts.LimerClawPairingSessionRow{
		ID:              uuid.NewString(),
		UserID:          userID,
		NodeID:          nodeID,
		PairingCodeHash: hash,
		ExpiresAt:       now.Add(contracts.PairingSessionTTLMinutes * time.Minute),
		Status:          contracts.PairingSessionPending,
		CreatedAt:       now,
	}
	return row, code, nil
}

// CreateResponse is the pairing/create reply for a freshly opened session.
func CreateResponse(row contracts.LimerClawPairingSessionRow, code, nodeFingerprint string) contracts.PairingCreateResponse {
	return contracts.PairingCreateResponse{
		PairingSessionID:        row.ID,
		PairingCode:             code,
		ExpiresAt:               row.ExpiresAt,
		NodeIdentityFingerprint: nodeFingerprint,
	}
}

// Expired reports whether the session can no longer be resolved at now.
// Expiry is inclusive of ExpiresAt.
func Expired(row contracts.LimerClawPairingSessionRow, now time.Time) bool {
	return !now.Before(row.ExpiresAt)
}

// Redeemable checks that a pending, unexpired session matches code. Expiry
// is reported before the code is checked, and a non-pending session still
// pays the hashing cost.
func Redeemable(row contracts.LimerClawPairingSessionRow, code string, now time.Time) error {
	if row.Status != contracts.PairingSessionPending {
		DummyVerify()
		return fmt.Errorf("%w: %s", ErrSessionNotPending, row.Status)
	}
	if Expired(row, now) {
		DummyVerify()
		return ErrSessionExpired
	}
	ok, err := VerifyCode(code, row.PairingCodeHash)
	if err != nil {
		return fmt.Errorf("pairing: verify session %s: %w", row.ID, err)
	}
	if !ok {
		return ErrCodeMismatch
	}
	return nil
}

// Settle returns the status a pending session should be stored with at now:
// expired once past its deadline, otherwise unchanged.
func Settle(row contracts.LimerClawPairingSessionRow, now time.Time) contracts.PairingSessionStatus {
	if row.Status == contracts.PairingSessionPending && Expired(row, now) {
		return contracts.PairingSessionExpired
	}
	return row.Status
}

// Confirm completes a resolved session for a device, returning the confirmed
// session and the new pairing row.
func Confirm(row contracts.LimerClawPairingSessionRow, deviceID string, now time.Time) (contracts.LimerClawPairingSessionRow, contracts.LimerClawPairingRow, error) {
	if row.Status != contracts.PairingSessionPending {
		return row, contracts.LimerClawPairingRow{}, fmt.Errorf("%w: %s", ErrSessionNotPending, row.Status)
	}
	if Expired(row, now) {
		return row, contracts.LimerClawPairingRow{}, ErrSessionExpired
	}
	row.Status = contracts.PairingSessionConfirmed
	pairing := contracts.LimerClawPairingRow{
		ID:       uuid.NewString(),
		DeviceID: deviceID,
		NodeID:   row.NodeID,
		UserID:   row.UserID,
		PairedAt: now.UTC(),
		Status:   contracts.PairingActive,
	}
	return row, pairing, nil
}
