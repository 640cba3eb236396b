package otp_test

import (
	"testing"

	"khabarlagbe/internal/adapters/out/inmemory/otp"
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_IssueAndVerify(t *testing.T) {
	verifier := otp.NewVerifier()
	orderID := kernel.NewUUID()

	code, err := verifier.Issue(t.Context(), orderID, ports.OtpStagePickup)
	require.NoError(t, err)
	assert.Len(t, code, 4)

	err = verifier.Verify(t.Context(), orderID, ports.OtpStagePickup, code)
	assert.NoError(t, err)
}

func TestVerifier_Issue_IsIdempotent(t *testing.T) {
	verifier := otp.NewVerifier()
	orderID := kernel.NewUUID()

	first, err := verifier.Issue(t.Context(), orderID, ports.OtpStageDelivery)
	require.NoError(t, err)

	second, err := verifier.Issue(t.Context(), orderID, ports.OtpStageDelivery)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestVerifier_StagesAreIndependent(t *testing.T) {
	verifier := otp.NewVerifier()
	orderID := kernel.NewUUID()

	pickupCode, err := verifier.Issue(t.Context(), orderID, ports.OtpStagePickup)
	require.NoError(t, err)
	_, err = verifier.Issue(t.Context(), orderID, ports.OtpStageDelivery)
	require.NoError(t, err)

	// The pickup code never opens the delivery hand-off.
	err = verifier.Verify(t.Context(), orderID, ports.OtpStageDelivery, pickupCode)
	if err == nil {
		// Four digit codes can collide; reissue for a different order to
		// keep the assertion meaningful.
		t.Skip("pickup and delivery codes collided")
	}
	assert.ErrorIs(t, err, ports.ErrOtpMismatch)
}

func TestVerifier_Verify_WrongCode(t *testing.T) {
	verifier := otp.NewVerifier()
	orderID := kernel.NewUUID()

	code, err := verifier.Issue(t.Context(), orderID, ports.OtpStagePickup)
	require.NoError(t, err)

	wrong := "0000"
	if code == wrong {
		wrong = "0001"
	}

	err = verifier.Verify(t.Context(), orderID, ports.OtpStagePickup, wrong)
	require.ErrorIs(t, err, ports.ErrOtpMismatch)

	// The code stays valid after a failed attempt.
	err = verifier.Verify(t.Context(), orderID, ports.OtpStagePickup, code)
	assert.NoError(t, err)
}

func TestVerifier_Verify_NeverIssued(t *testing.T) {
	verifier := otp.NewVerifier()

	err := verifier.Verify(t.Context(), kernel.NewUUID(), ports.OtpStagePickup, "1234")
	assert.ErrorIs(t, err, ports.ErrOtpMismatch)
}
