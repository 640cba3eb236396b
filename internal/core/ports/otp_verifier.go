package ports

import (
	"context"
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
)

// ErrOtpMismatch is returned when a presented code does not match the one
// issued for the order and stage.
var ErrOtpMismatch = errors.New("otp mismatch")

// OtpStage distinguishes the two hand-offs an order verifies.
type OtpStage string

const (
	// OtpStagePickup guards the restaurant to rider hand-off.
	OtpStagePickup OtpStage = "pickup"
	// OtpStageDelivery guards the rider to customer hand-off.
	OtpStageDelivery OtpStage = "delivery"
)

// OtpVerifier issues and checks the short codes exchanged at physical
// hand-offs. Codes are per order and per stage.
type OtpVerifier interface {
	// Issue creates (or returns the existing) code for the order and stage.
	Issue(ctx context.Context, orderID kernel.UUID, stage OtpStage) (string, error)

	// Verify checks a presented code. A wrong code returns ErrOtpMismatch;
	// the code stays valid for further attempts.
	Verify(ctx context.Context, orderID kernel.UUID, stage OtpStage, code string) error
}
