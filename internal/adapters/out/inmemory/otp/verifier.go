// Package otp issues and checks the short numeric codes exchanged at the
// two physical hand-offs of a delivery. Codes live in process memory for the
// duration of the order; a restart reissues them on the next request.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"sync"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/ports"
)

// codeSpace bounds the generated codes to four digits.
const codeSpace = 10000

type codeKey struct {
	orderID kernel.UUID
	stage   ports.OtpStage
}

// Verifier is an in-memory ports.OtpVerifier. Codes are per order and per
// stage; a wrong guess leaves the code valid for further attempts.
type Verifier struct {
	mu    sync.Mutex
	codes map[codeKey]string
}

// NewVerifier creates an empty verifier.
func NewVerifier() *Verifier {
	return &Verifier{
		codes: make(map[codeKey]string),
	}
}

// Issue creates the code for the order and stage, or returns the existing
// one so repeated issue requests stay idempotent.
func (v *Verifier) Issue(_ context.Context, orderID kernel.UUID, stage ports.OtpStage) (string, error) {
	if err := orderID.Validate(); err != nil {
		return "", err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	key := codeKey{orderID: orderID, stage: stage}
	if code, ok := v.codes[key]; ok {
		return code, nil
	}

	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", err
	}

	code := fmt.Sprintf("%04d", n.Int64())
	v.codes[key] = code
	return code, nil
}

// Verify checks a presented code in constant time. A code that was never
// issued fails the same way as a wrong one.
func (v *Verifier) Verify(_ context.Context, orderID kernel.UUID, stage ports.OtpStage, code string) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	v.mu.Lock()
	issued, ok := v.codes[codeKey{orderID: orderID, stage: stage}]
	v.mu.Unlock()

	if !ok {
		return ports.ErrOtpMismatch
	}
	if subtle.ConstantTimeCompare([]byte(issued), []byte(code)) != 1 {
		return ports.ErrOtpMismatch
	}
	return nil
}
