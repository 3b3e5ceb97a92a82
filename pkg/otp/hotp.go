package otp

import (
	"fmt"
	"strconv"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// HOTP is a counter-based credential (RFC 4226).
type HOTP struct {
	credential
	counter uint64
}

var _ Credential = (*HOTP)(nil)

// NewHOTP creates a counter-based credential with default parameters:
// 6 digits, SHA1 and an initial counter of 0.
func NewHOTP(secret string) (*HOTP, error) {
	c, err := newCredential(secret)
	if err != nil {
		return nil, err
	}
	return &HOTP{credential: c}, nil
}

// Type returns TypeHOTP.
func (h *HOTP) Type() Type {
	return TypeHOTP
}

// Counter returns the initial counter value.
func (h *HOTP) Counter() uint64 {
	return h.counter
}

// SetParameter applies a provisioning parameter. Besides the common keys,
// HOTP recognizes "counter".
func (h *HOTP) SetParameter(key, value string) error {
	if key != ParamCounter {
		return h.credential.setParameter(key, value)
	}
	counter, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return invalidParameter(key, value, err)
	}
	h.counter = counter
	return nil
}

func (h *HOTP) opts() hotp.ValidateOpts {
	return hotp.ValidateOpts{
		Digits:    otp.Digits(h.digits),
		Algorithm: h.algorithm.otpAlgorithm(),
	}
}

// At returns the code for counter.
func (h *HOTP) At(counter uint64) (string, error) {
	code, err := hotp.GenerateCodeCustom(h.secret, counter, h.opts())
	if err != nil {
		return "", fmt.Errorf("otp: failed to generate HOTP code: %w", err)
	}
	return code, nil
}

// Verify reports whether code matches counter.
func (h *HOTP) Verify(code string, counter uint64) (bool, error) {
	valid, err := hotp.ValidateCustom(code, counter, h.secret, h.opts())
	if err != nil {
		return false, fmt.Errorf("otp: failed to validate HOTP code: %w", err)
	}
	return valid, nil
}
