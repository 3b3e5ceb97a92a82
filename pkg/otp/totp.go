package otp

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTP is a time-based credential (RFC 6238).
type TOTP struct {
	credential
	period uint
	epoch  int64
}

var _ Credential = (*TOTP)(nil)

// NewTOTP creates a time-based credential with default parameters:
// 6 digits, SHA1, a 30 second period and the unix epoch as time origin.
func NewTOTP(secret string) (*TOTP, error) {
	c, err := newCredential(secret)
	if err != nil {
		return nil, err
	}
	return &TOTP{credential: c, period: defaultPeriod}, nil
}

// Type returns TypeTOTP.
func (t *TOTP) Type() Type {
	return TypeTOTP
}

// Period returns the time step in seconds.
func (t *TOTP) Period() uint {
	return t.period
}

// Epoch returns the unix time, in seconds, at which counting starts.
func (t *TOTP) Epoch() int64 {
	return t.epoch
}

// SetParameter applies a provisioning parameter. Besides the common keys,
// TOTP recognizes "period" and "epoch".
func (t *TOTP) SetParameter(key, value string) error {
	switch key {
	case ParamPeriod:
		period, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return invalidParameter(key, value, err)
		}
		if err := validate.Var(period, "gt=0"); err != nil {
			return invalidParameter(key, value, err)
		}
		t.period = uint(period)
	case ParamEpoch:
		epoch, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return invalidParameter(key, value, err)
		}
		if err := validate.Var(epoch, "gte=0"); err != nil {
			return invalidParameter(key, value, err)
		}
		t.epoch = epoch
	default:
		return t.credential.setParameter(key, value)
	}
	return nil
}

func (t *TOTP) opts(skew uint) totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    t.period,
		Skew:      skew,
		Digits:    otp.Digits(t.digits),
		Algorithm: t.algorithm.otpAlgorithm(),
	}
}

// shift moves at so that the credential epoch becomes the unix epoch.
func (t *TOTP) shift(at time.Time) time.Time {
	return time.Unix(at.Unix()-t.epoch, 0).UTC()
}

// At returns the code for the time step containing at.
func (t *TOTP) At(at time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(t.secret, t.shift(at), t.opts(0))
	if err != nil {
		return "", fmt.Errorf("otp: failed to generate TOTP code: %w", err)
	}
	return code, nil
}

// Now returns the code for the current time.
func (t *TOTP) Now() (string, error) {
	return t.At(time.Now())
}

// Verify reports whether code is valid at the given time, accepting codes up
// to skew periods before or after it.
func (t *TOTP) Verify(code string, at time.Time, skew uint) (bool, error) {
	valid, err := totp.ValidateCustom(code, t.secret, t.shift(at), t.opts(skew))
	if err != nil {
		return false, fmt.Errorf("otp: failed to validate TOTP code: %w", err)
	}
	return valid, nil
}
