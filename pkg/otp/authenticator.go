package otp

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds OTP authenticator configuration.
type Config struct {
	// Type specifies the OTP type (TOTP or HOTP).
	Type Type `validate:"required,oneof=totp hotp"`
	// Secret is the base32-encoded shared secret key (required).
	Secret string `validate:"required"`
	// Issuer is the name of the issuing organization (e.g., "MyApp").
	Issuer string `validate:"excludes=:"`
	// Label is the account identifier (e.g., "user@example.com").
	Label string
	// Digits specifies the number of digits in the OTP code (6, 7, or 8).
	// Default: 6
	Digits uint `validate:"omitempty,oneof=6 7 8"`
	// Period specifies the time step in seconds for TOTP.
	// Default: 30
	Period uint
	// Counter specifies the initial counter value for HOTP.
	// Default: 0
	Counter uint64
	// Algorithm specifies the hash algorithm to use.
	// Default: SHA1
	Algorithm Algorithm `validate:"omitempty,oneof=SHA1 SHA256 SHA512"`
	// Skew specifies the number of time periods to check before and after
	// the current time for TOTP validation (tolerance for clock skew).
	// Default: 1
	Skew uint
}

// validate checks that the configuration is valid.
func (c Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := checkSecret(c.Secret); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ConfigFromCredential returns the configuration matching cred.
func ConfigFromCredential(cred Credential) Config {
	cfg := Config{
		Type:      cred.Type(),
		Secret:    cred.Secret(),
		Issuer:    cred.Issuer(),
		Label:     cred.Label(),
		Digits:    cred.Digits(),
		Algorithm: cred.Algorithm(),
	}
	switch c := cred.(type) {
	case *TOTP:
		cfg.Period = c.Period()
	case *HOTP:
		cfg.Counter = c.Counter()
	}
	return cfg
}

// Authenticator validates OTP codes.
// It is safe for concurrent use.
type Authenticator struct {
	cfg  Config
	totp *TOTP
	hotp *HOTP
}

// NewAuthenticator creates a new OTP authenticator.
// The configuration is validated and an error is returned if invalid.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Apply defaults
	if cfg.Digits == 0 {
		cfg.Digits = defaultDigits
	}
	if cfg.Period == 0 {
		cfg.Period = defaultPeriod
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = defaultAlgorithm
	}
	if cfg.Skew == 0 {
		cfg.Skew = 1
	}

	params := []Param{
		{Key: ParamDigits, Value: strconv.FormatUint(uint64(cfg.Digits), 10)},
		{Key: ParamAlgorithm, Value: string(cfg.Algorithm)},
	}
	if cfg.Issuer != "" {
		params = append(params, Param{Key: ParamIssuer, Value: cfg.Issuer})
	}

	a := &Authenticator{cfg: cfg}
	var cred Credential
	if cfg.Type == TypeTOTP {
		t, err := NewTOTP(cfg.Secret)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		params = append(params, Param{Key: ParamPeriod, Value: strconv.FormatUint(uint64(cfg.Period), 10)})
		a.totp, cred = t, t
	} else {
		h, err := NewHOTP(cfg.Secret)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		params = append(params, Param{Key: ParamCounter, Value: strconv.FormatUint(cfg.Counter, 10)})
		a.hotp, cred = h, h
	}

	for _, p := range params {
		if err := cred.SetParameter(p.Key, p.Value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	cred.SetLabel(cfg.Label)

	return a, nil
}

// NewAuthenticatorFromURI creates an authenticator from an otpauth
// provisioning URI. skew is the TOTP clock skew tolerance; 0 selects the
// default of 1 period.
func NewAuthenticatorFromURI(uri string, skew uint) (*Authenticator, error) {
	cred, err := LoadFromProvisioningURI(uri)
	if err != nil {
		return nil, err
	}

	cfg := ConfigFromCredential(cred)
	cfg.Skew = skew
	if cfg.Skew == 0 {
		cfg.Skew = 1
	}

	// Keep the loaded credential so parameters outside Config, such as the
	// TOTP epoch, stay in effect.
	a := &Authenticator{cfg: cfg}
	switch c := cred.(type) {
	case *TOTP:
		a.totp = c
	case *HOTP:
		a.hotp = c
	}
	return a, nil
}

// Config returns the effective configuration, defaults included.
func (a *Authenticator) Config() Config {
	if a == nil {
		return Config{}
	}
	return a.cfg
}

// Credential returns the credential backing the authenticator.
func (a *Authenticator) Credential() Credential {
	if a == nil {
		return nil
	}
	if a.totp != nil {
		return a.totp
	}
	return a.hotp
}

// Authenticate validates an OTP code.
// For TOTP, it validates against the current time with skew tolerance.
// For HOTP, it validates against the configured counter value.
func (a *Authenticator) Authenticate(ctx context.Context, code string) error {
	if a == nil {
		return ErrNilAuthenticator
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: code must not be empty", ErrInvalidCode)
	}

	if a.totp != nil {
		valid, err := a.totp.Verify(code, time.Now().UTC(), a.cfg.Skew)
		if err != nil {
			return fmt.Errorf("%w: validation failed: %v", ErrInvalidCode, err)
		}
		if !valid {
			return ErrInvalidCode
		}
		return nil
	}

	// HOTP validation using configured counter
	return a.verifyCounter(code, a.cfg.Counter)
}

// ValidateCounter validates an HOTP code and returns the new counter value.
// This method is only valid for HOTP authenticators.
// The returned counter should be stored and used for the next validation.
func (a *Authenticator) ValidateCounter(ctx context.Context, code string, counter uint64) (uint64, error) {
	if a == nil {
		return 0, ErrNilAuthenticator
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if a.hotp == nil {
		return 0, fmt.Errorf("%w: ValidateCounter is only valid for HOTP", ErrInvalidConfig)
	}

	if strings.TrimSpace(code) == "" {
		return 0, fmt.Errorf("%w: code must not be empty", ErrInvalidCode)
	}

	if err := a.verifyCounter(code, counter); err != nil {
		return 0, err
	}

	// Return incremented counter
	return counter + 1, nil
}

func (a *Authenticator) verifyCounter(code string, counter uint64) error {
	valid, err := a.hotp.Verify(code, counter)
	if err != nil {
		return fmt.Errorf("%w: validation failed: %v", ErrInvalidCode, err)
	}
	if !valid {
		return ErrInvalidCode
	}
	return nil
}

// Generate generates an OTP code.
// For TOTP, it generates the code for the current time.
// For HOTP, a counter value must be provided.
func (a *Authenticator) Generate(counter ...uint64) (string, error) {
	if a == nil {
		return "", ErrNilAuthenticator
	}

	if a.totp != nil {
		return a.totp.At(time.Now().UTC())
	}

	// HOTP requires counter
	if len(counter) == 0 {
		return "", errors.New("otp: counter required for HOTP generation")
	}

	return a.hotp.At(counter[0])
}

// GenerateSecret generates a cryptographically random secret key.
// The secret is returned as a base32-encoded string suitable for use
// in the Config.Secret field or the secret parameter of a provisioning URI.
func GenerateSecret() (string, error) {
	// Generate 20 bytes (160 bits) of random data
	secret := make([]byte, 20)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("otp: failed to generate random secret: %w", err)
	}

	// Encode as base32 without padding
	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(secret)
	return encoded, nil
}
