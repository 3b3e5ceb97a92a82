package otp

import (
	"encoding/base32"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pquerna/otp"
)

// Type represents the OTP algorithm type.
type Type string

const (
	// TypeTOTP represents Time-based OTP (RFC 6238).
	TypeTOTP Type = "totp"
	// TypeHOTP represents Counter-based OTP (RFC 4226).
	TypeHOTP Type = "hotp"
)

// Algorithm represents the hash algorithm used for OTP generation.
type Algorithm string

const (
	// AlgorithmSHA1 uses SHA1 hash algorithm.
	AlgorithmSHA1 Algorithm = "SHA1"
	// AlgorithmSHA256 uses SHA256 hash algorithm.
	AlgorithmSHA256 Algorithm = "SHA256"
	// AlgorithmSHA512 uses SHA512 hash algorithm.
	AlgorithmSHA512 Algorithm = "SHA512"
)

// otpAlgorithm converts a to the pquerna/otp representation.
func (a Algorithm) otpAlgorithm() otp.Algorithm {
	switch a {
	case AlgorithmSHA256:
		return otp.AlgorithmSHA256
	case AlgorithmSHA512:
		return otp.AlgorithmSHA512
	default:
		return otp.AlgorithmSHA1
	}
}

// Recognized parameter keys.
const (
	ParamIssuer    = "issuer"
	ParamDigits    = "digits"
	ParamAlgorithm = "algorithm"
	ParamImage     = "image"
	ParamPeriod    = "period"
	ParamEpoch     = "epoch"
	ParamCounter   = "counter"
)

const (
	defaultDigits    uint = 6
	defaultPeriod    uint = 30
	defaultAlgorithm      = AlgorithmSHA1
)

// validate is shared by all credentials and configs; validator caches are
// safe for concurrent use.
var validate = validator.New()

// ParameterSetter is implemented by values configurable by key and value.
type ParameterSetter interface {
	SetParameter(key, value string) error
}

// Credential is a configured one-time-password credential.
type Credential interface {
	ParameterSetter

	// Type reports whether the credential is time or counter based.
	Type() Type
	// Secret returns the base32 encoded shared secret.
	Secret() string
	Label() string
	SetLabel(label string)
	// Issuer returns the issuer, or an empty string when none is set.
	Issuer() string
	SetIssuer(issuer string)
	// IssuerIncludedAsParameter reports whether the issuer was also given
	// as an explicit issuer parameter.
	IssuerIncludedAsParameter() bool
	SetIssuerIncludedAsParameter(included bool)
	Digits() uint
	Algorithm() Algorithm
	Image() string
	// Parameters returns the unrecognized parameters that were set.
	Parameters() map[string]string
}

// credential holds the state shared by TOTP and HOTP.
type credential struct {
	secret         string
	label          string
	issuer         string
	issuerIncluded bool
	digits         uint
	algorithm      Algorithm
	image          string
	params         map[string]string
}

func newCredential(secret string) (credential, error) {
	if err := checkSecret(secret); err != nil {
		return credential{}, err
	}
	return credential{
		secret:    secret,
		digits:    defaultDigits,
		algorithm: defaultAlgorithm,
		params:    map[string]string{},
	}, nil
}

// checkSecret ensures secret is non-empty base32, tolerating lower case and
// missing padding.
func checkSecret(secret string) error {
	s := strings.ToUpper(strings.TrimSpace(secret))
	if s == "" {
		return ErrMissingSecret
	}
	if n := len(s) % 8; n != 0 {
		s += strings.Repeat("=", 8-n)
	}
	if _, err := base32.StdEncoding.DecodeString(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	return nil
}

// setParameter applies the keys common to every credential type.
// Unrecognized keys are kept as-is.
func (c *credential) setParameter(key, value string) error {
	switch key {
	case ParamIssuer:
		if err := validate.Var(value, "required,excludes=:"); err != nil {
			return invalidParameter(key, value, err)
		}
		c.issuer = value
	case ParamDigits:
		digits, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return invalidParameter(key, value, err)
		}
		if err := validate.Var(digits, "oneof=6 7 8"); err != nil {
			return invalidParameter(key, value, err)
		}
		c.digits = uint(digits)
	case ParamAlgorithm:
		algorithm := Algorithm(strings.ToUpper(value))
		if err := validate.Var(string(algorithm), "oneof=SHA1 SHA256 SHA512"); err != nil {
			return invalidParameter(key, value, err)
		}
		c.algorithm = algorithm
	case ParamImage:
		if err := validate.Var(value, "required,url"); err != nil {
			return invalidParameter(key, value, err)
		}
		c.image = value
	default:
		c.params[key] = value
	}
	return nil
}

func invalidParameter(key, value string, err error) error {
	return fmt.Errorf("%w: %s=%q: %v", ErrInvalidParameter, key, value, err)
}

func (c *credential) Secret() string {
	return c.secret
}

func (c *credential) Label() string {
	return c.label
}

func (c *credential) SetLabel(label string) {
	c.label = label
}

func (c *credential) Issuer() string {
	return c.issuer
}

func (c *credential) SetIssuer(issuer string) {
	c.issuer = issuer
}

func (c *credential) IssuerIncludedAsParameter() bool {
	return c.issuerIncluded
}

func (c *credential) SetIssuerIncludedAsParameter(included bool) {
	c.issuerIncluded = included
}

func (c *credential) Digits() uint {
	return c.digits
}

func (c *credential) Algorithm() Algorithm {
	return c.algorithm
}

func (c *credential) Image() string {
	return c.image
}

func (c *credential) Parameters() map[string]string {
	params := make(map[string]string, len(c.params))
	for k, v := range c.params {
		params[k] = v
	}
	return params
}
