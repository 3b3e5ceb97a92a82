package otp

import "errors"

var (
	// ErrInvalidProvisioningURI is matched by every error returned from
	// LoadFromProvisioningURI.
	ErrInvalidProvisioningURI = errors.New("otp: not a valid provisioning uri")

	// ErrMalformedURI indicates the input could not be split into scheme, host and path.
	ErrMalformedURI = errors.New("otp: malformed uri")

	// ErrInvalidScheme indicates the scheme is not "otpauth".
	ErrInvalidScheme = errors.New("otp: invalid scheme")

	// ErrUnsupportedType indicates the uri host is neither "totp" nor "hotp".
	ErrUnsupportedType = errors.New("otp: unsupported type")

	// ErrMissingSecret indicates no secret was supplied.
	ErrMissingSecret = errors.New("otp: missing secret")

	// ErrInvalidSecret indicates the secret is not valid base32.
	ErrInvalidSecret = errors.New("otp: invalid secret")

	// ErrInvalidIssuer indicates the issuer in the label conflicts with the issuer parameter.
	ErrInvalidIssuer = errors.New("otp: invalid issuer")

	// ErrInvalidParameter indicates a recognized parameter carries an unusable value.
	ErrInvalidParameter = errors.New("otp: invalid parameter")

	// ErrInvalidCode indicates the provided OTP code is invalid.
	ErrInvalidCode = errors.New("otp: invalid code")

	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("otp: invalid configuration")

	// ErrNilAuthenticator indicates a nil authenticator was used.
	ErrNilAuthenticator = errors.New("otp: authenticator is nil")
)

// ProvisioningError is returned by LoadFromProvisioningURI. Cause holds the
// underlying reason, which can be inspected with errors.Is or errors.As.
type ProvisioningError struct {
	Cause error
}

func (e *ProvisioningError) Error() string {
	if e.Cause == nil {
		return ErrInvalidProvisioningURI.Error()
	}
	return ErrInvalidProvisioningURI.Error() + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *ProvisioningError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrInvalidProvisioningURI.
func (e *ProvisioningError) Is(target error) bool {
	return target == ErrInvalidProvisioningURI
}
