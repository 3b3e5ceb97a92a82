package otp

import (
	"fmt"
	"net/url"
	"strings"
)

// Scheme is the only scheme accepted for provisioning URIs.
const Scheme = "otpauth"

// LoadFromProvisioningURI builds a credential from an otpauth URI of the form
//
//	otpauth://{totp|hotp}/[{issuer}:]{label}?secret={base32}&issuer={name}&...
//
// Every query parameter other than the secret is applied through
// Credential.SetParameter in the order it appears. When the label carries an
// issuer prefix it must agree with any issuer parameter and becomes the
// credential issuer.
//
// Every error returned matches ErrInvalidProvisioningURI and wraps the
// underlying reason, e.g. ErrUnsupportedType or ErrInvalidIssuer.
func LoadFromProvisioningURI(uri string) (Credential, error) {
	cred, err := loadFromProvisioningURI(uri)
	if err != nil {
		return nil, &ProvisioningError{Cause: err}
	}
	return cred, nil
}

func loadFromProvisioningURI(uri string) (Credential, error) {
	parsed, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme() != Scheme {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScheme, parsed.Scheme())
	}

	cred, err := createCredential(parsed)
	if err != nil {
		return nil, err
	}
	if err := populateCredential(cred, parsed); err != nil {
		return nil, err
	}
	return cred, nil
}

// createCredential selects the credential type from the uri host and sets
// the label derived from the path.
func createCredential(u *URI) (Credential, error) {
	var cred Credential
	switch Type(u.Host()) {
	case TypeTOTP:
		secret, err := u.Secret()
		if err != nil {
			return nil, err
		}
		t, err := NewTOTP(secret)
		if err != nil {
			return nil, err
		}
		cred = t
	case TypeHOTP:
		secret, err := u.Secret()
		if err != nil {
			return nil, err
		}
		h, err := NewHOTP(secret)
		if err != nil {
			return nil, err
		}
		cred = h
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, u.Host())
	}

	label, err := labelFromPath(u.Path())
	if err != nil {
		return nil, err
	}
	cred.SetLabel(label)
	return cred, nil
}

// populateCredential applies the query parameters, then reconciles the
// issuer prefix of the path with the issuer parameter.
func populateCredential(cred Credential, u *URI) error {
	for _, p := range u.Query() {
		if err := cred.SetParameter(p.Key, p.Value); err != nil {
			return err
		}
	}

	segments, err := splitPath(u.Path())
	if err != nil {
		return err
	}
	if len(segments) < 2 {
		cred.SetIssuerIncludedAsParameter(false)
		return nil
	}

	issuer := segments[0]
	if cred.Issuer() != "" {
		if cred.Issuer() != issuer {
			return fmt.Errorf("%w: label issuer %q does not match issuer parameter %q",
				ErrInvalidIssuer, issuer, cred.Issuer())
		}
		cred.SetIssuerIncludedAsParameter(true)
	}
	cred.SetIssuer(issuer)
	return nil
}

// labelFromPath returns the account label of path. With exactly one colon the
// label follows it; otherwise the first segment is used.
func labelFromPath(path string) (string, error) {
	segments, err := splitPath(path)
	if err != nil {
		return "", err
	}
	if len(segments) == 2 {
		return segments[1], nil
	}
	return segments[0], nil
}

// splitPath drops the leading slash of path, decodes it and splits it on
// every colon.
func splitPath(path string) ([]string, error) {
	if path != "" {
		path = path[1:]
	}
	decoded, err := url.PathUnescape(path)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid path %q: %v", ErrMalformedURI, path, err)
	}
	return strings.Split(decoded, ":"), nil
}
