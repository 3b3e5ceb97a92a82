package otp

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// TestLoadFromProvisioningURI tests successful loading of provisioning URIs
func TestLoadFromProvisioningURI(t *testing.T) {
	tests := []struct {
		name           string
		uri            string
		wantType       Type
		wantLabel      string
		wantIssuer     string
		wantIncluded   bool
		wantDigits     uint
		wantAlgorithm  Algorithm
		wantParameters map[string]string
	}{
		{
			name:          "totp with issuer in label and parameter",
			uri:           "otpauth://totp/Example:alice?secret=" + testSecret + "&issuer=Example",
			wantType:      TypeTOTP,
			wantLabel:     "alice",
			wantIssuer:    "Example",
			wantIncluded:  true,
			wantDigits:    6,
			wantAlgorithm: AlgorithmSHA1,
		},
		{
			name:          "hotp with issuer in label only",
			uri:           "otpauth://hotp/Example:alice?secret=" + testSecret + "&counter=10",
			wantType:      TypeHOTP,
			wantLabel:     "alice",
			wantIssuer:    "Example",
			wantDigits:    6,
			wantAlgorithm: AlgorithmSHA1,
		},
		{
			name:          "no issuer",
			uri:           "otpauth://totp/alice?secret=" + testSecret,
			wantType:      TypeTOTP,
			wantLabel:     "alice",
			wantDigits:    6,
			wantAlgorithm: AlgorithmSHA1,
		},
		{
			name:          "issuer in parameter only",
			uri:           "otpauth://totp/alice?secret=" + testSecret + "&issuer=ACME",
			wantType:      TypeTOTP,
			wantLabel:     "alice",
			wantIssuer:    "ACME",
			wantDigits:    6,
			wantAlgorithm: AlgorithmSHA1,
		},
		{
			name:          "percent encoded label",
			uri:           "otpauth://totp/ACME%20Co:john.doe%40email.com?secret=" + testSecret + "&issuer=ACME%20Co&algorithm=SHA256&digits=8&period=60",
			wantType:      TypeTOTP,
			wantLabel:     "john.doe@email.com",
			wantIssuer:    "ACME Co",
			wantIncluded:  true,
			wantDigits:    8,
			wantAlgorithm: AlgorithmSHA256,
		},
		{
			name:          "plus is literal in the label",
			uri:           "otpauth://totp/a+b?secret=" + testSecret,
			wantType:      TypeTOTP,
			wantLabel:     "a+b",
			wantDigits:    6,
			wantAlgorithm: AlgorithmSHA1,
		},
		{
			name:          "more than one colon falls back to the first segment",
			uri:           "otpauth://totp/a:b:c?secret=" + testSecret,
			wantType:      TypeTOTP,
			wantLabel:     "a",
			wantIssuer:    "a",
			wantDigits:    6,
			wantAlgorithm: AlgorithmSHA1,
		},
		{
			name:          "empty issuer prefix",
			uri:           "otpauth://totp/:alice?secret=" + testSecret,
			wantType:      TypeTOTP,
			wantLabel:     "alice",
			wantDigits:    6,
			wantAlgorithm: AlgorithmSHA1,
		},
		{
			name:           "unknown parameter",
			uri:            "otpauth://totp/alice?secret=" + testSecret + "&foo=bar",
			wantType:       TypeTOTP,
			wantLabel:      "alice",
			wantDigits:     6,
			wantAlgorithm:  AlgorithmSHA1,
			wantParameters: map[string]string{"foo": "bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred, err := LoadFromProvisioningURI(tt.uri)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if cred.Type() != tt.wantType {
				t.Errorf("expected type %q, got %q", tt.wantType, cred.Type())
			}
			switch tt.wantType {
			case TypeTOTP:
				if _, ok := cred.(*TOTP); !ok {
					t.Errorf("expected *TOTP, got %T", cred)
				}
			case TypeHOTP:
				if _, ok := cred.(*HOTP); !ok {
					t.Errorf("expected *HOTP, got %T", cred)
				}
			}
			if cred.Secret() != testSecret {
				t.Errorf("expected secret %q, got %q", testSecret, cred.Secret())
			}
			if cred.Label() != tt.wantLabel {
				t.Errorf("expected label %q, got %q", tt.wantLabel, cred.Label())
			}
			if cred.Issuer() != tt.wantIssuer {
				t.Errorf("expected issuer %q, got %q", tt.wantIssuer, cred.Issuer())
			}
			if cred.IssuerIncludedAsParameter() != tt.wantIncluded {
				t.Errorf("expected issuer included %v, got %v", tt.wantIncluded, cred.IssuerIncludedAsParameter())
			}
			if cred.Digits() != tt.wantDigits {
				t.Errorf("expected digits %d, got %d", tt.wantDigits, cred.Digits())
			}
			if cred.Algorithm() != tt.wantAlgorithm {
				t.Errorf("expected algorithm %s, got %s", tt.wantAlgorithm, cred.Algorithm())
			}
			wantParams := tt.wantParameters
			if wantParams == nil {
				wantParams = map[string]string{}
			}
			if got := cred.Parameters(); !reflect.DeepEqual(got, wantParams) {
				t.Errorf("expected parameters %v, got %v", wantParams, got)
			}
		})
	}
}

// TestLoadFromProvisioningURIVariantParameters tests period, epoch and counter
func TestLoadFromProvisioningURIVariantParameters(t *testing.T) {
	cred, err := LoadFromProvisioningURI("otpauth://totp/alice?secret=" + testSecret + "&period=60&epoch=100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tp := cred.(*TOTP)
	if tp.Period() != 60 || tp.Epoch() != 100 {
		t.Errorf("expected period 60 and epoch 100, got %d and %d", tp.Period(), tp.Epoch())
	}

	cred, err = LoadFromProvisioningURI("otpauth://hotp/alice?secret=" + testSecret + "&counter=42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hp := cred.(*HOTP); hp.Counter() != 42 {
		t.Errorf("expected counter 42, got %d", hp.Counter())
	}
}

// TestLoadFromProvisioningURIErrors tests rejected provisioning URIs
func TestLoadFromProvisioningURIErrors(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantErr error
		wantMsg string
	}{
		{
			name:    "malformed",
			uri:     "otpauth://totp/al%zzice?secret=" + testSecret,
			wantErr: ErrMalformedURI,
		},
		{
			name:    "wrong scheme",
			uri:     "otpauth2://totp/alice?secret=" + testSecret,
			wantErr: ErrInvalidScheme,
		},
		{
			name:    "wrong scheme is reported before the host",
			uri:     "http://sms/alice?secret=" + testSecret,
			wantErr: ErrInvalidScheme,
		},
		{
			name:    "scheme is case sensitive",
			uri:     "OTPAUTH://totp/alice?secret=" + testSecret,
			wantErr: ErrInvalidScheme,
		},
		{
			name:    "unsupported type",
			uri:     "otpauth://sms/alice?secret=" + testSecret,
			wantErr: ErrUnsupportedType,
			wantMsg: `"sms"`,
		},
		{
			name:    "type is case sensitive",
			uri:     "otpauth://TOTP/alice?secret=" + testSecret,
			wantErr: ErrUnsupportedType,
			wantMsg: `"TOTP"`,
		},
		{
			name:    "missing secret",
			uri:     "otpauth://totp/alice?issuer=ACME",
			wantErr: ErrMissingSecret,
		},
		{
			name:    "missing secret for hotp",
			uri:     "otpauth://hotp/alice",
			wantErr: ErrMissingSecret,
		},
		{
			name:    "invalid secret",
			uri:     "otpauth://totp/alice?secret=1",
			wantErr: ErrInvalidSecret,
		},
		{
			name:    "issuer mismatch",
			uri:     "otpauth://totp/Example:alice?secret=" + testSecret + "&issuer=Other",
			wantErr: ErrInvalidIssuer,
			wantMsg: `"Example"`,
		},
		{
			name:    "issuer parameter against empty prefix",
			uri:     "otpauth://totp/:alice?secret=" + testSecret + "&issuer=Other",
			wantErr: ErrInvalidIssuer,
		},
		{
			name:    "invalid parameter",
			uri:     "otpauth://totp/alice?secret=" + testSecret + "&digits=5",
			wantErr: ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred, err := LoadFromProvisioningURI(tt.uri)
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if cred != nil {
				t.Errorf("expected no credential, got %T", cred)
			}
			if !errors.Is(err, ErrInvalidProvisioningURI) {
				t.Errorf("expected ErrInvalidProvisioningURI, got %v", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}

			var perr *ProvisioningError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ProvisioningError, got %T", err)
			}
			if !errors.Is(perr.Cause, tt.wantErr) {
				t.Errorf("expected cause %v, got %v", tt.wantErr, perr.Cause)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in error message, got %q", tt.wantMsg, err.Error())
			}
			if strings.Contains(err.Error(), testSecret) {
				t.Errorf("error message leaks the secret: %q", err.Error())
			}
		})
	}
}

// TestProvisioningErrorMessage tests the error text of the wrapper
func TestProvisioningErrorMessage(t *testing.T) {
	err := &ProvisioningError{Cause: ErrMissingSecret}
	if got, want := err.Error(), "otp: not a valid provisioning uri: otp: missing secret"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	err = &ProvisioningError{}
	if got, want := err.Error(), "otp: not a valid provisioning uri"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestLabelFromPath tests label derivation and its idempotence
func TestLabelFromPath(t *testing.T) {
	tests := []struct {
		path         string
		wantLabel    string
		wantSegments []string
	}{
		{path: "/alice", wantLabel: "alice", wantSegments: []string{"alice"}},
		{path: "/Example:alice", wantLabel: "alice", wantSegments: []string{"Example", "alice"}},
		{path: "/ACME%20Co:john%40example.com", wantLabel: "john@example.com", wantSegments: []string{"ACME Co", "john@example.com"}},
		{path: "/a:b:c", wantLabel: "a", wantSegments: []string{"a", "b", "c"}},
		{path: "/Example%3Aalice", wantLabel: "alice", wantSegments: []string{"Example", "alice"}},
		{path: "/", wantLabel: "", wantSegments: []string{""}},
		{path: "", wantLabel: "", wantSegments: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			for i := 0; i < 2; i++ {
				label, err := labelFromPath(tt.path)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if label != tt.wantLabel {
					t.Errorf("expected label %q, got %q", tt.wantLabel, label)
				}
				segments, err := splitPath(tt.path)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !reflect.DeepEqual(segments, tt.wantSegments) {
					t.Errorf("expected segments %q, got %q", tt.wantSegments, segments)
				}
			}
		})
	}
}
