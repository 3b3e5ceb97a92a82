// Package otp loads TOTP (RFC 6238) and HOTP (RFC 4226) credentials from
// otpauth provisioning URIs and validates the codes they produce.
//
// A provisioning URI is what authenticator apps scan from a QR code:
//
//	otpauth://totp/ACME:alice@example.com?secret=JBSWY3DPEHPK3PXP&issuer=ACME&digits=6&period=30
//
// The host selects the credential type, the path carries the account label
// with an optional "issuer:" prefix, and the query carries the secret and
// the remaining parameters.
//
// # Loading a Credential
//
//	cred, err := otp.LoadFromProvisioningURI(uri)
//	if err != nil {
//	    // errors.Is(err, otp.ErrInvalidProvisioningURI) is always true here.
//	    // errors.Is(err, otp.ErrInvalidIssuer), otp.ErrUnsupportedType, ...
//	    // identify the reason.
//	    log.Fatal(err)
//	}
//
//	switch c := cred.(type) {
//	case *otp.TOTP:
//	    code, _ := c.Now()
//	case *otp.HOTP:
//	    code, _ := c.At(c.Counter())
//	}
//
// Parameters are applied in the order they appear in the URI. Recognized
// keys are issuer, digits, algorithm and image for both types, period and
// epoch for TOTP, and counter for HOTP. Other keys are kept and reported by
// Credential.Parameters.
//
// When the label has an issuer prefix and the URI also has an issuer
// parameter, the two must be equal. The prefix always becomes the credential
// issuer; IssuerIncludedAsParameter records whether the parameter was present.
//
// # Validating Codes
//
// An Authenticator validates codes for a single credential:
//
//	auth, err := otp.NewAuthenticatorFromURI(uri, 1) // 1 period of clock skew
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = auth.Authenticate(ctx, "123456")
//
// Authenticators can also be built from a Config:
//
//	auth, err := otp.NewAuthenticator(otp.Config{
//	    Type:   otp.TypeHOTP,
//	    Secret: "JBSWY3DPEHPK3PXP",
//	    Label:  "user@example.com",
//	})
//
//	newCounter, err := auth.ValidateCounter(ctx, "123456", currentCounter)
//
// # Hash Algorithms
//
// The package supports multiple hash algorithms:
//   - AlgorithmSHA1 (default, widely supported)
//   - AlgorithmSHA256
//   - AlgorithmSHA512
//
// Note that not all authenticator apps support SHA256 and SHA512.
//
// # Thread Safety
//
// LoadFromProvisioningURI keeps no state and may be called concurrently.
// Credentials are not safe for concurrent modification. The Authenticator
// type is safe for concurrent use.
package otp
