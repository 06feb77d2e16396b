package poslicense

import (
	"crypto/rsa"
	"errors"
	"log/slog"
	"time"
)

// Checker verifies license tokens against the vendor's public key.
//
// It holds no private key material and cannot issue licenses. A Checker is
// immutable after NewChecker returns and is safe for concurrent use.
type Checker struct {
	publicKey   *rsa.PublicKey
	fingerprint func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewChecker creates a Checker trusting publicKey, normally the key embedded
// in the application at build time.
func NewChecker(publicKey *rsa.PublicKey, opts ...CheckerOption) *Checker {
	c := &Checker{
		publicKey:   publicKey,
		fingerprint: DeviceFingerprint,
		now:         time.Now,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "poslicense")
	return c
}

// CurrentDeviceFingerprint returns the fingerprint the checker compares
// against device-bound licenses.
func (c *Checker) CurrentDeviceFingerprint() string {
	return c.fingerprint()
}

// CheckLicenseStatus decodes, authenticates and validates a stored token.
//
// The steps are:
//  1. Unpack the base64 segments (INVALID_FORMAT on failure, INVALID_SIGNATURE
//     when a segment is not the canonical encoding)
//  2. Decode the payload claims (INVALID_FORMAT on failure)
//  3. Verify the signature over the raw payload bytes (INVALID_SIGNATURE)
//  4. Apply expiry and device rules via Validate
func (c *Checker) CheckLicenseStatus(token string) Result {
	payloadBytes, sig, err := UnpackToken(token)
	if errors.Is(err, ErrNonCanonicalEncoding) {
		c.logger.Debug("license token rejected", "reason", ReasonInvalidSignature, "error", err)
		return failed(ReasonInvalidSignature, nil)
	}
	if err != nil {
		c.logger.Debug("license token rejected", "reason", ReasonInvalidFormat, "error", err)
		return failed(ReasonInvalidFormat, nil)
	}

	payload, err := DecodePayload(payloadBytes)
	if err != nil {
		c.logger.Debug("license payload rejected", "reason", ReasonInvalidFormat, "error", err)
		return failed(ReasonInvalidFormat, nil)
	}

	if !VerifySignature(payloadBytes, sig, c.publicKey) {
		c.logger.Debug("license signature rejected", "reason", ReasonInvalidSignature)
		return failed(ReasonInvalidSignature, nil)
	}

	result := Validate(payload, c.fingerprint(), c.now())
	c.logger.Debug("license checked",
		"reason", result.Reason,
		"customer", payload.CustomerName,
		"license_type", payload.LicenseType,
	)
	return result
}
