package poslicense

import "errors"

// Sentinel errors for token and payload decoding.
var (
	ErrInvalidFormat = errors.New("invalid license format")
	ErrMissingField  = errors.New("missing required field")

	// ErrNonCanonicalEncoding marks a segment that decodes but is not the
	// exact base64 the issuer produced.
	ErrNonCanonicalEncoding = errors.New("non-canonical token encoding")
)

// Sentinel errors for key material.
var (
	ErrPublicKeyInvalid = errors.New("invalid public key")
)
