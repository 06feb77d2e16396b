package poslicense

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// TokenDelimiter separates the payload and signature segments of a token.
const TokenDelimiter = "."

// PackToken joins payload and signature bytes into the external token form
// base64(payload) + "." + base64(signature), using the standard alphabet.
func PackToken(payload, signature []byte) string {
	return base64.StdEncoding.EncodeToString(payload) +
		TokenDelimiter +
		base64.StdEncoding.EncodeToString(signature)
}

// UnpackToken splits a token into its raw payload and signature bytes.
// Surrounding whitespace is ignored. A token without exactly one delimiter,
// with an empty segment or with invalid base64 returns an error wrapping
// ErrInvalidFormat. A segment that only decodes when its unused trailing
// bits are ignored returns an error wrapping ErrNonCanonicalEncoding, so
// every accepted token has exactly one spelling.
func UnpackToken(token string) (payload, signature []byte, err error) {
	parts := strings.Split(strings.TrimSpace(token), TokenDelimiter)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("%w: expected 2 token segments, got %d", ErrInvalidFormat, len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return nil, nil, fmt.Errorf("%w: empty token segment", ErrInvalidFormat)
	}

	if payload, err = decodeSegment(parts[0]); err != nil {
		return nil, nil, fmt.Errorf("payload segment: %w", err)
	}
	if signature, err = decodeSegment(parts[1]); err != nil {
		return nil, nil, fmt.Errorf("signature segment: %w", err)
	}
	return payload, signature, nil
}

func decodeSegment(s string) ([]byte, error) {
	// The decoder skips line breaks, which would give one segment many spellings.
	if strings.ContainsAny(s, "\r\n") {
		return nil, fmt.Errorf("%w: line break inside segment", ErrInvalidFormat)
	}
	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err == nil {
		return b, nil
	}
	if _, lerr := base64.StdEncoding.DecodeString(s); lerr == nil {
		return nil, fmt.Errorf("%w: non-zero trailing bits", ErrNonCanonicalEncoding)
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
}
