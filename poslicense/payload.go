package poslicense

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// requiredFields must be present in every serialized payload.
var requiredFields = []string{"customer_name", "features", "issue_date", "license_type"}

// EncodePayload produces the canonical byte form of p that the issuer signs.
//
// The output is compact JSON with keys in the fixed Payload field order,
// absent optional claims omitted, HTML characters left unescaped and no
// trailing newline. Identical payloads always encode to identical bytes.
func EncodePayload(p *Payload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil payload", ErrInvalidFormat)
	}
	c := *p
	if c.Features == nil {
		c.Features = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&c); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodePayload parses canonical payload bytes.
// Claims are read by exact key; keys differing only in case are ignored
// like any other unknown key. Malformed input returns an error wrapping
// ErrInvalidFormat.
func DecodePayload(raw []byte) (*Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: payload is not an object", ErrInvalidFormat)
	}
	for _, name := range requiredFields {
		v, ok := fields[name]
		if !ok || string(v) == "null" {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidFormat, ErrMissingField, name)
		}
	}

	var p Payload
	claims := []struct {
		name string
		dst  any
	}{
		{"customer_name", &p.CustomerName},
		{"device_hash", &p.DeviceHash},
		{"expiry_date", &p.ExpiryDate},
		{"features", &p.Features},
		{"issue_date", &p.IssueDate},
		{"license_type", &p.LicenseType},
		{"version_limit", &p.VersionLimit},
	}
	for _, c := range claims {
		v, ok := fields[c.name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, c.dst); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, c.name, err)
		}
	}

	if !p.LicenseType.Valid() {
		return nil, fmt.Errorf("%w: unknown license type %q", ErrInvalidFormat, p.LicenseType)
	}
	if err := checkDate("issue_date", p.IssueDate); err != nil {
		return nil, err
	}
	if p.ExpiryDate != "" {
		if err := checkDate("expiry_date", p.ExpiryDate); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func checkDate(field, value string) error {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return fmt.Errorf("%w: %s %q is not YYYY-MM-DD", ErrInvalidFormat, field, value)
	}
	return nil
}
