package poslicense

import (
	"slices"
	"strings"
	"time"
)

// Validate applies the license rules to an authenticated payload.
//
// The checks run in order and stop at the first failure:
//  1. A nil payload is INVALID_FORMAT
//  2. expiry_date is end-of-day inclusive in UTC; now strictly after it is EXPIRED
//  3. device_hash, when both it and deviceFingerprint are set, must equal the
//     fingerprint exactly, otherwise DEVICE_MISMATCH
//
// Signature verification is the caller's job; see Checker.
func Validate(p *Payload, deviceFingerprint string, now time.Time) Result {
	if p == nil {
		return failed(ReasonInvalidFormat, nil)
	}

	if p.ExpiryDate != "" {
		end, ok := p.ExpiresAt()
		if !ok {
			return failed(ReasonInvalidFormat, nil)
		}
		if now.After(end) {
			return failed(ReasonExpired, p)
		}
	}

	if p.DeviceHash != "" && deviceFingerprint != "" && p.DeviceHash != deviceFingerprint {
		return failed(ReasonDeviceMismatch, p)
	}

	return Result{Active: true, Reason: ReasonActive, Payload: p}
}

// HasFeature reports whether the license grants the named feature.
// Full and unlimited licenses grant every feature.
func HasFeature(p *Payload, feature string) bool {
	if p == nil {
		return false
	}
	if p.LicenseType == LicenseFull || p.LicenseType == LicenseUnlimited {
		return true
	}
	return slices.Contains(p.Features, feature)
}

// IsVersionAllowed reports whether version falls under the license's
// version_limit. A limit such as "2.x" permits every version starting
// with "2."; no limit permits every version.
func IsVersionAllowed(p *Payload, version string) bool {
	if p == nil {
		return false
	}
	if p.VersionLimit == "" {
		return true
	}
	prefix := strings.TrimRight(p.VersionLimit, "xX*")
	return strings.HasPrefix(version, prefix)
}
