package poslicense

import "time"

// LicenseType is the tier a license grants.
type LicenseType string

const (
	LicenseFull      LicenseType = "full"
	LicenseUnlimited LicenseType = "unlimited"
	LicenseTrial     LicenseType = "trial"
	LicenseCustom    LicenseType = "custom"
)

// Valid reports whether t is one of the known license types.
func (t LicenseType) Valid() bool {
	switch t {
	case LicenseFull, LicenseUnlimited, LicenseTrial, LicenseCustom:
		return true
	}
	return false
}

// DateLayout is the calendar date format used by expiry_date and issue_date.
const DateLayout = "2006-01-02"

// Payload contains the signed license claims.
//
// Field order is the serialization order and is part of the wire contract:
// the issuer signs exactly these bytes. Do not reorder fields.
// An empty optional string means the claim is absent.
type Payload struct {
	CustomerName string      `json:"customer_name"`
	DeviceHash   string      `json:"device_hash,omitempty"`
	ExpiryDate   string      `json:"expiry_date,omitempty"`
	Features     []string    `json:"features"`
	IssueDate    string      `json:"issue_date"`
	LicenseType  LicenseType `json:"license_type"`
	VersionLimit string      `json:"version_limit,omitempty"`
}

// ExpiresAt returns the last instant at which the license is still valid:
// the end of ExpiryDate in UTC. ok is false when the license never expires
// or the date cannot be parsed.
func (p *Payload) ExpiresAt() (t time.Time, ok bool) {
	if p == nil || p.ExpiryDate == "" {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(DateLayout, p.ExpiryDate, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond), true
}

// Reason tags the outcome of a license check.
type Reason string

const (
	ReasonActive           Reason = "ACTIVE"
	ReasonInvalidFormat    Reason = "INVALID_FORMAT"
	ReasonInvalidSignature Reason = "INVALID_SIGNATURE"
	ReasonExpired          Reason = "EXPIRED"
	ReasonDeviceMismatch   Reason = "DEVICE_MISMATCH"
)

// Result is the outcome of validating a license token.
// Active is true only when Reason is ReasonActive, in which case Payload is set.
// EXPIRED and DEVICE_MISMATCH results also carry the authenticated payload.
type Result struct {
	Active  bool     `json:"active"`
	Reason  Reason   `json:"reason"`
	Payload *Payload `json:"payload,omitempty"`
}

// DaysRemaining returns the number of whole days left before the license
// expires, relative to now. It returns -1 for licenses without an expiry
// date and 0 once the license has expired.
func (r Result) DaysRemaining(now time.Time) int {
	end, ok := r.Payload.ExpiresAt()
	if !ok {
		return -1
	}
	left := end.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left / (24 * time.Hour))
}

func failed(reason Reason, p *Payload) Result {
	return Result{Active: false, Reason: reason, Payload: p}
}
