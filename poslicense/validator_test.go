package poslicense

import (
	"testing"
	"time"
)

func TestValidate_ExpiryBoundary(t *testing.T) {
	p := samplePayload()
	p.DeviceHash = ""

	tests := []struct {
		name string
		now  time.Time
		want Reason
	}{
		{name: "well before", now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), want: ReasonActive},
		{name: "start of expiry day", now: time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC), want: ReasonActive},
		{name: "last second of expiry day", now: time.Date(2030, 12, 31, 23, 59, 59, 0, time.UTC), want: ReasonActive},
		{name: "last nanosecond of expiry day", now: time.Date(2030, 12, 31, 23, 59, 59, 999999999, time.UTC), want: ReasonActive},
		{name: "next midnight", now: time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC), want: ReasonExpired},
		{name: "next midnight in UTC+3", now: time.Date(2031, 1, 1, 3, 0, 0, 0, time.FixedZone("AST", 3*3600)), want: ReasonExpired},
		{name: "years later", now: time.Date(2040, 6, 1, 0, 0, 0, 0, time.UTC), want: ReasonExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(p, "", tt.now)
			if got.Reason != tt.want {
				t.Errorf("Validate() reason = %s, want %s", got.Reason, tt.want)
			}
			if got.Active != (tt.want == ReasonActive) {
				t.Errorf("Validate() active = %v for reason %s", got.Active, got.Reason)
			}
			if got.Payload != p {
				t.Error("expected authenticated payload on result")
			}
		})
	}
}

func TestValidate_NoExpiry(t *testing.T) {
	p := samplePayload()
	p.ExpiryDate = ""
	got := Validate(p, "E0D6BC17", time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC))
	if !got.Active {
		t.Errorf("license without expiry should stay active, got %s", got.Reason)
	}
}

func TestValidate_DeviceBinding(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		deviceHash  string
		fingerprint string
		want        Reason
	}{
		{name: "match", deviceHash: "ABC123", fingerprint: "ABC123", want: ReasonActive},
		{name: "mismatch", deviceHash: "ABC123", fingerprint: "XYZ999", want: ReasonDeviceMismatch},
		{name: "case sensitive", deviceHash: "ABC123", fingerprint: "abc123", want: ReasonDeviceMismatch},
		{name: "unbound license", deviceHash: "", fingerprint: "XYZ999", want: ReasonActive},
		{name: "no fingerprint supplied", deviceHash: "ABC123", fingerprint: "", want: ReasonActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := samplePayload()
			p.DeviceHash = tt.deviceHash
			got := Validate(p, tt.fingerprint, now)
			if got.Reason != tt.want {
				t.Errorf("Validate() reason = %s, want %s", got.Reason, tt.want)
			}
		})
	}
}

func TestValidate_ExpiryCheckedBeforeDevice(t *testing.T) {
	got := Validate(samplePayload(), "FFFFFFFF", time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC))
	if got.Reason != ReasonExpired {
		t.Errorf("expected EXPIRED to win over DEVICE_MISMATCH, got %s", got.Reason)
	}
}

func TestValidate_NilPayload(t *testing.T) {
	got := Validate(nil, "", time.Now())
	if got.Active || got.Reason != ReasonInvalidFormat || got.Payload != nil {
		t.Errorf("unexpected result for nil payload: %+v", got)
	}
}

func TestValidate_UnparseableExpiry(t *testing.T) {
	p := samplePayload()
	p.ExpiryDate = "31/12/2030"
	got := Validate(p, "", time.Now())
	if got.Reason != ReasonInvalidFormat {
		t.Errorf("expected INVALID_FORMAT, got %s", got.Reason)
	}
}

func TestHasFeature(t *testing.T) {
	tests := []struct {
		name        string
		licenseType LicenseType
		features    []string
		feature     string
		want        bool
	}{
		{name: "full grants anything", licenseType: LicenseFull, feature: "advanced_reports", want: true},
		{name: "full grants empty name", licenseType: LicenseFull, feature: "", want: true},
		{name: "unlimited grants anything", licenseType: LicenseUnlimited, feature: "cloud_sync", want: true},
		{name: "custom listed", licenseType: LicenseCustom, features: []string{"reports"}, feature: "reports", want: true},
		{name: "custom unlisted", licenseType: LicenseCustom, features: []string{"reports"}, feature: "inventory", want: false},
		{name: "custom case sensitive", licenseType: LicenseCustom, features: []string{"reports"}, feature: "Reports", want: false},
		{name: "trial listed", licenseType: LicenseTrial, features: []string{"pos", "products"}, feature: "pos", want: true},
		{name: "trial empty", licenseType: LicenseTrial, feature: "pos", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Payload{LicenseType: tt.licenseType, Features: tt.features}
			if got := HasFeature(p, tt.feature); got != tt.want {
				t.Errorf("HasFeature(%q) = %v, want %v", tt.feature, got, tt.want)
			}
		})
	}

	if HasFeature(nil, "pos") {
		t.Error("HasFeature(nil) should be false")
	}
}

func TestIsVersionAllowed(t *testing.T) {
	tests := []struct {
		limit   string
		version string
		want    bool
	}{
		{limit: "", version: "9.9.9", want: true},
		{limit: "2.x", version: "2.0.4", want: true},
		{limit: "2.x", version: "2.10", want: true},
		{limit: "2.x", version: "3.0.0", want: false},
		{limit: "2.x", version: "20.1", want: false},
		{limit: "2.*", version: "2.1", want: true},
		{limit: "2.X", version: "2.1", want: true},
		{limit: "2.1.x", version: "2.1.7", want: true},
		{limit: "2.1.x", version: "2.2.0", want: false},
		{limit: "2.0.4", version: "2.0.4", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.limit+"/"+tt.version, func(t *testing.T) {
			p := &Payload{VersionLimit: tt.limit}
			if got := IsVersionAllowed(p, tt.version); got != tt.want {
				t.Errorf("IsVersionAllowed(%q, %q) = %v, want %v", tt.limit, tt.version, got, tt.want)
			}
		})
	}

	if IsVersionAllowed(nil, "2.0.0") {
		t.Error("IsVersionAllowed(nil) should be false")
	}
}

func TestResult_DaysRemaining(t *testing.T) {
	p := &Payload{ExpiryDate: "2030-12-31"}
	res := Result{Payload: p}

	if got := res.DaysRemaining(time.Date(2030, 12, 21, 0, 0, 0, 0, time.UTC)); got != 10 {
		t.Errorf("DaysRemaining() = %d, want 10", got)
	}
	if got := res.DaysRemaining(time.Date(2031, 1, 2, 0, 0, 0, 0, time.UTC)); got != 0 {
		t.Errorf("DaysRemaining() after expiry = %d, want 0", got)
	}
	if got := (Result{Payload: &Payload{}}).DaysRemaining(time.Now()); got != -1 {
		t.Errorf("DaysRemaining() without expiry = %d, want -1", got)
	}
	if got := (Result{}).DaysRemaining(time.Now()); got != -1 {
		t.Errorf("DaysRemaining() without payload = %d, want -1", got)
	}
}
