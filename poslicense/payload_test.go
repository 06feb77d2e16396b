package poslicense

import (
	"errors"
	"reflect"
	"testing"
)

func TestEncodePayload_CanonicalBytes(t *testing.T) {
	raw, err := EncodePayload(samplePayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"customer_name":"Admin","device_hash":"E0D6BC17","expiry_date":"2030-12-31",` +
		`"features":["pos","reports"],"issue_date":"2025-01-15","license_type":"full","version_limit":"2.x"}`
	if string(raw) != want {
		t.Errorf("canonical bytes mismatch\n got: %s\nwant: %s", raw, want)
	}
}

func TestEncodePayload_OmitsAbsentFields(t *testing.T) {
	raw, err := EncodePayload(&Payload{
		CustomerName: "Shop",
		IssueDate:    "2025-01-15",
		LicenseType:  LicenseTrial,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"customer_name":"Shop","features":[],"issue_date":"2025-01-15","license_type":"trial"}`
	if string(raw) != want {
		t.Errorf("got %s, want %s", raw, want)
	}
}

func TestEncodePayload_NoHTMLEscaping(t *testing.T) {
	p := samplePayload()
	p.CustomerName = "Tom & Jerry <Market>"
	raw, err := EncodePayload(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"customer_name":"Tom & Jerry <Market>",`
	if string(raw[:len(want)]) != want {
		t.Errorf("got %s, want prefix %s", raw, want)
	}
}

func TestEncodePayload_Deterministic(t *testing.T) {
	first, _ := EncodePayload(samplePayload())
	for i := 0; i < 10; i++ {
		again, _ := EncodePayload(samplePayload())
		if string(again) != string(first) {
			t.Fatalf("encoding %d differs: %s != %s", i, again, first)
		}
	}
}

func TestEncodePayload_Nil(t *testing.T) {
	if _, err := EncodePayload(nil); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestPayload_RoundTrip(t *testing.T) {
	payloads := []*Payload{
		samplePayload(),
		{CustomerName: "Minimal", Features: []string{}, IssueDate: "2024-02-29", LicenseType: LicenseCustom},
		{CustomerName: "محل التجزئة", DeviceHash: "UNKNOWN-DEVICE-WIN32-X64", Features: []string{"inventory"},
			IssueDate: "2025-06-01", LicenseType: LicenseUnlimited},
	}
	for _, p := range payloads {
		t.Run(p.CustomerName, func(t *testing.T) {
			raw, err := EncodePayload(p)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := DecodePayload(raw)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(got, p) {
				t.Errorf("round trip mismatch: got %+v, want %+v", got, p)
			}
		})
	}
}

func TestDecodePayload_IgnoresUnknownKeys(t *testing.T) {
	raw := `{"customer_name":"Admin","features":[],"issue_date":"2025-01-15","license_type":"full","seats":3}`
	p, err := DecodePayload([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.CustomerName != "Admin" {
		t.Errorf("expected customer Admin, got %s", p.CustomerName)
	}
}

func TestDecodePayload_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantMissing bool
	}{
		{name: "not json", raw: "not json"},
		{name: "empty", raw: ""},
		{name: "array", raw: `["customer_name"]`},
		{name: "null", raw: `null`},
		{name: "missing customer_name", raw: `{"features":[],"issue_date":"2025-01-15","license_type":"full"}`, wantMissing: true},
		{name: "missing features", raw: `{"customer_name":"A","issue_date":"2025-01-15","license_type":"full"}`, wantMissing: true},
		{name: "null features", raw: `{"customer_name":"A","features":null,"issue_date":"2025-01-15","license_type":"full"}`, wantMissing: true},
		{name: "missing issue_date", raw: `{"customer_name":"A","features":[],"license_type":"full"}`, wantMissing: true},
		{name: "missing license_type", raw: `{"customer_name":"A","features":[],"issue_date":"2025-01-15"}`, wantMissing: true},
		{name: "unknown license type", raw: `{"customer_name":"A","features":[],"issue_date":"2025-01-15","license_type":"premium"}`},
		{name: "features not strings", raw: `{"customer_name":"A","features":[1,2],"issue_date":"2025-01-15","license_type":"full"}`},
		{name: "bad issue date", raw: `{"customer_name":"A","features":[],"issue_date":"15/01/2025","license_type":"full"}`},
		{name: "bad expiry date", raw: `{"customer_name":"A","expiry_date":"never","features":[],"issue_date":"2025-01-15","license_type":"full"}`},
		{name: "impossible expiry date", raw: `{"customer_name":"A","expiry_date":"2030-02-30","features":[],"issue_date":"2025-01-15","license_type":"full"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload([]byte(tt.raw))
			if !errors.Is(err, ErrInvalidFormat) {
				t.Fatalf("expected ErrInvalidFormat, got %v", err)
			}
			if tt.wantMissing && !errors.Is(err, ErrMissingField) {
				t.Errorf("expected ErrMissingField, got %v", err)
			}
		})
	}
}

func TestDecodePayload_KeysAreCaseSensitive(t *testing.T) {
	raw := []byte(`{"customer_name":"Admin","features":[],"issue_date":"2025-01-15",` +
		`"license_type":"trial","LICENSE_TYPE":"full","Device_Hash":"FFFFFFFF"}`)
	p, err := DecodePayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.LicenseType != LicenseTrial {
		t.Errorf("LicenseType = %q, want %q", p.LicenseType, LicenseTrial)
	}
	if p.DeviceHash != "" {
		t.Errorf("DeviceHash = %q, want empty", p.DeviceHash)
	}

	// A required claim spelled in another case is still missing.
	_, err = DecodePayload([]byte(`{"Customer_Name":"Admin","features":[],"issue_date":"2025-01-15","license_type":"full"}`))
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
}
