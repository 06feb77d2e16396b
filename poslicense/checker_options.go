package poslicense

import (
	"log/slog"
	"time"
)

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithDeviceFingerprint fixes the fingerprint compared against device-bound
// licenses, for callers that compute or persist it themselves.
// An empty fingerprint disables the device check.
func WithDeviceFingerprint(fp string) CheckerOption {
	return func(c *Checker) {
		c.fingerprint = func() string { return fp }
	}
}

// WithFingerprintFunc sets the function used to obtain the current device
// fingerprint. Default: DeviceFingerprint.
func WithFingerprintFunc(fn func() string) CheckerOption {
	return func(c *Checker) {
		if fn != nil {
			c.fingerprint = fn
		}
	}
}

// WithClock sets the time source used for expiry checks. Default: time.Now.
func WithClock(now func() time.Time) CheckerOption {
	return func(c *Checker) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger for check outcomes. Logs never contain key
// material or signatures. Default: discard.
func WithLogger(l *slog.Logger) CheckerOption {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}
