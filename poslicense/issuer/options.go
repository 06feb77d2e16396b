package issuer

import "time"

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock sets the time source for the issue_date claim. Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(is *Issuer) {
		if now != nil {
			is.now = now
		}
	}
}
