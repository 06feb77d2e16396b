// Package issuer signs license tokens on the vendor side.
//
// It is the only package that touches the vendor's private key. Product
// builds must import poslicense alone.
package issuer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/CloudNativeWorks/pos-license-sdk/poslicense"
)

// ErrInvalidRequest is returned when an issue request fails validation.
var ErrInvalidRequest = errors.New("invalid issue request")

// DefaultFeatures is the feature set granted by the standard license.
var DefaultFeatures = []string{"pos", "products", "customers", "reports", "settings", "users", "backup"}

// Defaults applied by DefaultRequest.
const (
	DefaultCustomerName = "Admin"
	DefaultVersionLimit = "2.x"
)

// Request describes the license to issue.
type Request struct {
	CustomerName string                 `yaml:"customer_name" validate:"required,max=256"`
	DeviceHash   string                 `yaml:"device_hash" validate:"omitempty,max=128,printascii"`
	ExpiryDate   string                 `yaml:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	Features     []string               `yaml:"features" validate:"dive,required,printascii"`
	LicenseType  poslicense.LicenseType `yaml:"license_type" validate:"required,oneof=full unlimited trial custom"`
	VersionLimit string                 `yaml:"version_limit" validate:"omitempty,max=32,printascii"`
}

// DefaultRequest returns the standard full license request for deviceHash.
func DefaultRequest(deviceHash string) Request {
	return Request{
		CustomerName: DefaultCustomerName,
		DeviceHash:   deviceHash,
		Features:     append([]string(nil), DefaultFeatures...),
		LicenseType:  poslicense.LicenseFull,
		VersionLimit: DefaultVersionLimit,
	}
}

// Issued is a freshly signed license.
type Issued struct {
	Token   string
	Payload *poslicense.Payload
}

// Issuer signs license payloads with the vendor's private key.
type Issuer struct {
	privateKey *rsa.PrivateKey
	now        func() time.Time
	validate   *validator.Validate
}

// New creates an Issuer signing with priv.
func New(priv *rsa.PrivateKey, opts ...Option) *Issuer {
	is := &Issuer{
		privateKey: priv,
		now:        time.Now,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(is)
	}
	return is
}

// Issue validates req, builds the payload with today's issue date (UTC),
// signs its canonical bytes and returns the token.
func (is *Issuer) Issue(req Request) (*Issued, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.DeviceHash = strings.ToUpper(strings.TrimSpace(req.DeviceHash))
	req.ExpiryDate = strings.TrimSpace(req.ExpiryDate)
	req.VersionLimit = strings.TrimSpace(req.VersionLimit)

	if err := is.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	features := req.Features
	if features == nil {
		features = []string{}
	}
	payload := &poslicense.Payload{
		CustomerName: req.CustomerName,
		DeviceHash:   req.DeviceHash,
		ExpiryDate:   req.ExpiryDate,
		Features:     features,
		IssueDate:    is.now().UTC().Format(poslicense.DateLayout),
		LicenseType:  req.LicenseType,
		VersionLimit: req.VersionLimit,
	}

	raw, err := poslicense.EncodePayload(payload)
	if err != nil {
		return nil, err
	}
	sig, err := Sign(raw, is.privateKey)
	if err != nil {
		return nil, err
	}
	return &Issued{Token: poslicense.PackToken(raw, sig), Payload: payload}, nil
}

// Sign produces an RSASSA-PKCS1-v1_5 SHA-256 signature over payload.
func Sign(payload []byte, priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: nil key", ErrPrivateKeyInvalid)
	}
	digest := sha256.Sum256(payload)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("sign payload: %w", err)
	}
	return sig, nil
}
