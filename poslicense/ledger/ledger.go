// Package ledger records the licenses issued by the vendor tool.
//
// The ledger is vendor-side bookkeeping only: it lets support staff look up
// which tokens went to which customer or device. The product never consults
// it and licenses cannot be revoked through it.
package ledger

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/CloudNativeWorks/pos-license-sdk/poslicense"
)

// ErrNotFound is returned by Get when no record has the requested ID.
var ErrNotFound = errors.New("ledger record not found")

// validIdentifier matches safe table and collection names.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Record is one issued license.
type Record struct {
	ID           string    `json:"id" bson:"_id"`
	CustomerName string    `json:"customer_name" bson:"customer_name"`
	DeviceHash   string    `json:"device_hash" bson:"device_hash"`
	LicenseType  string    `json:"license_type" bson:"license_type"`
	ExpiryDate   string    `json:"expiry_date" bson:"expiry_date"`
	IssueDate    string    `json:"issue_date" bson:"issue_date"`
	Features     []string  `json:"features" bson:"features"`
	VersionLimit string    `json:"version_limit" bson:"version_limit"`
	Token        string    `json:"token" bson:"token"`
	IssuedAt     time.Time `json:"issued_at" bson:"issued_at"`
}

// NewRecord builds a ledger record for a signed payload and its token.
func NewRecord(p *poslicense.Payload, token string, issuedAt time.Time) Record {
	features := append([]string{}, p.Features...)
	return Record{
		ID:           uuid.NewString(),
		CustomerName: p.CustomerName,
		DeviceHash:   p.DeviceHash,
		LicenseType:  string(p.LicenseType),
		ExpiryDate:   p.ExpiryDate,
		IssueDate:    p.IssueDate,
		Features:     features,
		VersionLimit: p.VersionLimit,
		Token:        token,
		IssuedAt:     issuedAt.UTC(),
	}
}

// Ledger stores issued license records.
type Ledger interface {
	// Record stores a new record.
	Record(ctx context.Context, rec Record) (*Record, error)

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// ListByCustomer returns all records for a customer, oldest first.
	ListByCustomer(ctx context.Context, customerName string) ([]Record, error)

	// ListByDevice returns all records bound to a device fingerprint, oldest first.
	ListByDevice(ctx context.Context, deviceHash string) ([]Record, error)

	// List returns every record, oldest first.
	List(ctx context.Context) ([]Record, error)

	// Count returns the number of licenses issued to a customer.
	Count(ctx context.Context, customerName string) (int, error)

	// Close releases any resources held by the ledger.
	Close(ctx context.Context) error
}
