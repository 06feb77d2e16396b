package issuer

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/CloudNativeWorks/pos-license-sdk/poslicense"
)

// KeyBits is the RSA modulus size of generated vendor keys.
const KeyBits = 2048

// ErrPrivateKeyInvalid is returned when private key PEM cannot be used for signing.
var ErrPrivateKeyInvalid = errors.New("invalid private key")

// KeyPair holds a vendor key pair in PEM form.
// PrivateKeyPEM is PKCS#8 and must stay with the vendor;
// PublicKeyPEM is SPKI and is embedded in the product.
type KeyPair struct {
	PrivateKeyPEM []byte
	PublicKeyPEM  []byte
}

// GenerateKeyPair creates a new 2048-bit RSA vendor key pair.
// It is run once per deployment; the output is persisted by the vendor.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, KeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("marshal private key: %w", err)
	}
	pub, err := poslicense.EncodePublicKeyPEM(&priv.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}

	return &KeyPair{
		PrivateKeyPEM: pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}),
		PublicKeyPEM:  pub,
	}, nil
}

// ParsePrivateKeyPEM parses a PKCS#8 "PRIVATE KEY" or PKCS#1
// "RSA PRIVATE KEY" block holding an RSA key of at least 2048 bits.
func ParsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrPrivateKeyInvalid)
	}

	var priv *rsa.PrivateKey
	switch block.Type {
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPrivateKeyInvalid, err)
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: key type %T, expected RSA", ErrPrivateKeyInvalid, key)
		}
		priv = rsaKey
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPrivateKeyInvalid, err)
		}
		priv = key
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrPrivateKeyInvalid, block.Type)
	}

	if bits := priv.N.BitLen(); bits < poslicense.MinKeyBits {
		return nil, fmt.Errorf("%w: key length %d bits, expected at least %d", ErrPrivateKeyInvalid, bits, poslicense.MinKeyBits)
	}
	return priv, nil
}
