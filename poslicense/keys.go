package poslicense

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// MinKeyBits is the smallest RSA modulus accepted as a trust anchor.
const MinKeyBits = 2048

// ParsePublicKeyPEM parses the vendor's RSA public key from PEM text.
// It accepts SPKI "PUBLIC KEY" blocks and PKCS#1 "RSA PUBLIC KEY" blocks.
func ParsePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrPublicKeyInvalid)
	}

	var pub *rsa.PublicKey
	switch block.Type {
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPublicKeyInvalid, err)
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: key type %T, expected RSA", ErrPublicKeyInvalid, key)
		}
		pub = rsaKey
	case "RSA PUBLIC KEY":
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPublicKeyInvalid, err)
		}
		pub = key
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrPublicKeyInvalid, block.Type)
	}

	if bits := pub.N.BitLen(); bits < MinKeyBits {
		return nil, fmt.Errorf("%w: key length %d bits, expected at least %d", ErrPublicKeyInvalid, bits, MinKeyBits)
	}
	return pub, nil
}

// MustParsePublicKeyPEM is like ParsePublicKeyPEM but panics on error.
// It is meant for public keys embedded in the binary at build time, where a
// malformed key means a broken build.
func MustParsePublicKeyPEM(data []byte) *rsa.PublicKey {
	pub, err := ParsePublicKeyPEM(data)
	if err != nil {
		panic(fmt.Sprintf("poslicense: embedded public key: %v", err))
	}
	return pub
}

// EncodePublicKeyPEM returns the SPKI PEM form of pub.
func EncodePublicKeyPEM(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPublicKeyInvalid, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}
