package poslicense

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
)

// VerifySignature reports whether signature is a valid RSASSA-PKCS1-v1_5
// SHA-256 signature of payload under pub.
//
// Every failure, including a nil key or malformed signature bytes, is
// reported as false with no further detail.
func VerifySignature(payload, signature []byte, pub *rsa.PublicKey) bool {
	if pub == nil || pub.N == nil || len(signature) != pub.Size() {
		return false
	}
	digest := sha256.Sum256(payload)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], signature) == nil
}
