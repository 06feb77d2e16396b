package poslicense

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"sync"
	"testing"
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
	testKeyErr  error
)

// vendorKey returns a 2048-bit key shared by the tests in this package.
func vendorKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	testKeyOnce.Do(func() {
		testKey, testKeyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if testKeyErr != nil {
		t.Fatalf("generate key: %v", testKeyErr)
	}
	return testKey
}

// otherKey returns a fresh key unrelated to vendorKey.
func otherKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return k
}

// signRaw mimics the vendor tool: SHA-256 then PKCS#1 v1.5 over raw bytes.
func signRaw(t *testing.T, priv *rsa.PrivateKey, raw []byte) []byte {
	t.Helper()
	digest := sha256.Sum256(raw)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return sig
}

// issueToken encodes p, signs it with priv and packs the token.
func issueToken(t *testing.T, priv *rsa.PrivateKey, p *Payload) string {
	t.Helper()
	raw, err := EncodePayload(p)
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	return PackToken(raw, signRaw(t, priv, raw))
}

func samplePayload() *Payload {
	return &Payload{
		CustomerName: "Admin",
		DeviceHash:   "E0D6BC17",
		ExpiryDate:   "2030-12-31",
		Features:     []string{"pos", "reports"},
		IssueDate:    "2025-01-15",
		LicenseType:  LicenseFull,
		VersionLimit: "2.x",
	}
}
