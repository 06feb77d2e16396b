// Package poslicense verifies offline, RSA-signed license tokens for the POS
// desktop application.
//
// Install with:
//
//	go get github.com/CloudNativeWorks/pos-license-sdk/poslicense
//
// A token has the form base64(payload) + "." + base64(signature), where the
// payload is the canonical JSON encoding of the license claims and the
// signature is RSASSA-PKCS1-v1_5 over SHA-256. Verification needs no network
// access; the vendor's public key, embedded in the application, is the only
// trust anchor.
//
// This package contains no signing code. Licenses are issued by the vendor
// tool using the issuer subpackage, which must never be linked into the
// product.
//
// # Quick Start
//
//	//go:embed public_key.pem
//	var publicKeyPEM []byte
//
//	checker := poslicense.NewChecker(poslicense.MustParsePublicKeyPEM(publicKeyPEM))
//	res := checker.CheckLicenseStatus(storedToken)
//	if !res.Active {
//	    // map res.Reason to a message for the user
//	}
//	if poslicense.HasFeature(res.Payload, "reports") { ... }
//
// # Device Binding
//
// A license may carry the device_hash of the machine it was issued for.
// DeviceFingerprint computes the value to show to the customer during
// activation and to compare during verification.
package poslicense
