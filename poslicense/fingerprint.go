package poslicense

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"strings"
)

// UnknownDevicePrefix tags the fallback fingerprint used when the host
// identity cannot be read.
const UnknownDevicePrefix = "UNKNOWN-DEVICE-"

// fingerprintLen is the number of hex characters kept from the digest.
const fingerprintLen = 16

// hostname is swapped in tests.
var hostname = os.Hostname

// DeviceFingerprint returns a stable identifier for the running machine.
//
// It hashes the hostname, platform and CPU architecture so the value is the
// same across calls and restarts. It never fails: if the hostname cannot be
// read, a value prefixed with UnknownDevicePrefix is returned instead.
func DeviceFingerprint() string {
	platform, arch := Platform(), Arch()
	host, err := hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		return UnknownDevicePrefix + strings.ToUpper(platform+"-"+arch)
	}
	return FingerprintOf(host, platform, arch)
}

// FingerprintOf computes the fingerprint for the given host attributes:
// the first 16 hex characters, upper-cased, of
// SHA-256(lower(trim(hostname-platform-arch))).
func FingerprintOf(hostname, platform, arch string) string {
	base := strings.ToLower(strings.TrimSpace(hostname + "-" + platform + "-" + arch))
	sum := sha256.Sum256([]byte(base))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:fingerprintLen])
}

// Platform returns the platform name used in fingerprints. Names follow
// Node.js conventions, so Windows is "win32".
func Platform() string {
	return platformName(runtime.GOOS)
}

// Arch returns the CPU architecture name used in fingerprints
// ("x64" for amd64, "ia32" for 386).
func Arch() string {
	return archName(runtime.GOARCH)
}

func platformName(goos string) string {
	if goos == "windows" {
		return "win32"
	}
	return goos
}

func archName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "386":
		return "ia32"
	}
	return goarch
}
