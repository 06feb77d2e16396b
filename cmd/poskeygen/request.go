package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/CloudNativeWorks/pos-license-sdk/poslicense"
	"github.com/CloudNativeWorks/pos-license-sdk/poslicense/issuer"
)

// loadRequest reads an issue request from a YAML file. Keys missing from
// the file keep the values of the standard request.
func loadRequest(path string) (issuer.Request, error) {
	req := issuer.DefaultRequest("")
	raw, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read request file: %w", err)
	}
	if err := yaml.UnmarshalStrict(raw, &req); err != nil {
		return req, fmt.Errorf("parse request file: %w", err)
	}
	return req, nil
}

// requestFlags are the issue flags that override request fields when set.
type requestFlags struct {
	customer     string
	device       string
	expiry       string
	features     string
	licenseType  string
	versionLimit string
	noVersion    bool
	unbound      bool
}

func (f requestFlags) apply(req *issuer.Request) {
	if f.customer != "" {
		req.CustomerName = f.customer
	}
	if f.device != "" {
		req.DeviceHash = f.device
	}
	if f.expiry != "" {
		req.ExpiryDate = f.expiry
	}
	if f.features != "" {
		req.Features = splitList(f.features)
	}
	if f.licenseType != "" {
		req.LicenseType = poslicense.LicenseType(f.licenseType)
	}
	if f.versionLimit != "" {
		req.VersionLimit = f.versionLimit
	}
	if f.noVersion {
		req.VersionLimit = ""
	}
	if f.unbound {
		req.DeviceHash = ""
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
