// Command poskeygen is the vendor tool for the POS license scheme. It
// generates the vendor key pair, issues signed license tokens, verifies
// tokens and exports the issuance ledger.
//
// It holds the private key and must never be shipped with the product.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CloudNativeWorks/pos-license-sdk/poslicense"
	"github.com/CloudNativeWorks/pos-license-sdk/poslicense/issuer"
	"github.com/CloudNativeWorks/pos-license-sdk/poslicense/ledger"
)

const usage = `usage: poskeygen <command> [flags]

commands:
  keys         generate the vendor RSA key pair
  issue        issue a signed license token
  verify       check a license token
  fingerprint  print a device fingerprint
  export       export the issuance ledger to xlsx
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every command needs.
type app struct {
	cfg    *Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "poskeygen: %v\n", err)
		return 1
	}
	a := &app{cfg: cfg, logger: newLogger(cfg, stderr), stdout: stdout, stderr: stderr}

	var cmd func(context.Context, []string) error
	switch args[0] {
	case "keys":
		cmd = a.keys
	case "issue":
		cmd = a.issue
	case "verify":
		cmd = a.verify
	case "fingerprint":
		cmd = a.fingerprint
	case "export":
		cmd = a.export
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "poskeygen: unknown command %q\n%s", args[0], usage)
		return 2
	}

	if err := cmd(ctx, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if errors.Is(err, errInactive) {
			return 1
		}
		a.logger.Error("command failed", "command", args[0], "error", err)
		return 1
	}
	return 0
}

// errInactive makes verify exit non-zero without logging a failure.
var errInactive = errors.New("license not active")

var errDeviceRequired = errors.New("a device fingerprint is required (-device or device_hash in the request file), pass -unbound to issue a license valid on any device")

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) keys(_ context.Context, args []string) error {
	fs := a.flagSet("keys")
	out := fs.String("out", ".", "directory for private_key.pem and public_key.pem")
	force := fs.Bool("force", false, "overwrite existing key files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	privPath := filepath.Join(*out, "private_key.pem")
	pubPath := filepath.Join(*out, "public_key.pem")
	if !*force {
		for _, p := range []string{privPath, pubPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists, use -force to overwrite", p)
			}
		}
	}

	kp, err := issuer.GenerateKeyPair()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(privPath, kp.PrivateKeyPEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}
	if err := os.WriteFile(pubPath, kp.PublicKeyPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}

	a.logger.Info("key pair generated", "private_key", privPath, "public_key", pubPath)
	return nil
}

func (a *app) issue(ctx context.Context, args []string) error {
	fs := a.flagSet("issue")
	keyFile := fs.String("key", a.cfg.PrivateKeyFile, "vendor private key (PEM)")
	requestFile := fs.String("request", "", "YAML issue request")
	var rf requestFlags
	fs.StringVar(&rf.customer, "customer", "", "customer name")
	fs.StringVar(&rf.device, "device", "", "device fingerprint to bind the license to")
	fs.StringVar(&rf.expiry, "expiry", "", "expiry date (YYYY-MM-DD)")
	fs.StringVar(&rf.features, "features", "", "comma-separated feature list")
	fs.StringVar(&rf.licenseType, "type", "", "license type: full, unlimited, trial or custom")
	fs.StringVar(&rf.versionLimit, "version-limit", "", "version limit such as 2.x")
	fs.BoolVar(&rf.noVersion, "no-version-limit", false, "issue without a version limit")
	fs.BoolVar(&rf.unbound, "unbound", false, "issue a license that is valid on any device")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := issuer.DefaultRequest("")
	if *requestFile != "" {
		var err error
		if req, err = loadRequest(*requestFile); err != nil {
			return err
		}
	}
	rf.apply(&req)
	if strings.TrimSpace(req.DeviceHash) == "" && !rf.unbound {
		return errDeviceRequired
	}

	pemBytes, err := os.ReadFile(*keyFile)
	if err != nil {
		return fmt.Errorf("read private key: %w", err)
	}
	priv, err := issuer.ParsePrivateKeyPEM(pemBytes)
	if err != nil {
		return err
	}

	l, closeLedger, err := connectLedger(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer closeLedger()

	issued, err := issuer.New(priv).Issue(req)
	if err != nil {
		return err
	}

	// The token only leaves the tool once the ledger holds it.
	if l != nil {
		rec, err := l.Record(ctx, ledger.NewRecord(issued.Payload, issued.Token, time.Now()))
		if err != nil {
			return fmt.Errorf("license not issued: %w", err)
		}
		a.logger.Info("license recorded", "id", rec.ID, "backend", a.cfg.Ledger)
	}
	fmt.Fprintln(a.stdout, issued.Token)

	a.logger.Info("license issued",
		"customer", issued.Payload.CustomerName,
		"device", issued.Payload.DeviceHash,
		"expiry", issued.Payload.ExpiryDate,
		"license_type", issued.Payload.LicenseType,
	)
	return nil
}

func (a *app) verify(_ context.Context, args []string) error {
	fs := a.flagSet("verify")
	pubFile := fs.String("pub", a.cfg.PublicKeyFile, "vendor public key (PEM)")
	token := fs.String("token", "", "license token")
	tokenFile := fs.String("token-file", "", "file containing the license token")
	device := fs.String("device", "", "device fingerprint to check against (default: skip device check)")
	at := fs.String("at", "", "check time (RFC 3339, default: now)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *tokenFile != "" {
		raw, err := os.ReadFile(*tokenFile)
		if err != nil {
			return fmt.Errorf("read token file: %w", err)
		}
		*token = string(raw)
	}
	if *token == "" {
		return fmt.Errorf("a token is required (-token or -token-file)")
	}

	now := time.Now()
	if *at != "" {
		t, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("parse -at: %w", err)
		}
		now = t
	}

	pemBytes, err := os.ReadFile(*pubFile)
	if err != nil {
		return fmt.Errorf("read public key: %w", err)
	}
	pub, err := poslicense.ParsePublicKeyPEM(pemBytes)
	if err != nil {
		return err
	}

	checker := poslicense.NewChecker(pub,
		poslicense.WithDeviceFingerprint(*device),
		poslicense.WithClock(func() time.Time { return now }),
		poslicense.WithLogger(a.logger),
	)
	res := checker.CheckLicenseStatus(*token)

	out := struct {
		poslicense.Result
		DaysRemaining int `json:"days_remaining"`
	}{res, res.DaysRemaining(now)}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if !res.Active {
		return errInactive
	}
	return nil
}

func (a *app) fingerprint(_ context.Context, args []string) error {
	fs := a.flagSet("fingerprint")
	host := fs.String("host", "", "hostname of the target machine (default: this machine)")
	platform := fs.String("platform", poslicense.Platform(), "platform name (win32, linux, darwin)")
	arch := fs.String("arch", poslicense.Arch(), "architecture name (x64, ia32, arm64)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *host == "" {
		fmt.Fprintln(a.stdout, poslicense.DeviceFingerprint())
		return nil
	}
	fmt.Fprintln(a.stdout, poslicense.FingerprintOf(*host, *platform, *arch))
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.flagSet("export")
	out := fs.String("out", "licenses.xlsx", "output workbook")
	customer := fs.String("customer", "", "only export licenses for this customer")
	device := fs.String("device", "", "only export licenses bound to this device")
	if err := fs.Parse(args); err != nil {
		return err
	}

	l, closeLedger, err := connectLedger(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer closeLedger()
	if l == nil {
		return fmt.Errorf("no ledger configured (set POSKEYGEN_LEDGER)")
	}

	var records []ledger.Record
	switch {
	case *customer != "":
		records, err = l.ListByCustomer(ctx, *customer)
	case *device != "":
		records, err = l.ListByDevice(ctx, *device)
	default:
		records, err = l.List(ctx)
	}
	if err != nil {
		return err
	}

	if err := writeExport(*out, records); err != nil {
		return err
	}
	a.logger.Info("ledger exported", "path", *out, "records", len(records))
	return nil
}
