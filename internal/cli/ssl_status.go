package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksyq12/rproxy/internal/certs"
	vherrors "github.com/ksyq12/rproxy/internal/errors"
	"github.com/ksyq12/rproxy/internal/output"
)

var sslStatusCmd = &cobra.Command{
	Use:   "ssl-status <domain-id>",
	Short: "Show the certificate material of a domain",
	Long: `Probe the certificate, key and bundle of a vhost and report whether the
HTTPS server block would be generated. Nothing is linked or written.

Examples:
  rproxy ssl-status 12
  rproxy ssl-status 12 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSSLStatus,
}

func init() {
	rootCmd.AddCommand(sslStatusCmd)
}

// now is replaceable in tests
var now = time.Now

// sslStatus represents the certificate state for output
type sslStatus struct {
	Domain      string        `json:"domain"`
	Eligible    bool          `json:"https"`
	Bundle      *certs.Bundle `json:"bundle"`
	Certificate *certs.Info   `json:"certificate,omitempty"`
	Expired     bool          `json:"expired"`
	DaysLeft    int           `json:"days_left,omitempty"`
	Error       string        `json:"error,omitempty"`
}

func runSSLStatus(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	rec, err := rt.loadRecord(ctx, args[0])
	if err != nil {
		return err
	}
	if !rec.Type.HasArtifacts() {
		return vherrors.Validation(fmt.Sprintf("%s carries no certificate, check its parent", describe(rec)))
	}

	b := rt.certs.Resolve(rec, false)
	status := sslStatus{
		Domain:   rec.Domain,
		Eligible: b.Eligible(),
		Bundle:   b,
	}
	if b.Crt.Usable() || b.NginxCrt.Usable() {
		info, err := certs.Inspect(b)
		if err != nil {
			status.Error = err.Error()
		} else {
			status.Certificate = info
			status.Expired = info.Expired(now())
			status.DaysLeft = info.DaysLeft(now())
		}
	}

	if jsonOutput {
		return output.JSON(status)
	}
	displaySSLStatus(&status)
	return nil
}

func displaySSLStatus(s *sslStatus) {
	b := s.Bundle
	output.Print("Domain:       %s", s.Domain)
	output.Print("SSL enabled:  %s", yesNo(b.SSL))
	output.Print("SSL domain:   %s", b.Domain)
	output.Print("Let's Encrypt: %s", yesNo(b.LetsEncrypt))

	for _, f := range []struct {
		label string
		file  certs.File
	}{
		{"Certificate", b.Crt},
		{"Key", b.Key},
		{"Bundle", b.Chain},
		{"nginx cert", b.NginxCrt},
	} {
		if f.file.Usable() {
			output.Success("%s %s (%d bytes)", f.label, f.file.Path, f.file.Size)
		} else {
			output.Warn("%s %s missing", f.label, f.file.Path)
		}
	}
	for _, w := range b.Warnings {
		output.Warn("%s", w)
	}

	if s.Certificate != nil {
		c := s.Certificate
		output.Print("Subject:      %s", c.Subject)
		output.Print("Issuer:       %s", c.Issuer)
		output.Print("Expires:      %s", c.NotAfter.Format("2006-01-02"))
		switch {
		case s.Expired:
			output.Error("Certificate expired")
		case s.DaysLeft < 14:
			output.Warn("Certificate expires in %d days", s.DaysLeft)
		}
		if !c.KeyValid {
			output.Warn("Key could not be parsed")
		}
	}
	if s.Error != "" {
		output.Error("%s", s.Error)
	}

	if s.Eligible {
		output.Success("HTTPS server block will be generated")
	} else {
		output.Info("HTTP only")
	}
}
