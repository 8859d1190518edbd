package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/ksyq12/rproxy/internal/model"
	"github.com/ksyq12/rproxy/internal/reconcile"
)

func init() {
	// Disable color for tests
	color.NoColor = true
}

// captureStdout captures stdout during function execution
func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	color.Output = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	f()

	w.Close()
	os.Stdout = old
	color.Output = os.Stdout
	return <-done
}

// newHelper builds a TestHelper rooted in a fresh temp dir
func newHelper(t *testing.T) *TestHelper {
	t.Helper()
	return NewTestHelper(t, t.TempDir())
}

// vhost adds an active vhost record with its document root under the
// helper's website basedir
func (h *TestHelper) vhost(id int64, domain string) model.DomainRecord {
	rec := model.DomainRecord{
		ID:           id,
		Domain:       domain,
		Type:         model.TypeVhost,
		IPAddress:    "*",
		DocumentRoot: filepath.Join(h.Config.Web.WebsiteBasedir, domain),
		Active:       true,
		ClientID:     7,
	}
	h.Store.Put(rec)
	return rec
}

func (h *TestHelper) file(domain string) string {
	return filepath.Join(h.Paths.Available, domain+reconcile.VhostExt)
}

func (h *TestHelper) link(domain string) string {
	return filepath.Join(h.Paths.Enabled, domain+reconcile.VhostExt)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
