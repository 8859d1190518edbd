package cli

import (
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/ksyq12/rproxy/internal/config"
	"github.com/ksyq12/rproxy/internal/executor"
	"github.com/ksyq12/rproxy/internal/model"
	"github.com/ksyq12/rproxy/internal/output"
	"github.com/ksyq12/rproxy/internal/reconcile"
	"github.com/ksyq12/rproxy/internal/template"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on the system and the generated vhosts.

Checks:
  - nginx installation and config syntax (nginx -t)
  - vhost directories and ACME live directory
  - template renders with every binding
  - record store reachable
  - link invariant of every generated vhost

Examples:
  rproxy doctor
  rproxy doctor --json`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// Check statuses
const (
	checkSuccess = "success"
	checkWarning = "warning"
	checkError   = "error"
)

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	SystemRequirements []CheckResult `json:"system_requirements"`
	Configuration      []CheckResult `json:"configuration"`
	VHosts             []CheckResult `json:"vhosts"`
}

var nginxVersion = regexp.MustCompile(`nginx/(\d+\.\d+\.\d+)`)

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	report := &DoctorReport{}
	report.SystemRequirements = checkSystemRequirements(deps.Executor)
	report.Configuration = checkConfiguration(rt.cfg, rt.server)
	report.VHosts = checkVHosts(rt.reconciler.Paths())

	if _, err := rt.store.Domains(ctx); err != nil {
		report.Configuration = append(report.Configuration, CheckResult{checkError, fmt.Sprintf("Record store unreachable: %v", err)})
	} else {
		report.Configuration = append(report.Configuration, CheckResult{checkSuccess, fmt.Sprintf("Record store reachable (%s)", rt.cfg.Store.Driver)})
	}

	if jsonOutput {
		return output.JSON(report)
	}
	displayDoctorResults(report)
	return nil
}

func checkSystemRequirements(exec executor.CommandExecutor) []CheckResult {
	if _, err := exec.LookPath("nginx"); err != nil {
		return []CheckResult{{checkError, "Nginx not installed"}}
	}

	version := "unknown"
	// nginx prints its version on stderr; Execute returns combined output
	if out, err := exec.Execute("nginx", "-v"); err == nil {
		if m := nginxVersion.FindStringSubmatch(string(out)); len(m) >= 2 {
			version = m[1]
		}
	}
	results := []CheckResult{{checkSuccess, fmt.Sprintf("Nginx installed (%s)", version)}}

	if err := executor.Run(exec, "nginx", "-t"); err != nil {
		results = append(results, CheckResult{checkError, fmt.Sprintf("Nginx config syntax error: %v", err)})
	} else {
		results = append(results, CheckResult{checkSuccess, "Nginx config syntax OK"})
	}
	return results
}

func checkConfiguration(cfg *config.Config, server config.ServerContext) []CheckResult {
	results := []CheckResult{}

	for _, dir := range []struct {
		label string
		path  string
		level string
	}{
		{"sites-available", server.AvailableDir, checkError},
		{"sites-enabled", server.EnabledDir, checkError},
		{"ACME live directory", server.ACMELiveDir, checkWarning},
	} {
		if info, err := os.Stat(dir.path); err == nil && info.IsDir() {
			results = append(results, CheckResult{checkSuccess, fmt.Sprintf("%s exists (%s)", dir.label, dir.path)})
		} else {
			results = append(results, CheckResult{dir.level, fmt.Sprintf("%s not found (%s)", dir.label, dir.path)})
		}
	}

	if _, err := template.RenderVhost(template.NewEngine(cfg.Template.Dir), server.TemplateName, sampleSpec(server)); err != nil {
		results = append(results, CheckResult{checkError, fmt.Sprintf("Template %s does not render: %v", server.TemplateName, err)})
	} else {
		results = append(results, CheckResult{checkSuccess, fmt.Sprintf("Template %s renders", server.TemplateName)})
	}

	return results
}

// sampleSpec is an HTTPS vhost exercising every template binding
func sampleSpec(server config.ServerContext) *model.VhostSpec {
	return &model.VhostSpec{
		Domain:        "example.com",
		Type:          model.TypeVhost,
		DocumentRoot:  server.WebsiteBasedir + "/example.com",
		WebFolder:     "web",
		WebDocRoot:    server.WebsiteBasedir + "/example.com/web",
		WebDocRootWWW: server.WebsiteBasedir + "/example.com/web",
		WebBasedir:    server.WebsiteBasedir,
		Alias:         "www.example.com ",
		SSLDomain:     "example.com",
		SSLCrtFile:    "/dev/null",
		SSLKeyFile:    "/dev/null",
		HTTPToHTTPS:   true,
		RewriteRules: []model.RewriteRule{{
			DomainPattern: "(^|\\.)example.com",
			Type:          "permanent",
			TargetHTTP:    "http://www.example.org/",
			TargetHTTPS:   "https://www.example.org/",
		}},
		ListenBlocks: []model.ListenBlock{
			{IP: "*", Port: model.PortHTTP, HTTPToHTTPS: true},
			{IP: "*", Port: model.PortHTTPS, SSLEnabled: true, RewriteEnabled: true},
		},
		BackendHTTP:  server.BackendHTTPPort,
		BackendHTTPS: server.BackendHTTPSPort,
	}
}

func checkVHosts(paths reconcile.Paths) []CheckResult {
	entries, err := reconcile.Scan(paths)
	if err != nil {
		return []CheckResult{{checkError, fmt.Sprintf("Scanning vhosts failed: %v", err)}}
	}

	results := []CheckResult{}
	for _, e := range entries {
		switch {
		case !e.Consistent():
			results = append(results, CheckResult{checkError, fmt.Sprintf("%s - enabled without a config file", e.Domain)})
		case e.Link:
			results = append(results, CheckResult{checkSuccess, fmt.Sprintf("%s - enabled", e.Domain)})
		default:
			results = append(results, CheckResult{checkWarning, fmt.Sprintf("%s - disabled", e.Domain)})
		}
	}
	return results
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Checking system requirements...")
	for _, check := range report.SystemRequirements {
		displayCheck(check)
	}
	output.Print("")

	output.Print("Checking configuration...")
	for _, check := range report.Configuration {
		displayCheck(check)
	}
	output.Print("")

	if len(report.VHosts) == 0 {
		output.Print("No vhosts generated")
		return
	}
	output.Print("Checking vhosts...")
	for _, check := range report.VHosts {
		displayCheck(check)
	}
}

func displayCheck(check CheckResult) {
	switch check.Status {
	case checkSuccess:
		output.Success("%s", check.Message)
	case checkWarning:
		output.Warn("%s", check.Message)
	case checkError:
		output.Error("%s", check.Message)
	}
}
