package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ksyq12/rproxy/internal/certs"
	"github.com/ksyq12/rproxy/internal/config"
	vherrors "github.com/ksyq12/rproxy/internal/errors"
	"github.com/ksyq12/rproxy/internal/input"
	"github.com/ksyq12/rproxy/internal/lifecycle"
	"github.com/ksyq12/rproxy/internal/linker"
	"github.com/ksyq12/rproxy/internal/logger"
	"github.com/ksyq12/rproxy/internal/model"
	"github.com/ksyq12/rproxy/internal/output"
	"github.com/ksyq12/rproxy/internal/reconcile"
	"github.com/ksyq12/rproxy/internal/store"
	"github.com/ksyq12/rproxy/internal/template"
)

// runtime is the wiring of one CLI invocation
type runtime struct {
	cfg        *config.Config
	store      store.Store
	server     config.ServerContext
	certs      *certs.Resolver
	reconciler *reconcile.Reconciler
	ctrl       *lifecycle.Controller
}

// newRuntime loads config, opens the store and builds the controller.
// Callers must Close the runtime.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	st, err := deps.StoreOpener.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	web, err := st.WebConfig(ctx, cfg.ServerID)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to read web config: %w", err)
	}
	server := cfg.ServerContext(web)

	l := linker.New(server.SymlinksRelative, deps.Executor)
	rt := &runtime{
		cfg:        cfg,
		store:      st,
		server:     server,
		certs:      certs.NewResolver(server.ACMELiveDir, l),
		reconciler: reconcile.New(reconcile.Paths{Available: server.AvailableDir, Enabled: server.EnabledDir}, l, dryRun),
	}
	rt.ctrl = lifecycle.New(lifecycle.Options{
		Store:      st,
		Certs:      rt.certs,
		Engine:     template.NewEngine(cfg.Template.Dir),
		Reconciler: rt.reconciler,
		Reloader:   deps.ReloaderFactory.Create(deps.Executor, server.ReloadCommand),
		Server:     server,
		DryRun:     dryRun,
	})
	return rt, nil
}

// Close releases the store
func (rt *runtime) Close() {
	if err := rt.store.Close(); err != nil {
		logger.Warn("Closing store failed: %v", err)
	}
}

// loadConfig loads the config and fills unset vhost directories from the
// detected nginx layout
func loadConfig() (*config.Config, error) {
	cfg, err := deps.ConfigLoader.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyLogConfig(cfg.Log)

	if cfg.Paths.Available == "" || cfg.Paths.Enabled == "" {
		detected, err := deps.PathDetector.DetectPaths()
		if err != nil {
			return nil, vherrors.Wrap(vherrors.ErrCodeConfig, "nginx vhost directories not configured", err)
		}
		if cfg.Paths.Available == "" {
			cfg.Paths.Available = detected.Available
		}
		if cfg.Paths.Enabled == "" {
			cfg.Paths.Enabled = detected.Enabled
		}
		logger.Debug("Using detected nginx directories %s and %s", cfg.Paths.Available, cfg.Paths.Enabled)
	}
	return cfg, nil
}

// applyLogConfig applies the configured level unless --verbose is set
func applyLogConfig(lc config.LogConfig) {
	if lc.Format != "" {
		logger.SetFormat(lc.Format)
	}
	if !verbose && lc.Level != "" {
		logger.SetLevel(logger.ParseLevel(lc.Level))
	}
}

// commandContext returns the context of cmd, Background when run outside Execute
func commandContext(cmd interface{ Context() context.Context }) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// parseID parses a numeric record id argument
func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, vherrors.Validation(fmt.Sprintf("invalid %s id %q", kind, arg))
	}
	return id, nil
}

// loadRecord reads a domain record by its id argument
func (rt *runtime) loadRecord(ctx context.Context, arg string) (*model.DomainRecord, error) {
	id, err := parseID("domain", arg)
	if err != nil {
		return nil, err
	}
	return rt.store.DomainByID(ctx, id)
}

// handle delivers ev to the controller and prints the result
func (rt *runtime) handle(ctx context.Context, ev model.Event) error {
	res, err := rt.ctrl.Handle(ctx, ev)
	if res != nil {
		if perr := printResult(res); perr != nil {
			return perr
		}
	}
	return err
}

// printResult handles JSON or human-readable event output
func printResult(res *lifecycle.Result) error {
	if jsonOutput {
		return output.JSON(res)
	}

	prefix := ""
	if res.DryRun {
		prefix = "[dry-run] "
	}
	for _, d := range res.Domains {
		ops := d.Applied
		if res.DryRun {
			ops = d.Planned
		}
		if len(ops) == 0 {
			output.Info("%s%s %s: up to date", prefix, d.Action, d.Domain)
			continue
		}
		output.Info("%s%s %s", prefix, d.Action, d.Domain)
		for _, op := range ops {
			output.Step("%s", op)
		}
	}
	for _, w := range res.Warnings {
		output.Warn("%s", w)
	}

	switch {
	case res.Reloaded:
		output.Success("%s event handled, nginx reloaded", res.Kind)
	case len(res.Domains) == 0:
		output.Info("%s event handled, nothing to do", res.Kind)
	default:
		output.Success("%s%s event handled", prefix, res.Kind)
	}
	return nil
}

// confirm asks a yes/no question on stdin; anything but y/yes is a no
func confirm(format string, args ...interface{}) bool {
	output.Prompt(format+" [y/N]: ", args...)
	return input.Confirm(deps.StdinReader)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
