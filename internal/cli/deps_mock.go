package cli

import (
	"context"
	"path/filepath"

	"github.com/ksyq12/rproxy/internal/config"
	"github.com/ksyq12/rproxy/internal/executor"
	"github.com/ksyq12/rproxy/internal/input"
	"github.com/ksyq12/rproxy/internal/platform"
	"github.com/ksyq12/rproxy/internal/reconcile"
	"github.com/ksyq12/rproxy/internal/store"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg       *config.Config
	LoadErr   error
	LoadCalls []string
}

func (m *MockConfigLoader) Load(path string) (*config.Config, error) {
	m.LoadCalls = append(m.LoadCalls, path)
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
	}
	return m.Cfg, nil
}

// MockPathDetector is a test double for PathDetector
type MockPathDetector struct {
	Paths platform.PathConfig
	Err   error
	Calls int
}

func (m *MockPathDetector) DetectPaths() (platform.PathConfig, error) {
	m.Calls++
	if m.Err != nil {
		return platform.PathConfig{}, m.Err
	}
	if m.Paths.Available != "" {
		return m.Paths, nil
	}
	return platform.PathConfig{
		Available: "/etc/nginx/sites-available",
		Enabled:   "/etc/nginx/sites-enabled",
	}, nil
}

// MockStoreOpener hands out an in-memory store
type MockStoreOpener struct {
	Store   *store.Memory
	OpenErr error
	Opened  []config.StoreConfig
}

func (m *MockStoreOpener) Open(_ context.Context, cfg config.StoreConfig) (store.Store, error) {
	m.Opened = append(m.Opened, cfg)
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.Store == nil {
		m.Store = store.NewMemory()
	}
	return m.Store, nil
}

// MockReloaderFactory returns a shared MockReloader
type MockReloaderFactory struct {
	Reloader *reconcile.MockReloader
	Commands [][]string
}

func (m *MockReloaderFactory) Create(_ executor.CommandExecutor, command []string) reconcile.Reloader {
	m.Commands = append(m.Commands, command)
	if m.Reloader == nil {
		m.Reloader = &reconcile.MockReloader{}
	}
	return m.Reloader
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults
func NewMockDeps() *MockDependenciesBuilder {
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			ConfigLoader:    &MockConfigLoader{Cfg: config.New()},
			PathDetector:    &MockPathDetector{},
			StoreOpener:     &MockStoreOpener{},
			ReloaderFactory: &MockReloaderFactory{},
			Executor:        &executor.MockExecutor{},
			StdinReader:     input.NewStringReader("y\n"),
		},
	}
}

// WithConfig sets the config for the mock
func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithConfigLoader sets a custom config loader
func (b *MockDependenciesBuilder) WithConfigLoader(loader ConfigLoader) *MockDependenciesBuilder {
	b.deps.ConfigLoader = loader
	return b
}

// WithStore sets the record store
func (b *MockDependenciesBuilder) WithStore(s *store.Memory) *MockDependenciesBuilder {
	b.deps.StoreOpener = &MockStoreOpener{Store: s}
	return b
}

// WithReloader sets the reloader handed out by the factory
func (b *MockDependenciesBuilder) WithReloader(r *reconcile.MockReloader) *MockDependenciesBuilder {
	b.deps.ReloaderFactory = &MockReloaderFactory{Reloader: r}
	return b
}

// WithExecutor sets the command executor
func (b *MockDependenciesBuilder) WithExecutor(e executor.CommandExecutor) *MockDependenciesBuilder {
	b.deps.Executor = e
	return b
}

// WithStdinInput sets the stdin input for the mock
func (b *MockDependenciesBuilder) WithStdinInput(inputs ...string) *MockDependenciesBuilder {
	b.deps.StdinReader = input.NewStringReader(inputs...)
	return b
}

// WithPathDetector sets the path detector
func (b *MockDependenciesBuilder) WithPathDetector(d PathDetector) *MockDependenciesBuilder {
	b.deps.PathDetector = d
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}

// TestHelper wires mock dependencies around a real temporary nginx layout
type TestHelper struct {
	T interface {
		Helper()
		Cleanup(func())
	}
	OldDeps  *Dependencies
	Store    *store.Memory
	Config   *config.Config
	Reloader *reconcile.MockReloader
	Executor *executor.MockExecutor
	Paths    reconcile.Paths
}

// NewTestHelper creates a new test helper with mock dependencies. The vhost
// directories live under base.
func NewTestHelper(t interface {
	Helper()
	Cleanup(func())
}, base string) *TestHelper {
	t.Helper()

	cfg := config.New()
	cfg.Paths.Available = filepath.Join(base, "sites-available")
	cfg.Paths.Enabled = filepath.Join(base, "sites-enabled")
	cfg.ACMELiveDir = filepath.Join(base, "letsencrypt", "live")
	cfg.Web.WebsiteBasedir = filepath.Join(base, "www")
	cfg.Web.SymlinksRelative = true

	helper := &TestHelper{
		T:        t,
		OldDeps:  deps,
		Store:    store.NewMemory(),
		Config:   cfg,
		Reloader: &reconcile.MockReloader{},
		Executor: &executor.MockExecutor{},
		Paths:    reconcile.Paths{Available: cfg.Paths.Available, Enabled: cfg.Paths.Enabled},
	}

	deps = NewMockDeps().
		WithConfig(cfg).
		WithStore(helper.Store).
		WithReloader(helper.Reloader).
		WithExecutor(helper.Executor).
		Build()

	saved := saveFlags()
	t.Cleanup(func() {
		deps = helper.OldDeps
		saved.restore()
	})

	return helper
}

// SetStdinInput sets the stdin input
func (h *TestHelper) SetStdinInput(inputs ...string) {
	deps.StdinReader = input.NewStringReader(inputs...)
}
