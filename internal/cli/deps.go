package cli

import (
	"context"

	"github.com/ksyq12/rproxy/internal/config"
	"github.com/ksyq12/rproxy/internal/executor"
	"github.com/ksyq12/rproxy/internal/input"
	"github.com/ksyq12/rproxy/internal/platform"
	"github.com/ksyq12/rproxy/internal/reconcile"
	"github.com/ksyq12/rproxy/internal/store"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader    ConfigLoader
	PathDetector    PathDetector
	StoreOpener     StoreOpener
	ReloaderFactory ReloaderFactory
	Executor        executor.CommandExecutor
	StdinReader     input.Reader
}

// ConfigLoader handles configuration loading
type ConfigLoader interface {
	Load(path string) (*config.Config, error)
}

// PathDetector finds the nginx vhost directories when none are configured
type PathDetector interface {
	DetectPaths() (platform.PathConfig, error)
}

// StoreOpener opens the record store
type StoreOpener interface {
	Open(ctx context.Context, cfg config.StoreConfig) (store.Store, error)
}

// ReloaderFactory creates the nginx reloader
type ReloaderFactory interface {
	Create(exec executor.CommandExecutor, command []string) reconcile.Reloader
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ConfigLoader:    &realConfigLoader{},
	PathDetector:    &realPathDetector{},
	StoreOpener:     &realStoreOpener{},
	ReloaderFactory: &realReloaderFactory{},
	Executor:        executor.NewSystemExecutor(),
	StdinReader:     input.NewStdinReader(),
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

type realConfigLoader struct{}

func (r *realConfigLoader) Load(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

type realPathDetector struct{}

func (r *realPathDetector) DetectPaths() (platform.PathConfig, error) {
	return platform.DetectPaths()
}

type realStoreOpener struct{}

func (r *realStoreOpener) Open(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	return store.Open(ctx, cfg)
}

type realReloaderFactory struct{}

func (r *realReloaderFactory) Create(exec executor.CommandExecutor, command []string) reconcile.Reloader {
	return reconcile.NewReloader(exec, command)
}
