package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ksyq12/rproxy/internal/model"
)

// Snapshot is the YAML layout of a file store:
//
//	servers:
//	  1:
//	    website_basedir: /var/www
//	    website_symlinks_rel: y
//	domains:
//	  - domain_id: 1
//	    domain: example.com
//	    type: vhost
//	    ...
type Snapshot struct {
	Servers map[int64]model.WebConfig `yaml:"servers"`
	Domains []model.DomainRecord      `yaml:"domains"`
}

// OpenFile loads a YAML snapshot into a Memory store
func OpenFile(path string) (*Memory, error) {
	if path == "" {
		return nil, fmt.Errorf("store path not set")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}

	seen := make(map[int64]bool, len(snap.Domains))
	for _, d := range snap.Domains {
		if d.ID == 0 {
			return nil, fmt.Errorf("store file %s: domain %q has no domain_id", path, d.Domain)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("store file %s: duplicate domain_id %d", path, d.ID)
		}
		seen[d.ID] = true
	}

	m := NewMemory(snap.Domains...)
	for id, web := range snap.Servers {
		m.SetWebConfig(id, web)
	}
	return m, nil
}
