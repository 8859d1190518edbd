package store

import (
	"context"
	"sort"
	"sync"

	vherrors "github.com/ksyq12/rproxy/internal/errors"
	"github.com/ksyq12/rproxy/internal/model"
)

// Memory is an in-memory store. Records keep insertion order.
type Memory struct {
	mu      sync.RWMutex
	domains []model.DomainRecord
	web     map[int64]model.WebConfig
}

// NewMemory creates a store holding records
func NewMemory(records ...model.DomainRecord) *Memory {
	m := &Memory{web: make(map[int64]model.WebConfig)}
	for _, r := range records {
		m.Put(r)
	}
	return m
}

// Put inserts or replaces a record by id
func (m *Memory) Put(rec model.DomainRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.domains {
		if m.domains[i].ID == rec.ID {
			m.domains[i] = rec
			return
		}
	}
	m.domains = append(m.domains, rec)
}

// Delete removes a record by id
func (m *Memory) Delete(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.domains {
		if m.domains[i].ID == id {
			m.domains = append(m.domains[:i], m.domains[i+1:]...)
			return
		}
	}
}

// SetWebConfig sets the web configuration of a server
func (m *Memory) SetWebConfig(serverID int64, web model.WebConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.web[serverID] = web
}

// DomainByID implements Store
func (m *Memory) DomainByID(_ context.Context, id int64) (*model.DomainRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.domains {
		if d.ID == id {
			rec := d
			return &rec, nil
		}
	}
	return nil, vherrors.NotFound("domain", id)
}

// ActiveChildren implements Store
func (m *Memory) ActiveChildren(_ context.Context, parentID int64) ([]model.DomainRecord, error) {
	return m.filter(func(d *model.DomainRecord) bool {
		return d.ParentDomainID == parentID && bool(d.Active) && d.Type != model.TypeVhostSubdomain
	}), nil
}

// TopLevelDomainsByClient implements Store
func (m *Memory) TopLevelDomainsByClient(_ context.Context, clientID int64) ([]model.DomainRecord, error) {
	return m.filter(func(d *model.DomainRecord) bool {
		return d.ClientID == clientID && d.ParentDomainID == 0
	}), nil
}

// WebConfig implements Store. Servers without an entry get the zero config.
func (m *Memory) WebConfig(_ context.Context, serverID int64) (*model.WebConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	web, ok := m.web[serverID]
	if !ok {
		return nil, nil
	}
	return &web, nil
}

// Domains implements Store
func (m *Memory) Domains(_ context.Context) ([]model.DomainRecord, error) {
	all := m.filter(func(*model.DomainRecord) bool { return true })
	sort.SliceStable(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// Close implements Store
func (m *Memory) Close() error {
	return nil
}

func (m *Memory) filter(keep func(*model.DomainRecord) bool) []model.DomainRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.DomainRecord
	for i := range m.domains {
		if keep(&m.domains[i]) {
			out = append(out, m.domains[i])
		}
	}
	return out
}
