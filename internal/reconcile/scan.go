package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is the on-disk state of one managed domain
type Entry struct {
	Domain     string `json:"domain"`
	File       bool   `json:"file"`
	Link       bool   `json:"link"`
	LinkTarget string `json:"link_target,omitempty"`
	Dangling   bool   `json:"dangling"`
}

// Consistent reports whether the link invariant holds for the entry
func (e Entry) Consistent() bool {
	return !e.Link || (e.File && !e.Dangling)
}

// Scan lists the managed domains found in the available and enabled
// directories
func Scan(p Paths) ([]Entry, error) {
	entries := make(map[string]*Entry)
	get := func(domain string) *Entry {
		if e, ok := entries[domain]; ok {
			return e
		}
		e := &Entry{Domain: domain}
		entries[domain] = e
		return e
	}

	files, err := readVhosts(p.Available)
	if err != nil {
		return nil, err
	}
	for _, name := range files {
		if isFile(filepath.Join(p.Available, name)) {
			get(strings.TrimSuffix(name, VhostExt)).File = true
		}
	}

	links, err := readVhosts(p.Enabled)
	if err != nil {
		return nil, err
	}
	for _, name := range links {
		path := filepath.Join(p.Enabled, name)
		if !isLink(path) {
			continue
		}
		e := get(strings.TrimSuffix(name, VhostExt))
		e.Link = true
		e.LinkTarget, _ = os.Readlink(path)
		if _, err := os.Stat(path); err != nil {
			e.Dangling = true
		}
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out, nil
}

func readVhosts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") && strings.HasSuffix(entry.Name(), VhostExt) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
