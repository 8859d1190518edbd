package template

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed nginx/*.tmpl
var nginxTemplates embed.FS

// tmplExt is appended to template names to find their file
const tmplExt = ".tmpl"

// readTemplate loads a template by name. A file in dir wins over the embedded
// copy; both "<name>" and "<name>.tmpl" are accepted there.
func readTemplate(dir, name string) ([]byte, string, error) {
	if dir != "" {
		for _, candidate := range []string{name + tmplExt, name} {
			path := filepath.Join(dir, candidate)
			if data, err := os.ReadFile(path); err == nil {
				return data, path, nil
			}
		}
	}

	path := "nginx/" + name + tmplExt
	data, err := fs.ReadFile(nginxTemplates, path)
	if err != nil {
		return nil, "", err
	}
	return data, "embedded:" + path, nil
}

// Available lists the embedded template names
func Available() []string {
	entries, err := fs.ReadDir(nginxTemplates, "nginx")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name()[:len(e.Name())-len(tmplExt)])
	}
	return names
}
