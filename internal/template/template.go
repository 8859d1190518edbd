package template

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/ksyq12/rproxy/internal/logger"
	"github.com/ksyq12/rproxy/internal/model"
)

// Engine renders a named template from scalar and list bindings
type Engine interface {
	Render(name string, vars map[string]any, loops map[string][]map[string]any) (string, error)
}

// TextEngine renders text/template files, embedded or from an override dir
type TextEngine struct {
	Dir string
}

// NewEngine creates an engine that prefers templates in dir when set
func NewEngine(dir string) *TextEngine {
	return &TextEngine{Dir: dir}
}

var funcMap = template.FuncMap{
	"replace": strings.ReplaceAll,
	"listen":  listenAddr,
	"backend": backendHost,
}

// Render implements Engine. Scalars and lists share one namespace; a list
// shadows a scalar of the same name. Unbound keys are an error.
func (e *TextEngine) Render(name string, vars map[string]any, loops map[string][]map[string]any) (string, error) {
	content, source, err := readTemplate(e.Dir, name)
	if err != nil {
		return "", fmt.Errorf("template not found: %s", name)
	}
	logger.Debug("Rendering template %s", source)

	tmpl, err := template.New(name).Funcs(funcMap).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", source, err)
	}

	data := make(map[string]any, len(vars)+len(loops))
	for k, v := range vars {
		data[k] = v
	}
	for k, v := range loops {
		data[k] = v
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", source, err)
	}
	return buf.String(), nil
}

// RenderVhost binds spec into the named template
func RenderVhost(e Engine, name string, spec *model.VhostSpec) (string, error) {
	vars, loops := Bindings(spec)
	return e.Render(name, vars, loops)
}

// Bindings maps spec onto template keys. Every key is bound, empty when the
// spec leaves it unset.
func Bindings(spec *model.VhostSpec) (map[string]any, map[string][]map[string]any) {
	var ip, ipv6 string
	if len(spec.ListenBlocks) > 0 {
		ip = spec.ListenBlocks[0].IP
		ipv6 = spec.ListenBlocks[0].IPv6
	}

	vars := map[string]any{
		"domain_id":                  spec.DomainID,
		"domain":                     spec.Domain,
		"type":                       string(spec.Type),
		"subdomain_host":             spec.SubdomainHost,
		"document_root":              spec.DocumentRoot,
		"web_folder":                 spec.WebFolder,
		"web_basedir":                spec.WebBasedir,
		"web_document_root":          spec.WebDocRoot,
		"web_document_root_www":      spec.WebDocRootWWW,
		"web_document_root_ssl":      spec.WebDocRootSSL,
		"ip_address":                 ip,
		"ipv6_address":               ipv6,
		"ipv6_enabled":               spec.IPv6Enabled,
		"ssl_domain":                 spec.SSLDomain,
		"ssl_letsencrypt":            model.Flag(spec.SSLLetsEncrypt).String(),
		"ssl_crt_file":               spec.SSLCrtFile,
		"ssl_key_file":               spec.SSLKeyFile,
		"ssl_bundle_file":            spec.SSLBundleFile,
		"http_to_https":              spec.HTTPToHTTPS,
		"seo_redirect_enabled":       spec.SEO.Enabled,
		"seo_redirect_origin_domain": spec.SEO.Origin,
		"seo_redirect_target_domain": spec.SEO.Target,
		"nginx_directives":           spec.Directives,
		"errordocs":                  spec.ErrorDocs,
		"alias":                      spec.Alias,
		"backend_http_port":          spec.BackendHTTP,
		"backend_https_port":         spec.BackendHTTPS,
	}

	blocks := make([]map[string]any, 0, len(spec.ListenBlocks))
	for _, b := range spec.ListenBlocks {
		blocks = append(blocks, map[string]any{
			"ip_address":       b.IP,
			"ipv6_address":     b.IPv6,
			"port":             b.Port,
			"ssl_enabled":      b.SSLEnabled,
			"http_to_https":    b.HTTPToHTTPS,
			"rewrite_enabled":  b.RewriteEnabled,
			"nginx_directives": spec.Directives,
			"errordocs":        spec.ErrorDocs,
		})
	}

	rules := make([]map[string]any, 0, len(spec.RewriteRules))
	for _, r := range spec.RewriteRules {
		rules = append(rules, map[string]any{
			"rewrite_domain":     r.DomainPattern,
			"rewrite_type":       r.Type,
			"rewrite_target":     r.TargetHTTP,
			"rewrite_target_ssl": r.TargetHTTPS,
		})
	}

	return vars, map[string][]map[string]any{
		"listen_blocks": blocks,
		"rewrite_rules": rules,
	}
}

// listenAddr renders the address part of a listen directive
func listenAddr(ip string, port int) string {
	if ip == "" {
		return strconv.Itoa(port)
	}
	return ip + ":" + strconv.Itoa(port)
}

// backendHost is the address the backend web server listens on
func backendHost(ip string) string {
	if ip == "" || ip == "*" {
		return "127.0.0.1"
	}
	return ip
}
