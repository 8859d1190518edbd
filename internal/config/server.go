package config

import "github.com/ksyq12/rproxy/internal/model"

// ServerContext is everything a reconciliation run needs to know about the
// server it runs on. It is built once per invocation and passed explicitly.
type ServerContext struct {
	ServerID         int64
	AvailableDir     string
	EnabledDir       string
	ACMELiveDir      string
	WebsiteBasedir   string
	SymlinksRelative bool
	BackendHTTPPort  int
	BackendHTTPSPort int
	ReloadCommand    []string
	TemplateName     string
}

// ServerContext combines the config file with the server-scoped web
// configuration from the store. Store values win when set.
func (c *Config) ServerContext(web *model.WebConfig) ServerContext {
	basedir := c.Web.WebsiteBasedir
	relative := bool(c.Web.SymlinksRelative)
	if web != nil {
		if web.WebsiteBasedir != "" {
			basedir = web.WebsiteBasedir
		}
		relative = bool(web.SymlinksRelative)
	}

	return ServerContext{
		ServerID:         c.ServerID,
		AvailableDir:     c.Paths.Available,
		EnabledDir:       c.Paths.Enabled,
		ACMELiveDir:      c.ACMELiveDir,
		WebsiteBasedir:   basedir,
		SymlinksRelative: relative,
		BackendHTTPPort:  c.Backend.HTTPPort,
		BackendHTTPSPort: c.Backend.HTTPSPort,
		ReloadCommand:    append([]string(nil), c.ReloadCommand...),
		TemplateName:     c.Template.Name,
	}
}
