package model

// Listen ports
const (
	PortHTTP  = 80
	PortHTTPS = 443
)

// RewriteRule redirects requests whose host matches DomainPattern. Type is
// the nginx rewrite flag, permanent or break.
type RewriteRule struct {
	DomainPattern string `json:"domain_pattern"`
	Type          string `json:"type"`
	TargetHTTP    string `json:"target_http"`
	TargetHTTPS   string `json:"target_https"`
}

// ListenBlock is one port-scoped server section
type ListenBlock struct {
	IP             string `json:"ip"`
	IPv6           string `json:"ipv6"`
	Port           int    `json:"port"`
	SSLEnabled     bool   `json:"ssl_enabled"`
	HTTPToHTTPS    bool   `json:"http_to_https"`
	RewriteEnabled bool   `json:"rewrite_enabled"`
}

// SEORedirect is the www/bare canonicalization pair
type SEORedirect struct {
	Enabled bool   `json:"enabled"`
	Origin  string `json:"origin"`
	Target  string `json:"target"`
}

// VhostSpec is the fully resolved input of the config renderer.
// It is rebuilt for every event and never cached.
type VhostSpec struct {
	DomainID       int64         `json:"domain_id"`
	Domain         string        `json:"domain"`
	Type           DomainType    `json:"type"`
	SubdomainHost  string        `json:"subdomain_host,omitempty"`
	DocumentRoot   string        `json:"document_root"`
	WebFolder      string        `json:"web_folder"`
	WebBasedir     string        `json:"web_basedir"`
	WebDocRoot     string        `json:"web_document_root"`
	WebDocRootWWW  string        `json:"web_document_root_www"`
	WebDocRootSSL  string        `json:"web_document_root_ssl,omitempty"`
	IPv6Enabled    bool          `json:"ipv6_enabled"`
	SSLDomain      string        `json:"ssl_domain"`
	SSLLetsEncrypt bool          `json:"ssl_letsencrypt"`
	SSLCrtFile     string        `json:"ssl_crt_file,omitempty"`
	SSLKeyFile     string        `json:"ssl_key_file,omitempty"`
	SSLBundleFile  string        `json:"ssl_bundle_file,omitempty"`
	HTTPToHTTPS    bool          `json:"http_to_https"`
	SEO            SEORedirect   `json:"seo_redirect"`
	Directives     string        `json:"nginx_directives"`
	ErrorDocs      bool          `json:"errordocs"`
	Alias          string        `json:"alias"`
	BackendHTTP    int           `json:"backend_http_port"`
	BackendHTTPS   int           `json:"backend_https_port"`
	RewriteRules   []RewriteRule `json:"rewrite_rules"`
	ListenBlocks   []ListenBlock `json:"listen_blocks"`
}

// HTTPSBlock returns the port 443 block if present
func (s *VhostSpec) HTTPSBlock() (ListenBlock, bool) {
	for _, b := range s.ListenBlocks {
		if b.Port == PortHTTPS {
			return b, true
		}
	}
	return ListenBlock{}, false
}
