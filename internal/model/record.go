package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// DomainType is the web_domain record type
type DomainType string

// DomainType constants
const (
	TypeVhost          DomainType = "vhost"
	TypeVhostSubdomain DomainType = "vhostsubdomain"
	TypeAlias          DomainType = "alias"
	TypeSubdomain      DomainType = "subdomain"
)

// HasArtifacts reports whether records of this type own a config file.
// Alias and classic subdomain records are folded into their parent vhost.
func (t DomainType) HasArtifacts() bool {
	return t == TypeVhost || t == TypeVhostSubdomain
}

// Cascades reports whether records of this type regenerate their parent.
func (t DomainType) Cascades() bool {
	return t == TypeAlias || t == TypeSubdomain
}

// AliasMarker is the value of the subdomain column: www, * or none
type AliasMarker string

// AliasMarker constants
const (
	AliasNone     AliasMarker = ""
	AliasWWW      AliasMarker = "www"
	AliasWildcard AliasMarker = "*"
)

// SEO redirect policies
const (
	SEONonWWWToWWW = "non_www_to_www"
	SEOWWWToNonWWW = "www_to_non_www"
)

// SSLActionDelete is the ssl_action value that removes certificate material
const SSLActionDelete = "del"

// Flag is a y/n column resolved to a boolean once at the boundary.
// It accepts y/n, 1/0, true/false and yes/no in any case.
type Flag bool

func parseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "1", "true":
		return true, nil
	case "", "n", "no", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid flag value %q", s)
}

// String returns the column form of the flag
func (f Flag) String() string {
	if f {
		return "y"
	}
	return "n"
}

// Scan implements sql.Scanner
func (f *Flag) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = false
		return nil
	case bool:
		*f = Flag(v)
		return nil
	case int64:
		*f = v != 0
		return nil
	case []byte:
		parsed, err := parseFlag(string(v))
		*f = parsed
		return err
	case string:
		parsed, err := parseFlag(v)
		*f = parsed
		return err
	}
	return fmt.Errorf("cannot scan %T into Flag", src)
}

// Value implements driver.Valuer
func (f Flag) Value() (driver.Value, error) {
	return f.String(), nil
}

// UnmarshalYAML accepts both YAML booleans and y/n strings
func (f *Flag) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := parseFlag(raw)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// UnmarshalText lets environment overrides use the y/n form
func (f *Flag) UnmarshalText(text []byte) error {
	parsed, err := parseFlag(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalYAML writes the y/n column form
func (f Flag) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// DomainRecord is one row of the hosting panel's web_domain table
type DomainRecord struct {
	ID              int64       `db:"domain_id" yaml:"domain_id" json:"domain_id"`
	Domain          string      `db:"domain" yaml:"domain" json:"domain"`
	Type            DomainType  `db:"type" yaml:"type" json:"type"`
	ParentDomainID  int64       `db:"parent_domain_id" yaml:"parent_domain_id" json:"parent_domain_id"`
	IPAddress       string      `db:"ip_address" yaml:"ip_address" json:"ip_address"`
	IPv6Address     string      `db:"ipv6_address" yaml:"ipv6_address" json:"ipv6_address"`
	DocumentRoot    string      `db:"document_root" yaml:"document_root" json:"document_root"`
	SSL             Flag        `db:"ssl" yaml:"ssl" json:"ssl"`
	SSLDomain       string      `db:"ssl_domain" yaml:"ssl_domain" json:"ssl_domain"`
	SSLLetsEncrypt  Flag        `db:"ssl_letsencrypt" yaml:"ssl_letsencrypt" json:"ssl_letsencrypt"`
	SSLAction       string      `db:"ssl_action" yaml:"ssl_action" json:"ssl_action"`
	RedirectType    string      `db:"redirect_type" yaml:"redirect_type" json:"redirect_type"`
	RedirectPath    string      `db:"redirect_path" yaml:"redirect_path" json:"redirect_path"`
	SEORedirect     string      `db:"seo_redirect" yaml:"seo_redirect" json:"seo_redirect"`
	Subdomain       AliasMarker `db:"subdomain" yaml:"subdomain" json:"subdomain"`
	Active          Flag        `db:"active" yaml:"active" json:"active"`
	NginxDirectives string      `db:"nginx_directives" yaml:"nginx_directives" json:"nginx_directives"`
	ErrorDocs       Flag        `db:"errordocs" yaml:"errordocs" json:"errordocs"`
	WebFolder       string      `db:"web_folder" yaml:"web_folder" json:"web_folder"`
	ClientID        int64       `db:"sys_userid" yaml:"client_id" json:"client_id"`
}

// WebConfig is the server-scoped web configuration
type WebConfig struct {
	WebsiteBasedir   string `db:"website_basedir" yaml:"website_basedir" env:"WEBSITE_BASEDIR"`
	SymlinksRelative Flag   `db:"website_symlinks_rel" yaml:"website_symlinks_rel" env:"WEBSITE_SYMLINKS_REL"`
}
