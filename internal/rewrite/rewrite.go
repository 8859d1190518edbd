// Package rewrite derives the server alias string, the redirect rule table
// and the www/bare canonicalization pair of a vhost.
package rewrite

import (
	"strings"

	"github.com/ksyq12/rproxy/internal/logger"
	"github.com/ksyq12/rproxy/internal/model"
)

// schemePlaceholder prefixes redirect paths that follow the request scheme
const schemePlaceholder = "[scheme]"

// Rewrite rule types
const (
	TypePermanent = "permanent"
	TypeBreak     = "break"
)

// ServerAlias builds the space-terminated alias list for rec. The record's
// own marker comes first, then one token per active child in the order given.
func ServerAlias(rec *model.DomainRecord, children []model.DomainRecord) string {
	var b strings.Builder

	switch rec.Subdomain {
	case model.AliasWWW:
		b.WriteString("www." + rec.Domain + " ")
	case model.AliasWildcard:
		b.WriteString("*." + rec.Domain + " ")
	}

	for _, child := range children {
		switch child.Subdomain {
		case model.AliasWWW:
			b.WriteString("www." + child.Domain + " " + child.Domain + " ")
		case model.AliasWildcard:
			b.WriteString("*." + child.Domain + " " + child.Domain + " ")
		default:
			b.WriteString(child.Domain + " ")
		}
		logger.Debug("Add server alias: %s", child.Domain)
	}

	return b.String()
}

// Rules returns the redirect rules of rec. Nothing is returned unless both
// redirect_type and redirect_path are set.
func Rules(rec *model.DomainRecord) []model.RewriteRule {
	if rec.RedirectType == "" || rec.RedirectPath == "" {
		return nil
	}

	path := rec.RedirectPath
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	targetHTTP, targetHTTPS := path, path
	if rest, ok := strings.CutPrefix(path, schemePlaceholder); ok {
		targetHTTP = "http" + rest
		targetHTTPS = "https" + rest
	}

	typ := classify(rec.RedirectType, path)

	var patterns []string
	switch rec.Subdomain {
	case model.AliasWWW:
		patterns = []string{"^" + rec.Domain, "^www." + rec.Domain}
	case model.AliasWildcard:
		patterns = []string{`(^|\.)` + rec.Domain}
	default:
		patterns = []string{"^" + rec.Domain}
	}

	rules := make([]model.RewriteRule, 0, len(patterns))
	for _, p := range patterns {
		rules = append(rules, model.RewriteRule{
			DomainPattern: p,
			Type:          typ,
			TargetHTTP:    targetHTTP,
			TargetHTTPS:   targetHTTPS,
		})
	}
	return rules
}

// classify maps a redirect type to an nginx rewrite flag. Absolute targets
// always redirect permanently.
func classify(redirectType, path string) string {
	if strings.HasPrefix(path, "http") {
		return TypePermanent
	}
	switch redirectType {
	case "no", "L":
		return TypeBreak
	default:
		return TypePermanent
	}
}

// SEO returns the canonicalization pair of rec. It is only enabled for
// records that also answer on www or the wildcard alias.
func SEO(rec *model.DomainRecord) model.SEORedirect {
	if rec.SEORedirect == "" {
		return model.SEORedirect{}
	}
	if rec.Subdomain != model.AliasWWW && rec.Subdomain != model.AliasWildcard {
		return model.SEORedirect{}
	}

	seo := model.SEORedirect{Enabled: true}
	switch rec.SEORedirect {
	case model.SEONonWWWToWWW:
		seo.Origin = rec.Domain
		seo.Target = "www." + rec.Domain
	case model.SEOWWWToNonWWW:
		seo.Origin = "www." + rec.Domain
		seo.Target = rec.Domain
	default:
		logger.Warn("Unknown seo_redirect %q for %s", rec.SEORedirect, rec.Domain)
		return model.SEORedirect{}
	}
	return seo
}
