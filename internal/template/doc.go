// Package template renders nginx reverse proxy vhosts.
//
// The default template is embedded in the binary:
//
//	nginx/nginx_reverse_proxy.vhost.conf.tmpl
//
// A template with the same name in the configured template directory takes
// precedence, so operators can adjust the generated config without a rebuild.
//
// # Bindings
//
// RenderVhost binds every VhostSpec field as a scalar (domain, alias,
// ssl_crt_file, web_document_root_www, seo_redirect_enabled, ...) and two
// lists:
//
//	listen_blocks  ip_address, ipv6_address, port, ssl_enabled,
//	               http_to_https, rewrite_enabled, nginx_directives, errordocs
//	rewrite_rules  rewrite_domain, rewrite_type, rewrite_target,
//	               rewrite_target_ssl
//
// Unset fields are bound as empty values. Referencing a key that is not bound
// fails the render.
//
// # Custom Functions
//
//   - replace: strings.ReplaceAll
//   - listen: "ip:port", or the bare port when ip is empty
//   - backend: the backend address for a listen ip, 127.0.0.1 for "*"
package template
