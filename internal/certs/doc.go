// Package certs locates the certificate material of a vhost and decides
// whether it can be served over HTTPS.
//
// Certificates are never issued here. Material is expected under
// <document_root>/ssl:
//
//	<ssl_domain>.crt         certificate
//	<ssl_domain>.key         private key
//	<ssl_domain>.bundle      optional intermediate chain
//	<ssl_domain>.nginx.crt   certificate merged with the bundle, read by nginx
//
// In Let's Encrypt mode the key and the nginx certificate are symlinks into
// the ACME live directory:
//
//	<domain>-le.key        -> <acme_live_dir>/<domain>/privkey.pem
//	<domain>-le.nginx.crt  -> <acme_live_dir>/<domain>/fullchain.pem
//
// # HTTPS eligibility
//
// A bundle is eligible when ssl is on, the ssl domain is set, and both the
// certificate and the key exist with a non-zero size. Ineligible bundles are
// not an error: the vhost is rendered without its 443 block.
//
// # Merging
//
// Merge writes the nginx certificate to a temporary file in the ssl
// directory and renames it into place, so readers never see a partial file.
package certs
