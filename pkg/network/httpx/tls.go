package httpx

import "golang.org/x/crypto/acme/autocert"

const certCacheDir = "assets/cache"

// autoCert manages ACME-issued certificates for servers configured
// without an explicit key pair. Issued certs are cached on disk, so
// restarts don't burn through the issuer rate limits.
func autoCert(domain string) *autocert.Manager {
	m := &autocert.Manager{
		Prompt: autocert.AcceptTOS,
		Cache:  autocert.DirCache(certCacheDir),
	}
	if domain != "" {
		m.HostPolicy = autocert.HostWhitelist(domain)
	}
	return m
}
