package storage

import (
	"net/url"
	"strings"
)

// publicURLs maps object keys to public URLs under a base URL and back
type publicURLs struct {
	base string
}

func newPublicURLs(base string) publicURLs {
	return publicURLs{base: strings.TrimRight(base, "/")}
}

// PublicURL returns the URL clients use to fetch key
func (p publicURLs) PublicURL(key string) string {
	return p.base + "/" + strings.TrimLeft(key, "/")
}

// KeyFromURL extracts the object key from a URL issued by PublicURL.
// URLs outside the base, or with path traversal, are rejected.
func (p publicURLs) KeyFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	u.RawQuery, u.Fragment = "", ""
	clean := u.String()
	if !strings.HasPrefix(clean, p.base+"/") {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimPrefix(clean, p.base+"/"))
	if err != nil || key == "" {
		return "", false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", false
		}
	}
	return key, true
}
