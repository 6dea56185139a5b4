package web

import (
	"net/http"
	"path"
	"time"
)

var gmtZone *time.Location

func init() {
	var err error
	gmtZone, err = time.LoadLocation("GMT")
	if err != nil {
		gmtZone = time.UTC
	}
}

// HeaderHandler returns an http.Handler that adds the given headers to the response.
func HeaderHandler(h http.Handler, headers map[string]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		h.ServeHTTP(w, r)
	})
}

// isRendered reports whether the URL path refers to a page built from content:
// folders, routes without an extension, HTML pages, and the site map and robots files.
func isRendered(p string) bool {
	switch p {
	case "/sitemap.xml", "/sitemap.txt", "/robots.txt":
		return true
	}
	ext := path.Ext(p)
	return ext == "" || ext == ".html" || p[len(p)-1] == '/'
}

// ExpiresHandler adds the expires header choosing expires for rendered content
// and staticExpires for static content.
func ExpiresHandler(h http.Handler, expires, staticExpires time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expiry := staticExpires
		if r.URL.Path == "" || isRendered(r.URL.Path) {
			expiry = expires
		}
		if expiry != 0 {
			w.Header().Set("Expires", time.Now().Add(expiry).In(gmtZone).Format(time.RFC1123))
		}
		h.ServeHTTP(w, r)
	})
}
