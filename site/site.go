// Package site holds the route list of the web site: the hand-maintained static
// routes and the article routes generated from site/content/articles.
package site

import "github.com/ancientlore/sitegen/sitemap"

//go:generate go run ../cmd/routegen -root ..

// StaticRoutes are the top-level pages that do not come from content files.
var StaticRoutes = []string{
	"/",
	"/about",
	"/pricing",
	"/contact",
	"/articles",
	"/legal/privacy",
	"/legal/terms",
}

// Routes returns the static routes followed by the article routes.
func Routes() []string {
	return sitemap.Merge(StaticRoutes, ArticleRoutes)
}
