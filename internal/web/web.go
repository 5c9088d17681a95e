// Package web serves the embedded browser pages: thin HTML shells that call
// the JSON API from the client side. The server renders no data itself.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templatesFS embed.FS

// page describes one navigable shell: its route, title, and the API
// collection it lists.
type page struct {
	Path    string
	Title   string
	APIPath string
}

var pages = []page{
	{Path: "/", Title: "Marketplace", APIPath: ""},
	{Path: "/products", Title: "Products", APIPath: "/api/products"},
	{Path: "/categories", Title: "Categories", APIPath: "/api/categories"},
	{Path: "/vendors", Title: "Vendors", APIPath: "/api/vendors"},
	{Path: "/customers", Title: "Customers", APIPath: "/api/customers"},
	{Path: "/orders", Title: "Orders", APIPath: "/api/orders"},
	{Path: "/analytics", Title: "Analytics", APIPath: "/api/analytics/summary"},
}

type pageData struct {
	page
	Nav []page
}

// Routes returns a router serving the HTML page shells.
func Routes() (http.Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	for _, p := range pages {
		data := pageData{page: p, Nav: pages}
		r.Get(p.Path, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_ = tmpl.ExecuteTemplate(w, "page.html", data)
		})
	}
	return r, nil
}
