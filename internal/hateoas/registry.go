package hateoas

import (
	"fmt"
	"strings"
)

// Route is a named route template, e.g. {Name: "one_user", Method: "GET",
// Path: "/api/user/:id"}. Path placeholders use the echo ":param" form.
type Route struct {
	Name   string
	Method string
	Path   string
}

// Registry resolves route names to hrefs. It is built once at startup from
// the same table the router registers, so links can never drift from the
// actual routing.
type Registry struct {
	routes map[string]Route
}

// NewRegistry builds a registry from a route table.
func NewRegistry(routes ...Route) *Registry {
	byName := make(map[string]Route, len(routes))
	for _, r := range routes {
		byName[r.Name] = r
	}
	return &Registry{routes: byName}
}

// Href resolves a route name into a concrete path, substituting ":key"
// placeholders from params.
func (r *Registry) Href(name string, params map[string]string) (string, error) {
	route, ok := r.routes[name]
	if !ok {
		return "", fmt.Errorf("hateoas: unknown route %q", name)
	}
	path := route.Path
	for key, value := range params {
		path = strings.ReplaceAll(path, ":"+key, value)
	}
	if i := strings.IndexByte(path, ':'); i >= 0 {
		return "", fmt.Errorf("hateoas: route %q has unresolved parameter in %q", name, path)
	}
	return path, nil
}

// Method returns the HTTP method of a named route, or "" if unknown.
func (r *Registry) Method(name string) string {
	return r.routes[name].Method
}

// Param is a convenience constructor for single-parameter relations.
func Param(key string, value any) map[string]string {
	return map[string]string{key: fmt.Sprint(value)}
}
