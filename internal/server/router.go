package server

import (
	"net/http"
	"slices"
	"strings"
)

var _ Router = (*BasicRouter)(nil)

// BasicRouter routes requests through an [http.ServeMux] and wraps every route in a shared middleware stack.
//
// Middleware is captured when a route is registered, so call [BasicRouter.Use] first.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	routes      []string
}

// NewBasicRouter creates an empty [BasicRouter].
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware to the stack. The first middleware added is the outermost.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for a single method and path.
//
// The mux answers other methods on the same path with 405 and an Allow header.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	pattern := strings.ToUpper(method) + " " + path
	r.mux.Handle(pattern, r.wrap(handler))
	r.routes = append(r.routes, pattern)
}

// Handler mounts handler on every path from [Handler.Routes].
//
// These routes accept any method; the handler checks methods itself.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.wrap(handler)
	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
		r.routes = append(r.routes, route)
	}
}

// Routes returns the registered patterns in registration order.
func (r *BasicRouter) Routes() []string {
	return slices.Clone(r.routes)
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *BasicRouter) wrap(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(r.middlewares) {
		handler = mw(handler)
	}
	return handler
}
