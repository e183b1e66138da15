// Package httpserver provides the shared HTTP server used by the
// auctionet binaries.
//
// BaseServer wires the standard middleware, health endpoints and the
// optional metrics listener around component-specific routes, and owns
// the server lifecycle: background startup, drain/undrain readiness
// control for load balancers, and graceful shutdown.
//
// Components expose their routes through the RouteRegistrar interface:
//
//	func (h *Handler) RegisterRoutes(r chi.Router) {
//	    r.Post("/rpc/{operation}", h.handleRequest)
//	}
//
//	srv, _ := httpserver.New(cfg, handler)
//	srv.RunInBackground()
//	defer srv.Shutdown()
package httpserver
