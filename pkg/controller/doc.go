// Package controller contains HTTP middlewares and helper handlers used by the
// API server.
//
// Middlewares:
//   - WithCORS: adds permissive CORS headers and answers OPTIONS preflight.
//   - WithLogger: attaches a request-scoped logger and request ID to the
//     context and emits an access log entry per request.
//
// Helpers:
//   - PprofMux: returns a ServeMux exposing the net/http/pprof handlers.
package controller
