package controller

import (
	"net/http"
	"net/http/pprof"
)

// PprofMux returns a mux with the net/http/pprof handlers registered at its
// root, ready to be mounted under the server's profiling prefix.
func PprofMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)

	return mux
}
