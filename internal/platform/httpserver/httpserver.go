package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. The write timeout must cover a full insurer
// retry cycle, since calculate and issue handlers block on the upstream call.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
}
