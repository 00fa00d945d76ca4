package restapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/solana-archiver/block-syncer/logging"
	"github.com/solana-archiver/block-syncer/restapi/handlers"
	"github.com/solana-archiver/block-syncer/service"
)

// Server exposes the read-only query surface over HTTP.
type Server struct {
	address  string
	querySvc service.Query
}

func NewServer(address string, querySvc service.Query) *Server {
	return &Server{
		address:  address,
		querySvc: querySvc,
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/query", handlers.HandleQuery(s.querySvc)).Methods(http.MethodPost)
	router.HandleFunc("/status", handlers.HandleStatus(s.querySvc)).Methods(http.MethodGet)
	return router
}

// Serve blocks until the listener fails.
func (s *Server) Serve() error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logging.Logger.Infof("query api listening on %s", s.address)
	return srv.ListenAndServe()
}
