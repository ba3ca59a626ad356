// Package service exposes dimension parsing and description over HTTP for
// query-builder backends.
package service

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jfburr/metabase/metadata"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Config struct {
	Logger   *zap.Logger
	Metadata *metadata.Metadata
	Query    metadata.Query

	// CORSAllowedOrigins is a list of origins the service will allow
	// cross-origin requests from; empty means same-origin only.
	CORSAllowedOrigins []string
}

// Core routes dimension requests against a fixed metadata registry and an
// optional query context, both read-only for the life of the service.
type Core struct {
	logger  *zap.Logger
	md      *metadata.Metadata
	qc      metadata.Query
	handler http.Handler
}

func NewCore(conf Config) *Core {
	logger := conf.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Core{
		logger: logger,
		md:     conf.Metadata,
		qc:     conf.Query,
	}
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(c.loggingMiddleware)
	router.HandleFunc("/status", c.handleStatus).Methods("GET")
	router.HandleFunc("/parse", c.handleParse).Methods("POST")
	router.HandleFunc("/options", c.handleOptions).Methods("POST")
	c.handler = router
	if len(conf.CORSAllowedOrigins) > 0 {
		c.handler = cors.New(cors.Options{
			AllowedOrigins: conf.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST"},
		}).Handler(router)
	}
	return c
}

func (c *Core) HTTPHandler() http.Handler { return c.handler }
