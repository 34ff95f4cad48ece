// Package server exposes the checker over HTTP for serve mode.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/bloomcheck/internal/checker"
	"github.com/vietddude/bloomcheck/internal/core/domain"
)

// Server provides HTTP endpoints for bloom queries and monitoring.
type Server struct {
	svc    *checker.Service
	server *http.Server
}

// NewServer creates a new server over the checker service.
func NewServer(svc *checker.Service, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		svc: svc,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/v1/check", s.handleCheck)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// checkResponse is the JSON shape of a check result.
type checkResponse struct {
	Chain        string  `json:"chain"`
	Block        uint64  `json:"block"`
	BlockHash    string  `json:"block_hash,omitempty"`
	Address      string  `json:"address,omitempty"`
	AddrPresent  *bool   `json:"address_in_bloom,omitempty"`
	Topic        string  `json:"topic,omitempty"`
	TopicPresent *bool   `json:"topic_in_bloom,omitempty"`
	Verified     bool    `json:"verified"`
	LogCount     *uint64 `json:"log_count,omitempty"`
	Outcome      string  `json:"outcome,omitempty"`
	ElapsedMs    int64   `json:"elapsed_ms"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}

	q := r.URL.Query()
	block, err := strconv.ParseUint(q.Get("block"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "block must be a decimal block number")
		return
	}

	req := checker.Request{
		Block:   block,
		Address: q.Get("address"),
		Topic:   q.Get("topic0"),
		Verify:  q.Get("verify") == "true" || q.Get("verify") == "1",
	}

	result, err := s.svc.Check(r.Context(), req)
	switch {
	case errors.Is(err, checker.ErrNoCandidates),
		errors.Is(err, domain.ErrNotHex),
		errors.Is(err, domain.ErrBadLength):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, checker.ErrBlockNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	resp := checkResponse{
		Chain:        result.ChainID.Name(),
		Block:        result.Block,
		BlockHash:    result.BlockHash,
		Address:      result.Address,
		AddrPresent:  result.AddrPresent,
		Topic:        result.Topic,
		TopicPresent: result.TopicPresent,
		Verified:     result.Verified,
		Outcome:      string(result.Outcome),
		ElapsedMs:    result.Elapsed.Milliseconds(),
	}
	if result.Verified {
		count := result.LogCount
		resp.LogCount = &count
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
