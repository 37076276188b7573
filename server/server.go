// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package server exposes imgedit editors to a browser over WebSocket.
//
// Every connection owns one editor and one tool palette; connections share
// nothing. The browser sends JSON messages (see [ClientMessage]) and
// receives a [FrameMessage] followed by a binary PNG of the flattened image
// after every change.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/imgedit"
	"github.com/gogpu/imgedit/config"
)

// shutdownTimeout bounds how long ListenAndServe waits for open requests.
const shutdownTimeout = 5 * time.Second

// Server serves the /ws endpoint.
type Server struct {
	mu  sync.RWMutex
	cfg config.Config

	upgrader websocket.Upgrader
	log      *slog.Logger
	conns    sync.WaitGroup
}

// New creates a server using cfg.
func New(cfg config.Config) *Server {
	s := &Server{
		cfg: cfg,
		log: imgedit.Logger(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// SetConfig replaces the configuration used for new connections.
// Open connections keep the tools they started with.
func (s *Server) SetConfig(cfg config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.log.Info("server: configuration reloaded", "default_tool", cfg.Tools.Default)
}

// Config returns the configuration used for new connections.
func (s *Server) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Handler returns the HTTP handler with the /ws and /healthz routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// ServeWS upgrades the request and runs an editor session until the
// connection closes.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.log.Warn("server: upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	s.conns.Add(1)
	defer s.conns.Done()

	c, err := newConn(ws, s.Config(), s.log.With("remote", r.RemoteAddr))
	if err != nil {
		s.log.Warn("server: session setup failed", "err", err)
		_ = ws.Close()
		return
	}
	c.run(r.Context())
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Config().Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server: listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.conns.Wait()
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// checkOrigin allows same-origin requests, or any origin listed in the
// configuration when the list is not empty.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	allowed := s.Config().AllowedOrigins
	if len(allowed) == 0 {
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	}
	return slices.Contains(allowed, origin)
}
