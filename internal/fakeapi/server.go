// Package fakeapi is an in-process stand-in for the platform API. It serves
// the endpoints the client uses and lets tests inject failures.
package fakeapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gosimple/slug"

	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/domain"
)

const (
	defaultHintCost = 5
	accessTokenTTL  = 15 * time.Minute
)

type account struct {
	password string
	user     domain.User
}

type challengeFixture struct {
	challenge domain.Challenge
	solution  string
}

// Failure is a canned answer returned instead of the real handler
type Failure struct {
	StatusCode int
	Message    string
	Delay      time.Duration
}

// Server is a fake platform API backed by in-memory state
type Server struct {
	mu     sync.Mutex
	router *mux.Router
	secret []byte
	logger primary.Logger
	srv    *http.Server

	accounts      map[string]*account
	accessTokens  map[string]string
	refreshTokens map[string]string
	challenges    map[string]*challengeFixture
	order         []string
	failures      map[string][]Failure
	calls         map[string]int
	hintCost      int
	hintText      string
}

// NewServer creates a fake API with no users and no challenges
func NewServer(logger primary.Logger) *Server {
	s := &Server{
		secret:        []byte(uuid.NewString()),
		logger:        logger,
		accounts:      make(map[string]*account),
		accessTokens:  make(map[string]string),
		refreshTokens: make(map[string]string),
		challenges:    make(map[string]*challengeFixture),
		failures:      make(map[string][]Failure),
		calls:         make(map[string]int),
		hintCost:      defaultHintCost,
		hintText:      "Think about which values you have already seen.",
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// AddUser registers an account
func (s *Server) AddUser(username, password string, points int) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := domain.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    username + "@example.com",
		Points:   points,
		Level:    1,
	}
	s.accounts[username] = &account{password: password, user: u}
	return u
}

// AddChallenge registers a challenge and returns its ID, derived from the
// title when empty. Code containing solution passes every test.
func (s *Server) AddChallenge(ch domain.Challenge, solution string) string {
	if ch.ID == "" {
		ch.ID = slug.Make(ch.Title)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.challenges[ch.ID]; !ok {
		s.order = append(s.order, ch.ID)
	}
	s.challenges[ch.ID] = &challengeFixture{challenge: ch, solution: solution}
	return ch.ID
}

// SetHint sets the hint text and per-hint cost
func (s *Server) SetHint(text string, cost int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hintText = text
	s.hintCost = cost
}

// FailNext queues a failure for the next request whose route name matches
func (s *Server) FailNext(route string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], f)
}

// ExpireAccessTokens revokes every issued access token; refresh tokens stay valid
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTokens = make(map[string]string)
}

// Calls returns how many requests reached the named route
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Points returns the server-side balance of a user
func (s *Server) Points(username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[username]; ok {
		return acc.user.Points
	}
	return 0
}

// Start listens on addr in a goroutine and returns the bound address
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.srv = &http.Server{
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("Fake API listening", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Fake API error", "error", err)
		}
	}()

	return "http://" + strings.Replace(ln.Addr().String(), "[::]", "127.0.0.1", 1), nil
}

// Stop shuts the listener down
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.logger.Info("Shutting down fake API...")
	return s.srv.Shutdown(ctx)
}
