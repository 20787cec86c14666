package fakeapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/codebadge.net/internal/handlers/response"
)

// Route names accepted by FailNext and Calls
const (
	RouteLogin     = "login"
	RouteRefresh   = "refresh"
	RouteMe        = "me"
	RouteRandom    = "random"
	RouteChallenge = "challenge"
	RouteRun       = "run"
	RouteSubmit    = "submit"
	RouteHint      = "hint"
)

type ctxKey struct{}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recordMiddleware)

	r.HandleFunc("/api/auth/login", s.Login).Methods("POST").Name(RouteLogin)
	r.HandleFunc("/api/auth/refresh", s.Refresh).Methods("POST").Name(RouteRefresh)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.JWTMiddleware)
	api.HandleFunc("/users/me", s.Me).Methods("GET").Name(RouteMe)
	api.HandleFunc("/challenges/random", s.RandomChallenge).Methods("GET").Name(RouteRandom)
	api.HandleFunc("/challenges/{challengeId}", s.GetChallenge).Methods("GET").Name(RouteChallenge)
	api.HandleFunc("/challenges/{challengeId}/run", s.Run).Methods("POST").Name(RouteRun)
	api.HandleFunc("/challenges/{challengeId}/submit", s.Submit).Methods("POST").Name(RouteSubmit)
	api.HandleFunc("/ai/hint", s.Hint).Methods("POST").Name(RouteHint)

	return r
}

// recordMiddleware counts calls per route and serves queued failures
func (s *Server) recordMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}

		s.mu.Lock()
		s.calls[name]++
		var failure *Failure
		if queued := s.failures[name]; len(queued) > 0 {
			f := queued[0]
			s.failures[name] = queued[1:]
			failure = &f
		}
		s.mu.Unlock()

		if failure != nil {
			if failure.Delay > 0 {
				select {
				case <-time.After(failure.Delay):
				case <-r.Context().Done():
					return
				}
			}
			response.WriteError(w, response.ErrorMessage{
				Message:    failure.Message,
				StatusCode: failure.StatusCode,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// JWTMiddleware checks the bearer token's signature and that it is still live
func (s *Server) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "Authorization header missing")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			unauthorized(w, "Invalid token")
			return
		}

		s.mu.Lock()
		username, live := s.accessTokens[tokenString]
		s.mu.Unlock()
		if !live {
			unauthorized(w, "Token expired")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, username)))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	response.WriteError(w, response.ErrorMessage{Message: msg, StatusCode: http.StatusUnauthorized})
}

// issueTokens must be called with s.mu held
func (s *Server) issueTokens(acc *account) (string, string, error) {
	claims := jwt.MapClaims{
		"sub":      acc.user.ID,
		"username": acc.user.Username,
		"exp":      time.Now().Add(accessTokenTTL).Unix(),
		"jti":      uuid.NewString(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	refresh := uuid.NewString()
	s.accessTokens[access] = acc.user.Username
	s.refreshTokens[refresh] = acc.user.Username
	return access, refresh, nil
}
