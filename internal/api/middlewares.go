package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5/request"

	"github.com/samandr77/microservices/bills/internal/entity"
	"github.com/samandr77/microservices/bills/pkg/config"
	"github.com/samandr77/microservices/bills/pkg/logger"
	"github.com/samandr77/microservices/bills/pkg/transport"
)

type SessionStore interface {
	Get(token string) (entity.Session, error)
	Lookup(token string) (entity.Session, time.Time, error)
	Put(token string, session entity.Session) error
	Delete(token string) error
}

type Middleware struct {
	cfg        config.Config
	sessions   SessionStore
	httpClient *http.Client
}

func NewMiddleware(cfg config.Config, sessions SessionStore) *Middleware {
	const timeout = time.Second * 5

	return &Middleware{
		cfg:      cfg,
		sessions: sessions,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport.NewLoggingRoundTripper(nil),
		},
	}
}

func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.SetRequestID(r.Context(), uuid.Must(uuid.NewV4()).String())

		slog.InfoContext(ctx, "incoming request", "method", r.Method, "url", r.URL.String(), "user_ip", r.RemoteAddr)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func(ctx context.Context) {
			err := recover()
			if err != nil {
				slog.ErrorContext(ctx, "panic", "error", err, "stack", string(debug.Stack()))
				SendErr(ctx, w, http.StatusInternalServerError, fmt.Errorf("panic: %v", err), errInternalText)
			}
		}(r.Context())
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Origin, Accept")

		if r.Method == http.MethodOptions {
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) WithIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), entity.CtxKeyIP{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Auth validates the bearer token against the auth service and keeps the
// resulting session in the session store. A stored session older than the
// configured TTL is validated again, and dropped once the auth service rejects it.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accessToken, err := request.BearerExtractor{}.ExtractToken(r)
		if err != nil {
			SendErr(ctx, w, http.StatusUnauthorized, err, "Jeton absent de l'en-tête")
			return
		}

		s, validatedAt, err := m.sessions.Lookup(accessToken)
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			SendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
			return
		}

		if err != nil || time.Since(validatedAt) >= m.cfg.Auth.SessionTTL {
			s, err = m.refresh(ctx, accessToken)
			if err != nil {
				if errors.Is(err, entity.ErrUnauthorized) {
					SendErr(ctx, w, http.StatusUnauthorized, err, "Jeton invalide")
					return
				}

				SendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)

				return
			}
		}

		ctx = logger.SetUserID(ctx, s.Email)
		ctx = entity.SetTokenToContext(ctx, accessToken)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireEmployee must run after Auth.
func (m *Middleware) RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := entity.TokenFromContext(ctx)
		if err != nil {
			SendErr(ctx, w, http.StatusUnauthorized, entity.ErrUnauthorized, "Jeton absent de l'en-tête")
			return
		}

		s, err := m.sessions.Get(token)
		if err != nil {
			SendErr(ctx, w, http.StatusUnauthorized, fmt.Errorf("%w: %w", entity.ErrUnauthorized, err), "Session introuvable")
			return
		}

		if !s.IsEmployee() {
			SendErr(ctx, w, http.StatusForbidden, entity.ErrForbidden, "Page réservée aux employés")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) refresh(ctx context.Context, accessToken string) (entity.Session, error) {
	s, err := m.validate(ctx, accessToken)
	if err != nil {
		if errors.Is(err, entity.ErrUnauthorized) {
			delErr := m.sessions.Delete(accessToken)
			if delErr != nil {
				slog.ErrorContext(ctx, "delete rejected session", "error", delErr)
			}
		}

		return entity.Session{}, err
	}

	err = m.sessions.Put(accessToken, s)
	if err != nil {
		return entity.Session{}, fmt.Errorf("store session: %w", err)
	}

	return s, nil
}

func (m *Middleware) validate(ctx context.Context, accessToken string) (entity.Session, error) {
	jsonData, err := json.Marshal(map[string]string{
		"accessToken": accessToken,
	})
	if err != nil {
		return entity.Session{}, err
	}

	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost, m.cfg.Auth.ServiceURL+"/api/validate", bytes.NewReader(jsonData))
	if err != nil {
		return entity.Session{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return entity.Session{}, fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return entity.Session{}, fmt.Errorf("%w: auth service answered %d", entity.ErrUnauthorized, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return entity.Session{}, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var s entity.Session

	err = json.NewDecoder(resp.Body).Decode(&s)
	if err != nil {
		return entity.Session{}, fmt.Errorf("decode session: %w", err)
	}

	if s.Email == "" || s.Type == "" {
		return entity.Session{}, fmt.Errorf("%w: empty session", entity.ErrUnauthorized)
	}

	return s, nil
}
