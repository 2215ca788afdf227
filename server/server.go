// Package server assembles the HTTP API for managing and parsing against
// stored grammars into a runnable server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dekarrin/synparse/cache"
	"github.com/dekarrin/synparse/server/api"
	"github.com/dekarrin/synparse/server/dao"
	"github.com/dekarrin/synparse/server/middle"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// Server is a running grammar server: the HTTP listener plus the backing
// store and cache it was configured with.
type Server struct {
	http *http.Server
	db   dao.Store
}

// New builds a Server from cfg. The returned Server is not yet listening;
// call ServeForever to start it.
func New(cfg Config) (Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Server{}, fmt.Errorf("invalid config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return Server{}, fmt.Errorf("connect to db: %w", err)
	}

	a := api.API{
		DB:          db,
		Cache:       cache.New(cfg.CacheDir),
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	router := chi.NewRouter()
	router.Use(middle.DontPanic())

	router.Route(api.PathPrefix, func(r chi.Router) {
		r.Route("/grammars", func(r chi.Router) {
			auth := middle.RequireAuth(db.Users(), a.Secret, a.UnauthDelay, dao.User{})
			optAuth := middle.OptionalAuth(db.Users(), a.Secret, a.UnauthDelay, dao.User{})

			r.With(optAuth).Get("/", a.Endpoint(a.ListGrammars))
			r.With(auth, middle.RequireAdmin()).Post("/", a.Endpoint(a.CreateGrammar))

			r.Route("/{id}", func(r chi.Router) {
				r.With(optAuth).Get("/", a.Endpoint(a.GetGrammar))
				r.With(auth, middle.RequireAdmin()).Put("/", a.Endpoint(a.UpdateGrammar))
				r.With(auth, middle.RequireAdmin()).Delete("/", a.Endpoint(a.DeleteGrammar))
				r.With(optAuth).Post("/parse", a.Endpoint(a.ParseText))
			})
		})

		r.Post("/login", a.Endpoint(a.Login))

		r.With(middle.OptionalAuth(db.Users(), a.Secret, a.UnauthDelay, dao.User{})).
			Get("/info", a.Endpoint(a.Info))
	})

	return Server{
		http: &http.Server{
			Addr:    cfg.ListenAddress,
			Handler: router,
		},
		db: db,
	}, nil
}

// CreateUser creates a new account directly against the backing store,
// bypassing the HTTP API. This is how a server operator bootstraps the
// initial admin account.
func (s Server) CreateUser(ctx context.Context, username, password string, role dao.Role) (dao.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return dao.User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.db.Users().Create(ctx, dao.User{
		Username: username,
		Password: hash,
		Role:     role,
	})
}

// ServeForever starts the HTTP listener and blocks until ctx is cancelled,
// at which point it gives in-flight requests a grace period to finish
// before returning.
func (s Server) ServeForever(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// Close releases the Server's backing store. It does not stop an in-flight
// ServeForever call; cancel its context first.
func (s Server) Close() error {
	return s.db.Close()
}

// hashPassword bcrypt-hashes password for storage. The hash is stored as-is:
// bcrypt's own encoding is already printable ASCII, so no further encoding
// step is needed before it can go in a string column.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
