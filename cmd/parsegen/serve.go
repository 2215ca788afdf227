package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/dekarrin/synparse/internal/version"
	"github.com/dekarrin/synparse/server"
	"github.com/dekarrin/synparse/server/dao"
	"github.com/spf13/pflag"
)

const (
	envListen = "PARSEGEN_LISTEN_ADDRESS"
	envSecret = "PARSEGEN_TOKEN_SECRET"
	envDB     = "PARSEGEN_DATABASE"
)

// runServe implements "parsegen serve": assemble a server.Config from flags
// (falling back to environment variables, then defaults) and serve the
// grammar-management API until interrupted.
func runServe(args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	configFile := fs.String("config", "", "Path to a TOML config file. Flags below override values it sets.")
	listen := fs.StringP("listen", "l", "", "Listen on the given ADDRESS:PORT or :PORT.")
	secret := fs.StringP("secret", "s", "", "Secret used for signing JWT tokens.")
	dbConnStr := fs.String("db", "", "DB connection string, e.g. \"inmem\" or \"sqlite:/path/to/data\".")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var cfg server.Config
	if *configFile != "" {
		var err error
		cfg, err = server.LoadConfigFile(*configFile)
		if err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}

	if *listen != "" {
		cfg.ListenAddress = *listen
	} else if env := os.Getenv(envListen); env != "" && cfg.ListenAddress == "" {
		cfg.ListenAddress = env
	}

	secStr := *secret
	if secStr == "" {
		secStr = os.Getenv(envSecret)
	}
	if secStr != "" {
		cfg.TokenSecret = growSecret([]byte(secStr))
	} else if cfg.TokenSecret == nil {
		var err error
		cfg.TokenSecret, err = randomSecret()
		if err != nil {
			return fmt.Errorf("generate token secret: %w", err)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	dbStr := *dbConnStr
	if dbStr == "" {
		dbStr = os.Getenv(envDB)
	}
	if dbStr != "" {
		db, err := server.ParseDBConnString(dbStr)
		if err != nil {
			return fmt.Errorf("parse --db: %w", err)
		}
		cfg.DB = db
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}
	defer srv.Close()

	_, err = srv.CreateUser(context.Background(), "admin", "password", dao.Admin)
	if err != nil && err != dao.ErrConstraintViolation {
		return fmt.Errorf("create initial admin user: %w", err)
	}
	if !errors.Is(err, dao.ErrConstraintViolation) {
		log.Printf("INFO  Added initial admin user with password 'password'")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("INFO  Starting parsegen server %s...", version.ServerCurrent)
	return srv.ServeForever(ctx)
}

// growSecret repeats secret until it is at least server.MinSecretSize bytes,
// matching the teacher CLI's tolerance for short user-supplied secrets.
func growSecret(secret []byte) []byte {
	for len(secret) < server.MinSecretSize {
		secret = append(secret, secret...)
	}
	if len(secret) > server.MaxSecretSize {
		secret = secret[:server.MaxSecretSize]
	}
	return secret
}

func randomSecret() ([]byte, error) {
	secret := make([]byte, server.MaxSecretSize)
	_, err := rand.Read(secret)
	return secret, err
}
