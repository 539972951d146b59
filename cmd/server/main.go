package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/munidigital/portal-denuncias/auth"
	"github.com/munidigital/portal-denuncias/auth/sessionjwt"
	"github.com/munidigital/portal-denuncias/auth/sessionoidc"
	"github.com/munidigital/portal-denuncias/denuncias"
	"github.com/munidigital/portal-denuncias/internal/config"
	"github.com/munidigital/portal-denuncias/internal/logging"
	"github.com/munidigital/portal-denuncias/ratelimit"
	"github.com/munidigital/portal-denuncias/server"
	"github.com/munidigital/portal-denuncias/usuarios"
	"github.com/munidigital/portal-denuncias/vehiculos"
)

const configPath = "portal.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running server: %s\n", err)
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	displayAppname("portal denuncias")

	logger := logging.New(os.Stderr, cfg.Development())

	provider, err := sessionProvider(cfg)
	if err != nil {
		return fmt.Errorf("session provider: %w", err)
	}

	store, stopStore, err := rateLimitStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("rate limit store: %w", err)
	}
	defer stopStore()

	repos, closeRepos, err := buildRepos(cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer closeRepos()

	guard := auth.NewGuard(provider, usuarios.AccountRepo(repos.Usuarios), logger)
	handler := server.New(*cfg, logger, guard, ratelimit.New(store, logger), repos)

	httpServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

// sessionProvider picks OIDC when an issuer is configured, otherwise the
// shared-secret JWT provider.
func sessionProvider(cfg *config.Config) (auth.PrincipalProvider, error) {
	if cfg.Auth.OIDC.Issuer != "" {
		return sessionoidc.New(context.Background(),
			cfg.Auth.OIDC.Issuer, cfg.Auth.OIDC.ClientID, cfg.Auth.OIDC.ClientSecret, "")
	}
	return sessionjwt.New(cfg.Auth.JWTSecret), nil
}

// rateLimitStore builds the counter backend: shared database when a DSN is
// configured (with in-memory failover), plain in-memory otherwise.
func rateLimitStore(cfg *config.Config, logger *logging.Logger) (ratelimit.Store, func(), error) {
	memory := ratelimit.NewMemoryStore()
	if cfg.RateLimit.DSN == "" {
		return memory, memory.Stop, nil
	}
	sqlStore, err := ratelimit.NewSQLStore(cfg.RateLimit.DSN)
	if err != nil {
		return nil, nil, err
	}
	stop := func() {
		memory.Stop()
		_ = sqlStore.Close()
	}
	return ratelimit.NewFailoverStore(sqlStore, memory, logger), stop, nil
}

// buildRepos opens the portal database when a path is configured, falling
// back to in-memory repositories for local development.
func buildRepos(cfg *config.Config) (server.Repos, func(), error) {
	if cfg.Storage.Path == "" {
		return server.Repos{
			Denuncias: denuncias.NewInMemoryRepo(),
			Vehiculos: vehiculos.NewInMemoryRepo(),
			Usuarios:  usuarios.NewInMemoryRepo(),
		}, func() {}, nil
	}

	db, err := sql.Open("sqlite", cfg.Storage.Path)
	if err != nil {
		return server.Repos{}, nil, err
	}
	denunciasRepo, err := denuncias.NewSQLiteRepo(db)
	if err != nil {
		db.Close()
		return server.Repos{}, nil, err
	}
	vehiculosRepo, err := vehiculos.NewSQLiteRepo(db)
	if err != nil {
		db.Close()
		return server.Repos{}, nil, err
	}
	usuariosRepo, err := usuarios.NewSQLiteRepo(db)
	if err != nil {
		db.Close()
		return server.Repos{}, nil, err
	}
	repos := server.Repos{Denuncias: denunciasRepo, Vehiculos: vehiculosRepo, Usuarios: usuariosRepo}
	return repos, func() { _ = db.Close() }, nil
}

func listenAndServe(httpServer *http.Server) {
	log.Printf("Server listening on %s\n", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("server.ListenAndServe: %s\n", err)
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
