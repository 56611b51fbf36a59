package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"lms-platform/authcore/internal/audit"
	auditrepo "lms-platform/authcore/internal/audit/repository"
	"lms-platform/authcore/internal/config"
	"lms-platform/authcore/internal/db"
	"lms-platform/authcore/internal/revocation"
	"lms-platform/authcore/internal/security"
	"lms-platform/authcore/internal/server"
	"lms-platform/authcore/internal/server/interceptors"
	sessiondomain "lms-platform/authcore/internal/session/domain"
	sessionrepo "lms-platform/authcore/internal/session/repository"
	sessionservice "lms-platform/authcore/internal/session/service"
	"lms-platform/authcore/internal/telemetry/otel"
	userrepo "lms-platform/authcore/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	conn, err := db.Open(openCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	signer, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("jwt private key: %v", err)
	}
	public, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("jwt public key: %v", err)
	}
	codec := security.NewTokenCodec(signer, public, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL())

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "authcore", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	users := userrepo.NewPostgresStore(conn)
	sessions := sessionrepo.NewPostgresStore(conn)
	registry := revocation.NewPostgresRegistry(conn)
	auditor := audit.NewLogger(auditrepo.NewPostgresRepository(conn), interceptors.ClientIP)

	opts := []sessionservice.Option{sessionservice.WithAuditor(auditor)}
	if cfg.DevTokenPrefix != "" {
		opts = append(opts, sessionservice.WithDevTokens(
			cfg.DevTokenPrefix,
			devTokenResolver(users, cfg.DevTokenPrefix, cfg.AccessTTL()),
			cfg.Env,
		))
	}
	manager, err := sessionservice.NewManager(sessions, codec, registry, opts...)
	if err != nil {
		log.Fatalf("session manager: %v", err)
	}

	publicMethods := map[string]bool{
		"/grpc.health.v1.Health/Check": true,
		"/grpc.health.v1.Health/Watch": true,
	}
	metricsUnary, err := interceptors.MetricsUnary(providers.MeterProvider.Meter("authcore/server"))
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}
	grpcServer := server.New(nil,
		metricsUnary,
		interceptors.AuthUnary(manager, codec, publicMethods, cfg.ValidateTimeout()),
	)

	serveCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
	if err := server.Serve(serveCtx, grpcServer, cfg.GRPCAddr); err != nil {
		log.Fatalf("serve: %v", err)
	}
	log.Println("gRPC server stopped")
}

// devTokenResolver maps "PREFIXusername" bearer tokens to synthetic sessions
// for local development.
func devTokenResolver(users *userrepo.PostgresStore, prefix string, ttl time.Duration) sessionservice.DevTokenResolver {
	return func(ctx context.Context, token string) (*sessiondomain.Session, error) {
		username := strings.TrimPrefix(token, prefix)
		u, err := users.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if u == nil || !u.IsActive() {
			return nil, errors.New("unknown dev token")
		}
		now := time.Now().UTC()
		return &sessiondomain.Session{
			ID:             uuid.NewString(),
			UserID:         u.ID,
			Token:          token,
			Type:           sessiondomain.TypeAPI,
			Status:         sessiondomain.StatusActive,
			CreatedAt:      now,
			ExpiresAt:      now.Add(ttl),
			LastAccessedAt: now,
		}, nil
	}
}
