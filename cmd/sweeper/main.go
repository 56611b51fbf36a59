// Sweeper deletes expired sessions and spent revocation entries on a fixed
// interval. Run alongside the server; SESSION_SWEEP_INTERVAL controls the
// cadence. GRPC_ADDR is required by config but unused (e.g. set to :0).
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms-platform/authcore/internal/config"
	"lms-platform/authcore/internal/db"
	"lms-platform/authcore/internal/revocation"
	sessionrepo "lms-platform/authcore/internal/session/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("sweeper: DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	conn, err := db.Open(openCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	sessions := sessionrepo.NewPostgresStore(conn)
	registry := revocation.NewPostgresRegistry(conn)
	interval := cfg.SweepInterval()

	log.Printf("sweeper: running every %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep(ctx, sessions, registry)
	for {
		select {
		case <-ctx.Done():
			log.Println("sweeper: shutting down")
			return
		case <-ticker.C:
			sweep(ctx, sessions, registry)
		}
	}
}

func sweep(ctx context.Context, sessions *sessionrepo.PostgresStore, registry *revocation.PostgresRegistry) {
	sweepCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	now := time.Now().UTC()
	deleted, err := sessions.DeleteExpired(sweepCtx, now)
	if err != nil {
		log.Printf("sweeper: delete expired sessions: %v", err)
	} else if deleted > 0 {
		log.Printf("sweeper: deleted %d expired sessions", deleted)
	}

	// Revocation entries only matter while the token they kill could still
	// verify; drop the rest.
	dropped, err := registry.DeleteExpired(sweepCtx, now)
	if err != nil {
		log.Printf("sweeper: delete spent revocations: %v", err)
	} else if dropped > 0 {
		log.Printf("sweeper: dropped %d spent revocations", dropped)
	}
}
