// Package grpcserver exposes the standard gRPC health service for a
// completed store, so orchestrators can gate traffic on a usable build.
package grpcserver

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"plainrecalls/internal/logging"
	"plainrecalls/internal/store"
	"plainrecalls/pkg/database"
)

// StoreService is the service name reported alongside the overall ("")
// status.
const StoreService = "plainrecalls.Store"

const DefaultInterval = 30 * time.Second

// Server reopens the store on every refresh, so a build swapped in by
// rename is picked up and a missing store simply reports NOT_SERVING.
type Server struct {
	Path     string
	Health   *health.Server
	Interval time.Duration
}

func NewServer(path string) *Server {
	s := &Server{Path: path, Health: health.NewServer(), Interval: DefaultInterval}
	s.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Register attaches the health service to srv.
func (s *Server) Register(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, s.Health)
}

// Refresh re-checks the store: SERVING only when it opens and carries a
// total_recalls stat.
func (s *Server) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING

	total, err := s.readStats(ctx)
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		logging.Warn().Err(err).Str("path", s.Path).Msg("store not ready")
	} else {
		logging.Debug().Int("total_recalls", total).Msg("store ready")
	}

	s.set(status)
	return status
}

func (s *Server) readStats(ctx context.Context) (int, error) {
	db, err := database.Open(database.Config{Path: s.Path, ReadOnly: true})
	if err != nil {
		return 0, err
	}
	defer db.Close()

	stats, err := store.ReadStats(ctx, db)
	return stats.TotalRecalls, err
}

func (s *Server) set(status healthpb.HealthCheckResponse_ServingStatus) {
	s.Health.SetServingStatus("", status)
	s.Health.SetServingStatus(StoreService, status)
}

// Run refreshes the status every Interval until ctx is done, then marks
// every service NOT_SERVING.
func (s *Server) Run(ctx context.Context) {
	s.Refresh(ctx)

	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Health.Shutdown()
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}
