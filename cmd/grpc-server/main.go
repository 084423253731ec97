package main

import (
	"context"
	"net"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"plainrecalls/internal/grpcserver"
	"plainrecalls/internal/logging"
	"plainrecalls/pkg/utils"
)

func main() {
	cfg := utils.MustLoad()
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	listener, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		logging.Fatal().Err(err).Str("addr", cfg.GRPC.Addr).Msg("grpc listen failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := grpcserver.NewServer(cfg.DBPath)
	grpcServer := grpc.NewServer()
	svc.Register(grpcServer)

	go svc.Run(ctx)
	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()

	logging.Info().Str("addr", cfg.GRPC.Addr).Msg("gRPC health server listening")
	if err := grpcServer.Serve(listener); err != nil {
		logging.Error().Err(err).Msg("grpc server stopped")
	}
}
