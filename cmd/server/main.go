package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"tetris/leaderboard"
	"tetris/proto"
	"tetris/server"

	"google.golang.org/grpc"
)

func main() {
	port := flag.Int("port", 9000, "port to listen on")
	flag.Parse()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	defer lis.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	s := grpc.NewServer()
	defer s.Stop()
	proto.RegisterLeaderboardServer(s, server.New(leaderboard.New(), logger))

	logger.Info("starting leaderboard server", slog.String("address", lis.Addr().String()))
	if err := s.Serve(lis); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
