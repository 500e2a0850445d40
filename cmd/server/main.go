package main

import (
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/partyline/partyline/internal/server"
)

func main() {
	cfg := server.NewConfigFromEnv()

	// Bind failures (address in use, bad address) are fatal before serving.
	listener, err := net.Listen("tcp", cfg.ChatAddr)
	if err != nil {
		log.Fatalf("Unable to listen on %s: %v", cfg.ChatAddr, err)
	}

	srv := server.NewServer(cfg)
	go srv.Serve(listener)

	httpServer := server.CreateHTTPServer(cfg.HTTPAddr, srv.Routes())
	go func() {
		log.Printf("HTTP gateway listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP gateway failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutdown signal received")
	if err := server.ShutdownHTTPServer(httpServer, 5*time.Second); err != nil {
		log.Printf("Gateway shutdown: %v", err)
	}
	if err := srv.Shutdown(10 * time.Second); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
