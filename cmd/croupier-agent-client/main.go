// Command croupier-agent-client is the example driver: it bootstraps a
// client.Client from environment variables, registers a couple of demo
// functions, exposes an HTTP health check, and handles SIGINT/SIGTERM with a
// watchdog-bounded graceful stop. None of this is part of the core SDK —
// env parsing, the health endpoint, and signal handling are driver concerns
// the core takes no position on.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"croupier-sdk-go/client"
	"croupier-sdk-go/corelog"
	"croupier-sdk-go/registry"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := corelog.Default

	cfg := client.Config{
		GameID:                   os.Getenv("GAME_ID"),
		Env:                      os.Getenv("ENV"),
		ServiceID:                os.Getenv("SERVICE_ID"),
		AgentAddr:                os.Getenv("AGENT_ADDR"),
		LocalListen:              envOr("LOCAL_LISTEN", "tcp://127.0.0.1:0"),
		Insecure:                 envBool("INSECURE"),
		CertFile:                 os.Getenv("CERT_FILE"),
		KeyFile:                  os.Getenv("KEY_FILE"),
		CAFile:                   os.Getenv("CA_FILE"),
		ServerName:               os.Getenv("SERVER_NAME"),
		AutoReconnect:            envBool("AUTO_RECONNECT"),
		ReconnectIntervalSeconds: envInt("RECONNECT_INTERVAL_SECONDS", 5),
		ReconnectMaxAttempts:     envInt("RECONNECT_MAX_ATTEMPTS", 0),
		BlockingConnect:          true,
		Logger:                   logger,
	}

	if cfg.AgentAddr == "" {
		logger.Errorf("driver: AGENT_ADDR is required")
		return 1
	}
	if cfg.ServiceID == "" {
		logger.Errorf("driver: SERVICE_ID is required")
		return 1
	}

	cli := client.New(cfg)
	registerDemoFunctions(cli)

	if err := cli.Connect(); err != nil {
		logger.Errorf("driver: registration failed: %v", err)
		return 1
	}
	logger.Infof("driver: registered as %s, state=%s", cfg.ServiceID, cli.State())

	health := startHealthServer(cli, logger)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Infof("driver: signal received, starting graceful stop")

	stopped := make(chan struct{})
	go func() {
		cli.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		logger.Infof("driver: graceful stop complete")
	case <-sigCh:
		logger.Warnf("driver: second signal received, forcing immediate exit")
		return 1
	case <-time.After(30 * time.Second):
		logger.Errorf("driver: graceful stop watchdog expired after 30s, forcing exit")
		return 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = health.Shutdown(shutdownCtx)

	return 0
}

// registerDemoFunctions advertises a couple of illustrative handlers so the
// driver has something for an Agent to invoke; a real deployment replaces
// this with the host application's own registrations.
func registerDemoFunctions(cli *client.Client) {
	cli.Registry().Register(registry.FunctionDescriptor{ID: "ping"}, func(ctxBytes, payload []byte) ([]byte, error) {
		return []byte("pong"), nil
	})
	cli.Registry().Register(registry.FunctionDescriptor{ID: "echo"}, func(ctxBytes, payload []byte) ([]byte, error) {
		return payload, nil
	})
}

// startHealthServer runs the HTTP health-check endpoint the spec explicitly
// excludes from the core: it reports 200 while the client is Registered and
// 503 otherwise, so an orchestrator can gate traffic on connection state.
func startHealthServer(cli *client.Client, logger corelog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if cli.IsConnected() {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "ok")
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, cli.State().String())
	})

	addr := envOr("HEALTH_ADDR", "127.0.0.1:8090")
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warnf("driver: health server: %v", err)
		}
	}()
	return srv
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return false
	}
	return v
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
