package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"TaskCanvas/internal/config"
	"TaskCanvas/internal/graphql"
	lan "TaskCanvas/internal/net"
	"TaskCanvas/internal/session"
	"TaskCanvas/internal/store"
	"TaskCanvas/internal/ui"

	"github.com/gogpu/gg"
)

const (
	CustomURLScheme = "taskcanvas://"
	openTimeout     = 10 * time.Second
	saveTimeout     = 30 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to "+config.FileName)
	taskID := flag.String("task", "task1", "task whose canvas to edit")
	endpoint := flag.String("endpoint", "", "GraphQL endpoint, overrides the config file")
	serve := flag.String("serve", "", "run a local canvas service with mock data on this address, e.g. :8080")
	debug := flag.Bool("debug", false, "log renderer internals")
	flag.Parse()

	if *debug {
		gg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *endpoint != "" {
		cfg.Service.Endpoint = *endpoint
	}

	// A share link names both the service and the task.
	if args := flag.Args(); len(args) > 0 && strings.HasPrefix(args[0], CustomURLScheme) {
		ep, task, err := parseShareLink(args[0])
		if err != nil {
			log.Fatalf("Invalid link %q: %v", args[0], err)
		}
		cfg.Service.Endpoint, *taskID = ep, task
	}

	if *serve != "" {
		runHost(*serve)
		return
	}
	runEditor(cfg, *taskID)
}

func runHost(addr string) {
	log.Println("Starting as HOST")
	mem := store.NewMemory()
	mem.SeedMockData()

	mux := http.NewServeMux()
	mux.Handle(lan.DefaultPath, graphql.NewHandler(store.Resolver(mem)))
	peers := lan.NewPeerTracker()
	srv := &http.Server{Addr: addr, Handler: mux, ConnState: peers.ConnState}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	if mdnsServer, err := lan.Advertise(port, lan.DefaultPath); err != nil {
		log.Printf("[MDNS] Not advertising: %v", err)
	} else {
		defer mdnsServer.Shutdown()
	}

	hostIP, err := lan.OutgoingIP()
	if err != nil {
		log.Printf("[HOST] %v, sharing a loopback link", err)
		hostIP = "127.0.0.1"
	}
	log.Printf("Host server listening on port %d", port)
	log.Printf("Share link: %s%s:%d/task1", CustomURLScheme, hostIP, port)
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server stopped: %v", err)
	}
}

func runEditor(cfg config.Config, taskID string) {
	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	svc, closeSvc := connect(ctx, cfg)
	defer closeSvc()

	sess := session.Open(ctx, svc, taskID)
	ui.RunApp(fmt.Sprintf("Canvas · %s", taskID), ui.Options{
		TaskID:         taskID,
		Existing:       sess.Document(),
		Width:          float64(cfg.Canvas.Width),
		Height:         float64(cfg.Canvas.Height),
		MinShapeExtent: cfg.Canvas.MinShapeExtent,
		OnSave: func(name, data string) error {
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			return sess.Save(ctx, name, data)
		},
		OnClose: func(saved bool) {
			if saved {
				log.Printf("[SESSION] Canvas %s saved", sess.CanvasID())
			} else {
				log.Println("[SESSION] Editing cancelled")
			}
		},
	})
}

// connect builds the canvas service named by cfg, falling back to local
// mock data when configured to.
func connect(ctx context.Context, cfg config.Config) (store.Service, func()) {
	endpoint := resolveEndpoint(ctx, cfg.Service)
	log.Printf("[STORE] Using canvas service at %s", endpoint)

	var transport graphql.Transport
	if cfg.Service.Transport == config.TransportWS {
		ws, err := graphql.DialWS(ctx, endpoint, nil)
		if err != nil {
			log.Printf("[Network error]: %v", err)
			if !cfg.Service.Fallback {
				log.Fatalf("Cannot reach canvas service: %v", err)
			}
			return offlineStore(), func() {}
		}
		transport = ws
	} else {
		transport = &graphql.HTTPTransport{Endpoint: endpoint}
	}

	client := graphql.NewClient(transport)
	closeFn := func() { client.Close() }
	remote := store.NewRemote(client)
	if !cfg.Service.Fallback {
		return remote, closeFn
	}
	return store.NewFallback(remote, offlineStore()), closeFn
}

func offlineStore() store.Service {
	mem := store.NewMemory()
	mem.SeedMockData()
	return mem
}

func resolveEndpoint(ctx context.Context, sc config.ServiceConfig) string {
	if sc.Endpoint != "" {
		return sc.Endpoint
	}
	if sc.Discover {
		timeout, _ := sc.Timeout()
		ep, err := lan.Discover(ctx, timeout)
		if err == nil {
			return ep
		}
		log.Printf("[MDNS] Discovery failed: %v", err)
	}
	return config.DefaultEndpoint
}

// parseShareLink reads taskcanvas://host:port/<task>.
func parseShareLink(link string) (endpoint, task string, err error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", "", err
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		return "", "", err
	}
	if _, err := strconv.Atoi(port); err != nil {
		return "", "", fmt.Errorf("bad port %q", port)
	}
	task = strings.Trim(u.Path, "/")
	if task == "" {
		return "", "", errors.New("missing task id")
	}
	return "http://" + net.JoinHostPort(host, port) + lan.DefaultPath, task, nil
}
