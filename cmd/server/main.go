package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/whiteboard/internal/auth"
	"github.com/inamate/whiteboard/internal/board"
	"github.com/inamate/whiteboard/internal/collab"
	"github.com/inamate/whiteboard/internal/config"
	"github.com/inamate/whiteboard/internal/db"
	"github.com/inamate/whiteboard/internal/discovery"
	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/logging"
	mw "github.com/inamate/whiteboard/internal/middleware"
	"github.com/inamate/whiteboard/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	_, logCloser := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	defer logCloser.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		slog.Error("open store", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	seed, err := loadSeeder(cfg.SeedFile)
	if err != nil {
		slog.Error("load seed", "file", cfg.SeedFile, "error", err)
		os.Exit(1)
	}

	tokens := auth.NewService(cfg.JWTSecret)
	slots := board.NewSlotStore(backend, seed)
	boardService := board.NewService(backend, tokens, slots)

	hub := collab.NewHub(slots, collab.Options{
		RedrawInterval:  cfg.RedrawInterval,
		PersistInterval: cfg.PersistInterval,
	})
	boardHandler := board.NewHandler(boardService, hub)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/boards", boardHandler.List).Methods("GET")
	r.HandleFunc("/boards", boardHandler.Create).Methods("POST", "OPTIONS")
	r.HandleFunc("/boards/{boardId}", boardHandler.Get).Methods("GET")
	r.HandleFunc("/boards/{boardId}/join", boardHandler.Join).Methods("POST", "OPTIONS")
	r.HandleFunc("/boards/{boardId}/shapes", boardHandler.Shapes).Methods("GET", "OPTIONS")
	r.HandleFunc("/boards/{boardId}/export.pdf", boardHandler.ExportPDF).Methods("GET", "OPTIONS")

	// WebSocket endpoint
	r.HandleFunc("/ws/board/{boardId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, boardService, cfg.OriginPatterns())
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.MDNSEnabled {
		mdnsServer, err := discovery.Advertise(cfg.MDNSInstance, cfg.Port)
		if err != nil {
			slog.Warn("mdns advertise failed", "error", err)
		} else {
			defer mdnsServer.Shutdown()
			slog.Info("advertising on mdns", "service", discovery.ServiceType)
		}
	}

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all open boards
		slog.Info("saving all boards...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", cfg.Store)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-shutdownDone
}

func openBackend(ctx context.Context, cfg *config.Config) (state.Backend, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return state.NewSQLite(ctx, sqlDB)
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return state.NewPostgres(ctx, pool)
	default:
		return state.NewMemory(), nil
	}
}

// loadSeeder returns the starting document of new boards: the YAML seed file
// when configured, the sample document otherwise.
func loadSeeder(path string) (board.Seeder, error) {
	if path == "" {
		return document.NewSampleDocument, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	if _, err := document.ParseSeed(data); err != nil {
		return nil, err
	}
	return func() *document.Document {
		doc, _ := document.ParseSeed(data)
		return doc
	}, nil
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, boards *board.Service, originPatterns []string) {
	boardID := mux.Vars(r)["boardId"]

	userID, err := boards.Authorize(r.Context(), boardID, auth.TokenFromRequest(r))
	switch {
	case errors.Is(err, board.ErrNotFound):
		http.Error(w, "board not found", http.StatusNotFound)
		return
	case errors.Is(err, board.ErrForbidden):
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	case err != nil:
		slog.Error("authorize websocket", "board", boardID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(conn, userID, boardID, clientID)

	ctx := r.Context()
	if err := hub.Register(ctx, client); err != nil {
		slog.Error("register client", "board", boardID, "error", err)
		conn.Close(websocket.StatusInternalError, "board unavailable")
		return
	}

	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
