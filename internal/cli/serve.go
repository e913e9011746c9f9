package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"netdiagram/internal/adapter"
	"netdiagram/internal/config"
	"netdiagram/internal/domain"
	"netdiagram/internal/handler"
	"netdiagram/internal/hub"
	"netdiagram/internal/repository"
	"netdiagram/internal/repository/sqlite"
	"netdiagram/internal/service"
	"netdiagram/internal/watcher"
)

type serveOptions struct {
	addr       string
	dbPath     string
	noAutosave bool
	watch      string
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editing session over HTTP and SSE",
		Long: `Serve the editing session over HTTP and SSE.

One session is shared by every client. The layout runs continuously; frame
and mutation events stream on /events. With autosave enabled the session is
restored from the snapshot store at start-up and saved again on shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.addr != "" {
				cfg.Server.Addr = opts.addr
			}
			if opts.dbPath != "" {
				cfg.Database.Path = opts.dbPath
			}
			if opts.noAutosave {
				cfg.Autosave.Enabled = false
			}
			return c.runServe(cmd.Context(), cfg, opts.watch)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "HTTP listen address (default: from config, :3000)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "snapshot database path (default: from config)")
	cmd.Flags().BoolVar(&opts.noAutosave, "no-autosave", false, "do not restore or save the autosave snapshot")
	cmd.Flags().StringVar(&opts.watch, "watch", "", "import this document at start-up and again whenever it changes")

	return cmd
}

// runServe wires the session, loop, hub and router and blocks until ctx is
// cancelled. A non-empty watch path is imported, replacing any autosave.
func (c *CLI) runServe(ctx context.Context, cfg *config.Config, watch string) error {
	logger := c.Logger

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()
	logger.Info("Snapshot store opened", "path", cfg.Database.Path)

	bus := service.NewEventBus()
	session := service.NewSession(sessionConfig(cfg, nil), bus, logger)

	if cfg.Autosave.Enabled {
		if err := restoreAutosave(ctx, store, session, cfg.Autosave.Name); err != nil {
			return err
		}
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loop := service.NewLoop(session, service.LoopConfig{
		FPS:            cfg.Frames.FPS,
		BroadcastEvery: cfg.Frames.BroadcastEvery,
	}, logger)
	go loop.Run(loopCtx)

	hubCtx, stopHub := context.WithCancel(loopCtx)
	defer stopHub()
	sseHub := hub.New(logger)
	go sseHub.Run(hubCtx)
	go forwardEvents(loopCtx, bus, sseHub)

	scanner := adapter.NewNmapScanner(
		adapter.WithTimeout(cfg.Discovery.Timeout.Duration()),
		adapter.WithGateway(cfg.Discovery.Gateway),
		adapter.WithSkipHostDiscovery(cfg.Discovery.SkipHostDiscovery),
		adapter.WithLogger(logger),
		adapter.WithEventPublisher(adapter.EventPublisherFunc(func(eventType string, payload any) {
			sseHub.Broadcast(service.Event{Type: service.EventType(eventType), Payload: payload})
		})),
	)

	h := handler.NewEditorHandler(loop, logger)
	h.SetSnapshotStore(store)
	h.SetDiscoverer(scanner)
	h.SetBackground(loopCtx)

	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     h.Routes(sseHub),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
		// no WriteTimeout: SSE responses stay open
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", cfg.Server.Addr, "session", session.ID())
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	if watch != "" {
		reload := func() { importFile(loopCtx, loop, watch, logger) }
		reload()
		go func() {
			err := watcher.New(watch, reload, logger).Watch(loopCtx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Watch failed", "path", watch, "err", err)
			}
		}()
	}

	if len(cfg.Discovery.Targets) > 0 {
		go discoverAtStartup(loopCtx, loop, scanner, cfg.Discovery.Targets, logger)
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// SSE streams only end once the hub stops
	stopHub()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server shutdown error", "err", err)
	}

	if cfg.Autosave.Enabled {
		if err := saveAutosave(shutdownCtx, store, loop, cfg.Autosave.Name, logger); err != nil {
			logger.Error("Autosave failed", "err", err)
		}
	}

	logger.Info("Server stopped")
	return nil
}

func restoreAutosave(ctx context.Context, store repository.SnapshotStore, s *service.Session, name string) error {
	snap, err := store.Load(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load autosave %q: %w", name, err)
	}
	if err := s.Restore(snap); err != nil {
		return fmt.Errorf("restore autosave %q: %w", name, err)
	}
	return nil
}

func saveAutosave(ctx context.Context, store repository.SnapshotStore, loop *service.Loop, name string, logger *log.Logger) error {
	var snap *domain.Snapshot
	err := loop.Do(ctx, func(s *service.Session) error {
		snap = s.Snapshot()
		return nil
	})
	if err != nil {
		return err
	}
	if err := store.Save(ctx, name, snap); err != nil {
		return err
	}
	logger.Info("Autosaved", "name", name, "devices", len(snap.Devices), "links", len(snap.Links))
	return nil
}

// forwardEvents relays session events to SSE clients until ctx is done
func forwardEvents(ctx context.Context, bus *service.EventBus, h *hub.Hub) {
	events := make(chan service.Event, 256)
	unsubscribe := bus.Subscribe(events)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-events:
			h.Broadcast(e)
		}
	}
}

func discoverAtStartup(ctx context.Context, loop *service.Loop, d adapter.Discoverer, targets []string, logger *log.Logger) {
	doc, err := d.Discover(ctx, targets)
	if err != nil {
		logger.Error("Startup discovery failed", "err", err)
		return
	}
	if err := loop.Do(ctx, func(s *service.Session) error { return s.Import(doc) }); err != nil {
		logger.Error("Startup discovery import failed", "err", err)
	}
}

// importFile replaces the session graph with the document at path
func importFile(ctx context.Context, loop *service.Loop, path string, logger *log.Logger) {
	doc, err := readDocument(path)
	if err != nil {
		logger.Error("Reload failed", "err", err)
		return
	}
	if err := loop.Do(ctx, func(s *service.Session) error { return s.Import(doc) }); err != nil {
		logger.Error("Reload failed", "path", path, "err", err)
		return
	}
	logger.Info("Document imported", "path", path, "devices", len(doc.Hosts)+len(doc.Routers), "links", len(doc.Links))
}
