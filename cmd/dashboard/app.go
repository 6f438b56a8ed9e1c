package main

import (
	"context"
	"fmt"
	"os"

	"github.com/LuminariMUD/LuminariGUI-sub002/cmd/dashboard/ui"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/atlas"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/config"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/debug"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/observability"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/session"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/speedwalk"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/transport"
)

func createApp() (ui.Model, func(), error) {
	configPath := os.Getenv("DASHBOARD_CONFIG")
	if configPath == "" {
		configPath = "dashboard.yml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return ui.Model{}, nil, err
	}

	debugMode := os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true"
	debugLogger := debug.NewLogger(debugMode)

	ctx := context.Background()
	tracingConfig := observability.LoadConfigFromEnv()
	tracerProvider, err := observability.InitTracing(ctx, tracingConfig)
	if err != nil {
		debugLogger.Printf("Failed to initialize tracing: %v", err)
		tracerProvider, _ = observability.InitTracing(ctx, observability.Config{Enabled: false})
	} else if tracerProvider.IsEnabled() {
		debugLogger.Println("OpenTelemetry tracing initialized and enabled")
	}

	store, err := atlas.OpenStore(cfg.Map.DatabasePath)
	if err != nil {
		return ui.Model{}, nil, fmt.Errorf("failed to open map store: %w", err)
	}

	graph, err := store.Load(debugLogger)
	if err != nil {
		store.Close()
		return ui.Model{}, nil, fmt.Errorf("failed to load map: %w", err)
	}
	debugLogger.Printf("Map loaded: %d rooms", graph.Len())

	conn, err := transport.Dial(ctx, cfg.Telemetry.URL, debugLogger)
	if err != nil {
		store.Close()
		return ui.Model{}, nil, err
	}

	bounds := speedwalk.Bounds{
		ConfirmWait:     cfg.Speedwalk.ConfirmWait(),
		MaxSendAttempts: cfg.Speedwalk.MaxSendAttempts,
		MaxReroutes:     cfg.Speedwalk.MaxReroutes,
	}

	sess := session.New(graph, conn, debugLogger, tracerProvider.GetTracer("dashboard"), bounds)
	sess.Start()

	go func() {
		if err := conn.ReadLoop(sess.HandleTelemetry); err != nil {
			debugLogger.Printf("telemetry feed closed: %v", err)
		}
	}()

	model := ui.NewModel(sess, debugLogger, debugMode)

	cleanup := func() {
		sess.CancelWalk()
		if err := sess.SaveMap(store); err != nil {
			debugLogger.Printf("failed to save map: %v", err)
		}
		sess.Stop()
		conn.Close()
		store.Close()
		tracerProvider.Shutdown(context.Background())
	}

	return model, cleanup, nil
}
