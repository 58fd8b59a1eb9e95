package main

import (
	"flag"
	"log"
	"os"

	"AgroPulse/internal/di"
	"AgroPulse/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s predictions=%s tick=%s", cfg.Environment, cfg.Predictions.Provider, cfg.Simulator.TickInterval)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if cfg.Kafka.Enabled {
		log.Printf("kafka: brokers=%v telemetry=%s commands=%s", cfg.Kafka.Brokers, cfg.Kafka.TelemetryTopic, cfg.Kafka.CommandTopic)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
