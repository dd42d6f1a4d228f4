// Package main is the entry point for the RC Agent.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"rc-agent/internal/agent"
	"rc-agent/internal/config"
	"rc-agent/internal/logging"
	"rc-agent/internal/notify"
)

// These variables are populated during the build process using -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := logging.New(logging.Options{Level: os.Getenv("RC_LOG_LEVEL")})
	entry := logging.Component(logger, "main")
	entry.WithFields(logrus.Fields{
		"version": version,
		"commit":  commit,
		"built":   date,
	}).Info("starting rc-agent")

	configPath := "./config.json"
	cfg, err := config.Load(configPath)
	if err != nil {
		entry.WithError(err).Fatal("failed to load configuration")
	}
	entry.WithFields(logrus.Fields{
		"broker": cfg.Broker,
		"port":   cfg.Port,
	}).Info("configuration loaded")

	var a *agent.Agent
	if cfg.Notify {
		a = agent.New(cfg, entry, notify.NewTrayNotifier())
	} else {
		a = agent.New(cfg, entry, nil)
	}

	go a.Run()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	entry.Info("shutdown signal received, stopping agent")
	a.Shutdown()
	entry.Info("graceful shutdown complete")
}
