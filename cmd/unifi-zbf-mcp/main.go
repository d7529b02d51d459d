// Command unifi-zbf-mcp serves zone-based firewall management tools for a
// UniFi Network Controller over MCP stdio.
package main

import (
	"os"

	"github.com/claytono/unifi-zbf-mcp/internal/config"
	"github.com/claytono/unifi-zbf-mcp/internal/server"
	"github.com/claytono/unifi-zbf-mcp/internal/unifi"
	"github.com/sirupsen/logrus"
)

func main() {
	// stdout is the MCP transport; all logging goes to stderr.
	log := logrus.New()
	log.SetOutput(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	log.SetLevel(parseLogLevel(cfg.LogLevel))

	client, err := unifi.NewClient(unifi.ClientConfig{
		Host:      cfg.Host,
		APIKey:    cfg.APIKey,
		Type:      unifi.APIType(cfg.APIType),
		VerifySSL: cfg.VerifySSL,
		Timeout:   cfg.Timeout,
		Logger:    log,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create controller client")
	}

	s, err := server.New(server.Options{
		Client:      client,
		DefaultSite: cfg.Site,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create MCP server")
	}

	log.WithFields(logrus.Fields{
		"base_url": client.BaseURL(),
		"site":     cfg.Site,
	}).Info("starting MCP server on stdio")

	if err := server.Serve(s); err != nil {
		log.WithError(err).Fatal("server exited with error")
	}
}

// parseLogLevel maps a config log level string onto a logrus level. The
// "disabled" level silences everything below panic.
func parseLogLevel(level string) logrus.Level {
	switch level {
	case "disabled":
		return logrus.PanicLevel
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}
