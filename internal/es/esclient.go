package es

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/garage_market/internal/config"
)

// NewClient connects to Elasticsearch and checks the cluster answers. The
// transport is optional and only set by tests.
func NewClient(cfg *config.Config, transport http.RoundTripper) (*elasticsearch.Client, error) {
	if cfg.ESURL == "" {
		return nil, fmt.Errorf("es: ES_URL is empty")
	}
	slog.Info("es_connect", "url", cfg.ESURL, "user", cfg.ESUser)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ESURL},
		Username:  cfg.ESUser,
		Password:  cfg.ESPassword,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("es: create client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es: info returned %s: %s", res.Status(), body)
	}

	return client, nil
}
