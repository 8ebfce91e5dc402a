package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"time"

	"go.uber.org/zap"

	"newsdesk/internal/client"
	"newsdesk/internal/config"
	"newsdesk/internal/logging"
	"newsdesk/internal/model"
)

func main() {
	cfg := config.Load()
	apiURL := flag.String("api", "http://localhost:"+cfg.ServerPort, "newsdesk server base URL")
	flag.Parse()

	logger := logging.Must(cfg.LogLevel, !cfg.IsProduction())
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := client.New(*apiURL)

	personas, err := api.ListDemoPersonas(ctx)
	if err != nil {
		logger.Fatal("fetch demo personas", zap.String("api", *apiURL), zap.Error(err))
	}
	logger.Info("fetched demo personas", zap.Int("count", len(personas)))

	created, skipped := 0, 0
	for _, p := range personas {
		ok, err := seedPersona(ctx, api, p)
		if err != nil {
			logger.Fatal("seed persona", zap.String("persona", p.ID), zap.Error(err))
		}
		if !ok {
			skipped++
			logger.Info("persona already has a profile", zap.String("persona", p.ID))
			continue
		}
		created++
		logger.Info("persona seeded", zap.String("persona", p.ID), zap.String("role", string(p.Role)))
	}

	logger.Info("seed completed", zap.Int("created", created), zap.Int("skipped", skipped))
}

// seedPersona creates a complete profile for p unless one exists. It reports
// whether a profile was created.
func seedPersona(ctx context.Context, api *client.Client, p model.Persona) (bool, error) {
	_, err := api.GetUserByUID(ctx, p.ID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, client.ErrNotFound) {
		return false, err
	}

	complete := true
	_, err = api.CreateUser(ctx, model.CreateUserInput{
		UID:             p.ID,
		FullName:        p.Name,
		Email:           p.Email,
		Role:            p.Role,
		ProfileComplete: &complete,
	})
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusConflict {
		return false, nil
	}
	return err == nil, err
}
