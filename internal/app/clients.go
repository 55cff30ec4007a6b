package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SitaaronKL/thenetwork-backend/internal/clients"
	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
)

type Clients struct {
	Ranking clients.RankingClient
	Windows clients.WindowClient
	Venues  clients.VenueClient
	LLM     clients.LLMClient
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	ranking, err := clients.NewRankingClient(log, cfg.RankingServiceURL, cfg.RankingServiceKey)
	if err != nil {
		return Clients{}, fmt.Errorf("init ranking client: %w", err)
	}
	windows, err := clients.NewWindowClient(log, cfg.WindowServiceURL, cfg.WindowServiceKey)
	if err != nil {
		return Clients{}, fmt.Errorf("init window client: %w", err)
	}
	venues, err := clients.NewVenueClient(log, cfg.VenueServiceURL, cfg.VenueServiceKey, rdb)
	if err != nil {
		return Clients{}, fmt.Errorf("init venue client: %w", err)
	}
	llm, err := clients.NewLLMClient(log, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	if err != nil {
		return Clients{}, fmt.Errorf("init llm client: %w", err)
	}

	return Clients{
		Ranking: ranking,
		Windows: windows,
		Venues:  venues,
		LLM:     llm,
	}, nil
}
