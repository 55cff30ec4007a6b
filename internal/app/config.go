package app

import (
	"strings"

	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/utils"
)

type Config struct {
	JWTSecretKey string
	AllowOrigins []string

	RedisAddr     string
	RedisPassword string

	RankingServiceURL string
	RankingServiceKey string
	WindowServiceURL  string
	WindowServiceKey  string
	VenueServiceURL   string
	VenueServiceKey   string

	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	// AllowNextBestDay relaxes the day-collision tie-break in the
	// scheduler; off by default.
	AllowNextBestDay bool
}

func LoadConfig(log *logger.Logger) Config {
	origins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		JWTSecretKey: utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AllowOrigins: origins,

		RedisAddr:     utils.GetEnv("REDIS_ADDR", "", log),
		RedisPassword: utils.GetEnv("REDIS_PASSWORD", "", log),

		RankingServiceURL: utils.GetEnv("RANKING_SERVICE_URL", "http://localhost:8101", log),
		RankingServiceKey: utils.GetEnv("RANKING_SERVICE_KEY", "", log),
		WindowServiceURL:  utils.GetEnv("WINDOW_SERVICE_URL", "http://localhost:8102", log),
		WindowServiceKey:  utils.GetEnv("WINDOW_SERVICE_KEY", "", log),
		VenueServiceURL:   utils.GetEnv("VENUE_SERVICE_URL", "http://localhost:8103", log),
		VenueServiceKey:   utils.GetEnv("VENUE_SERVICE_KEY", "", log),

		LLMBaseURL: utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", log),
		LLMAPIKey:  utils.GetEnv("OPENAI_API_KEY", "", log),
		LLMModel:   utils.GetEnv("OPENAI_MODEL", "gpt-4o-mini", log),

		AllowNextBestDay: utils.GetEnvAsBool("SCHEDULER_ALLOW_NEXT_BEST_DAY", false, log),
	}
}
