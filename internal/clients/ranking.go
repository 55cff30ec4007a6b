package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/types"
)

// RankedCandidate is one entry of the compatibility service's response,
// already sorted descending by similarity.
type RankedCandidate struct {
	ID              uuid.UUID         `json:"id"`
	Similarity      float64           `json:"similarity"`
	SharedInterests []string          `json:"shared_interests"`
	School          string            `json:"school,omitempty"`
	Profile         *RankedProfileRef `json:"profile,omitempty"`
}

type RankedProfileRef struct {
	FullName string `json:"full_name"`
}

// RankingClient fronts the external compatibility-ranking service. The
// ranking algorithm itself lives entirely on the other side of this call.
type RankingClient interface {
	RankConnections(ctx context.Context, userID uuid.UUID, candidateIDs []uuid.UUID, profile *types.Profile) ([]RankedCandidate, error)
}

type rankingClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

func NewRankingClient(log *logger.Logger, baseURL, apiKey string) (RankingClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing ranking service URL")
	}
	return &rankingClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
		log:        log.With("client", "RankingClient"),
	}, nil
}

func (rc *rankingClient) RankConnections(ctx context.Context, userID uuid.UUID, candidateIDs []uuid.UUID, profile *types.Profile) ([]RankedCandidate, error) {
	body := map[string]any{
		"user_id":       userID,
		"candidate_ids": candidateIDs,
	}
	if profile != nil {
		var interests []string
		if len(profile.Interests) > 0 {
			_ = json.Unmarshal(profile.Interests, &interests)
		}
		body["user_profile"] = map[string]any{
			"full_name": profile.FullName,
			"school":    profile.School,
			"location":  profile.Location,
			"interests": interests,
		}
	}

	var out struct {
		Candidates []RankedCandidate `json:"candidates"`
	}
	if err := postJSON(ctx, rc.httpClient, rc.baseURL+"/v1/connections/rank", rc.apiKey, body, &out); err != nil {
		return nil, fmt.Errorf("rank connections: %w", err)
	}
	return out.Candidates, nil
}
