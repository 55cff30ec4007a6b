package clients

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/scheduler"
)

// WindowClient fronts the smart-window generator: it turns a creator's
// raw availability into scored, relevance-ordered time windows.
type WindowClient interface {
	SmartWindows(ctx context.Context, school string, blocks []scheduler.Block) ([]scheduler.Window, error)
}

type windowClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

func NewWindowClient(log *logger.Logger, baseURL, apiKey string) (WindowClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing window service URL")
	}
	return &windowClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
		log:        log.With("client", "WindowClient"),
	}, nil
}

type wireBlock struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type wireWindow struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	ProposedTime time.Time `json:"proposed_time"`
	Score        float64   `json:"score"`
}

func (wc *windowClient) SmartWindows(ctx context.Context, school string, blocks []scheduler.Block) ([]scheduler.Window, error) {
	wireBlocks := make([]wireBlock, 0, len(blocks))
	for _, b := range blocks {
		wireBlocks = append(wireBlocks, wireBlock{Start: b.Start, End: b.End})
	}

	body := map[string]any{
		"availability_blocks": wireBlocks,
	}
	if school != "" {
		body["school"] = school
	}

	var out struct {
		Windows []wireWindow `json:"windows"`
	}
	if err := postJSON(ctx, wc.httpClient, wc.baseURL+"/v1/smart-windows", wc.apiKey, body, &out); err != nil {
		return nil, fmt.Errorf("smart windows: %w", err)
	}

	windows := make([]scheduler.Window, 0, len(out.Windows))
	for _, w := range out.Windows {
		windows = append(windows, scheduler.Window{
			Start:        w.Start,
			End:          w.End,
			ProposedTime: w.ProposedTime,
			Score:        w.Score,
		})
	}
	return windows, nil
}
