package datagen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/okian/prizeboard/pkg/logger"
	"github.com/shopspring/decimal"
)

// Entry is one player of the expected or served ranking.
type Entry struct {
	Rank          int             `json:"rank"`
	PlayerHandle  string          `json:"player_handle"`
	TotalUSDPrize decimal.Decimal `json:"total_usd_prize"`
}

// ExpectedRanking ranks the dataset's players by total prize, ties by handle.
func ExpectedRanking(ds *Dataset) []Entry {
	totals := make(map[string]decimal.Decimal)
	for _, r := range ds.Records {
		totals[r.PlayerHandle] = totals[r.PlayerHandle].Add(r.USDPrize)
	}
	out := make([]Entry, 0, len(totals))
	for h, t := range totals {
		out = append(out, Entry{PlayerHandle: h, TotalUSDPrize: t})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalUSDPrize.Cmp(out[j].TotalUSDPrize); c != 0 {
			return c > 0
		}
		return out[i].PlayerHandle < out[j].PlayerHandle
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Verify fetches the served top-N and compares it with the dataset.
func Verify(ctx context.Context, cfg Config, ds *Dataset) error {
	log := logger.Get().Named("verify")
	client := &http.Client{Timeout: cfg.Timeout}

	if err := checkHealth(ctx, client, cfg.BaseURL); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	expected := ExpectedRanking(ds)
	n := cfg.TopN
	if n > len(expected) {
		n = len(expected)
	}

	served, err := fetchTop(ctx, client, cfg.BaseURL, n)
	if err != nil {
		return err
	}
	if err := compareRankings(expected[:n], served); err != nil {
		return err
	}

	log.Info(ctx, "ranking verified", logger.Int("top", n))
	if cfg.Verbose {
		for _, e := range served[:min(n, 10)] {
			log.Info(ctx, "top player",
				logger.Int("rank", e.Rank),
				logger.String("handle", e.PlayerHandle),
				logger.String("total", e.TotalUSDPrize.StringFixed(2)),
			)
		}
	}
	return nil
}

func compareRankings(expected, served []Entry) error {
	if len(served) != len(expected) {
		return fmt.Errorf("served %d players, expected %d", len(served), len(expected))
	}
	for i := range expected {
		e, s := expected[i], served[i]
		if e.PlayerHandle != s.PlayerHandle || !e.TotalUSDPrize.Equal(s.TotalUSDPrize) || s.Rank != i+1 {
			return fmt.Errorf("rank %d: served %s (%s), expected %s (%s)",
				i+1, s.PlayerHandle, s.TotalUSDPrize, e.PlayerHandle, e.TotalUSDPrize)
		}
	}
	return nil
}

func checkHealth(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func fetchTop(ctx context.Context, client *http.Client, baseURL string, n int) ([]Entry, error) {
	q := url.Values{}
	q.Set("scope", "Top"+strconv.Itoa(n))
	q.Set("metric", "total_prize")

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/players?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch players: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch players: status %d", resp.StatusCode)
	}

	var table struct {
		Rows []Entry `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}
	return table.Rows, nil
}
