package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/ashish-frozo/tradingbot/internal/model"
)

// ChainFetcher implements ChainSource against the option-chain REST API.
// Each fetch replaces the snapshot wholesale; there is no incremental patching.
type ChainFetcher struct {
	BaseURL string
	APIKey  string
	Symbol  string
	Client  *http.Client
}

// NewChainFetcher creates a fetcher for the given symbol.
func NewChainFetcher(baseURL, apiKey, symbol string) *ChainFetcher {
	return &ChainFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Symbol:  symbol,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *ChainFetcher) Name() string { return "chain-rest" }

// chainLeg and chainRow are the expected JSON shapes from the chain API.
type chainLeg struct {
	LTP    float64 `json:"ltp"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Volume uint64  `json:"volume"`
	OI     uint64  `json:"oi"`
	IV     float64 `json:"iv"`
	Delta  float64 `json:"delta"`
}

type chainRow struct {
	Strike float64  `json:"strike"`
	Call   chainLeg `json:"call"`
	Put    chainLeg `json:"put"`
}

type chainResponse struct {
	Rows   []chainRow `json:"rows"`
	BackIV float64    `json:"back_iv"` // next-expiry ATM IV, 0 when unavailable
}

// Snapshot fetches the current chain. Failures propagate to the caller; the
// engine degrades to an insufficient-data skip on the next tick.
func (f *ChainFetcher) Snapshot(ctx context.Context) (*model.ChainSnapshot, error) {
	endpoint := fmt.Sprintf("%s/api/v1/option-chain?symbol=%s", f.BaseURL, f.Symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch chain: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch chain: status %d, body: %s", resp.StatusCode, string(body))
	}

	var cr chainResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode chain: %w", err)
	}

	snap := &model.ChainSnapshot{
		Symbol:    f.Symbol,
		FetchedAt: time.Now(),
		BackIV:    cr.BackIV,
		Rows:      make([]model.OptionChainRow, 0, len(cr.Rows)),
	}
	for _, r := range cr.Rows {
		snap.Rows = append(snap.Rows, model.OptionChainRow{
			Strike: r.Strike,
			Call:   toLeg(r.Call),
			Put:    toLeg(r.Put),
		})
	}
	// Strikes unique and ascending is an invariant consumers rely on.
	sort.Slice(snap.Rows, func(i, j int) bool { return snap.Rows[i].Strike < snap.Rows[j].Strike })
	return snap, nil
}

func toLeg(l chainLeg) model.OptionLeg {
	return model.OptionLeg{
		LTP:          l.LTP,
		Bid:          l.Bid,
		Ask:          l.Ask,
		Volume:       l.Volume,
		OpenInterest: l.OI,
		ImpliedVol:   l.IV,
		Delta:        l.Delta,
	}
}
