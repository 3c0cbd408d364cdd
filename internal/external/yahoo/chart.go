package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/wonny/trendscan/internal/contracts"
)

// errNoData marks a symbol the chart endpoint has nothing for. It fails
// only that ticker, never the batch.
var errNoData = errors.New("yahoo: no chart data")

// chartResponse is the chart API payload shape. Null entries appear in
// the quote arrays on halted days.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDaily implements the pipeline's batch provider contract. Each
// symbol is fetched individually against the chart endpoint; a transport
// or server fault fails the whole batch so the fetcher can retry it,
// while a symbol the API simply has no data for is skipped.
func (c *Client) FetchDaily(ctx context.Context, tickers []string, lookbackDays int) (map[string]contracts.PriceSeries, error) {
	out := make(map[string]contracts.PriceSeries, len(tickers))

	for _, ticker := range tickers {
		series, err := c.fetchSeries(ctx, ticker, lookbackDays)
		if err != nil {
			if errors.Is(err, errNoData) {
				c.logger.WithFields(map[string]interface{}{
					"ticker": ticker,
				}).Debug("No chart data for symbol")
				continue
			}
			return nil, fmt.Errorf("fetch %s: %w", ticker, err)
		}
		out[ticker] = series
	}

	return out, nil
}

// fetchSeries fetches one symbol, consulting the cache first.
func (c *Client) fetchSeries(ctx context.Context, ticker string, lookbackDays int) (contracts.PriceSeries, error) {
	cacheKey := fmt.Sprintf("series:%s:%dd", ticker, lookbackDays)
	if c.cache != nil {
		var cached contracts.PriceSeries
		if hit, _ := c.cache.Get(ctx, cacheKey, &cached); hit && len(cached.Bars) > 0 {
			return cached, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return contracts.PriceSeries{}, err
	}

	series, err := c.fetchChart(ctx, ticker, lookbackDays)
	if err != nil {
		return contracts.PriceSeries{}, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, series, c.cfg.CacheTTL)
	}
	return series, nil
}

// fetchChart calls the chart endpoint and normalizes the response into a
// chronological series, dropping null observations.
func (c *Client) fetchChart(ctx context.Context, ticker string, lookbackDays int) (contracts.PriceSeries, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -lookbackDays)

	fullURL := fmt.Sprintf("%s/%s?interval=1d&period1=%d&period2=%d",
		c.cfg.ChartBaseURL, url.PathEscape(ticker), from.Unix(), now.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("read response body failed: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return contracts.PriceSeries{}, errNoData
	}
	if resp.StatusCode != http.StatusOK {
		return contracts.PriceSeries{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("decode chart failed: %w", err)
	}
	if chart.Chart.Error != nil {
		return contracts.PriceSeries{}, fmt.Errorf("%w: %s", errNoData, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return contracts.PriceSeries{}, errNoData
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	series := contracts.PriceSeries{Ticker: ticker}
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		var volume int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}
		series.Bars = append(series.Bars, contracts.Bar{
			Date:   time.Unix(ts, 0).UTC(),
			Close:  *quote.Close[i],
			Volume: volume,
		})
	}

	if len(series.Bars) == 0 {
		return contracts.PriceSeries{}, errNoData
	}

	sort.Slice(series.Bars, func(i, j int) bool {
		return series.Bars[i].Date.Before(series.Bars[j].Date)
	})

	return series, nil
}
