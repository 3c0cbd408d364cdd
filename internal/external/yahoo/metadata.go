package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/trendscan/internal/contracts"
)

// quoteSummaryResponse is the assetProfile module payload shape.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Lookup resolves sector/industry metadata for one ticker. Best effort:
// the JSON endpoint is tried first, then the profile page HTML. Callers
// treat any error as "Unknown".
func (c *Client) Lookup(ctx context.Context, ticker string) (contracts.Metadata, error) {
	meta, err := c.lookupSummary(ctx, ticker)
	if err == nil && meta.Sector != "" {
		return meta, nil
	}

	scraped, scrapeErr := c.scrapeProfile(ctx, ticker)
	if scrapeErr == nil && scraped.Sector != "" {
		return scraped, nil
	}

	if err == nil {
		err = scrapeErr
	}
	return contracts.Metadata{}, fmt.Errorf("metadata lookup failed for %s: %w", ticker, err)
}

// lookupSummary queries the quoteSummary assetProfile module.
func (c *Client) lookupSummary(ctx context.Context, ticker string) (contracts.Metadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return contracts.Metadata{}, err
	}

	fullURL := fmt.Sprintf("%s/%s?modules=assetProfile", c.cfg.SummaryBaseURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return contracts.Metadata{}, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return contracts.Metadata{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.Metadata{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return contracts.Metadata{}, fmt.Errorf("read response body failed: %w", err)
	}

	var summary quoteSummaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return contracts.Metadata{}, fmt.Errorf("decode summary failed: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return contracts.Metadata{}, fmt.Errorf("summary error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return contracts.Metadata{}, fmt.Errorf("empty summary result")
	}

	profile := summary.QuoteSummary.Result[0].AssetProfile
	return contracts.Metadata{
		Sector:   profile.Sector,
		Industry: profile.Industry,
	}, nil
}

// scrapeProfile parses sector/industry labels off the profile page.
// Fallback only; the page layout shifts occasionally.
func (c *Client) scrapeProfile(ctx context.Context, ticker string) (contracts.Metadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return contracts.Metadata{}, err
	}

	fullURL := fmt.Sprintf("%s/%s/profile", c.cfg.ProfileBaseURL, url.PathEscape(ticker))

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return contracts.Metadata{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.Metadata{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return contracts.Metadata{}, fmt.Errorf("parse profile page failed: %w", err)
	}

	var meta contracts.Metadata
	doc.Find("span, dt").Each(func(_ int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Text())
		switch strings.TrimSuffix(label, ":") {
		case "Sector":
			if meta.Sector == "" {
				meta.Sector = strings.TrimSpace(s.Next().Text())
			}
		case "Industry":
			if meta.Industry == "" {
				meta.Industry = strings.TrimSpace(s.Next().Text())
			}
		}
	})

	if meta.Sector == "" && meta.Industry == "" {
		return contracts.Metadata{}, fmt.Errorf("profile labels not found")
	}
	return meta, nil
}
