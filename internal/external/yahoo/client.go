package yahoo

import (
	"golang.org/x/time/rate"

	"github.com/wonny/trendscan/pkg/config"
	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"
	"github.com/wonny/trendscan/pkg/redis"
)

// Client handles communication with the Yahoo Finance public endpoints.
// SSOT: Yahoo API calls happen in this client only.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.YahooConfig

	// Local limiter on top of whatever shared limiter the HTTP client
	// carries. The chart endpoint is unauthenticated and bans fast.
	limiter *rate.Limiter

	cache *redis.Cache
}

// NewClient creates a new Yahoo Finance client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.YahooConfig) *Client {
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 2
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// WithCache attaches a short-TTL series cache. Useful because the trend
// and extended pulls overlap heavily for surviving tickers.
func (c *Client) WithCache(cache *redis.Cache) *Client {
	c.cache = cache
	return c
}
