package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendscan/pkg/config"
	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"
)

func newTestClient(serverURL string) *Client {
	cfg := config.YahooConfig{
		ChartBaseURL:   serverURL + "/chart",
		SummaryBaseURL: serverURL + "/summary",
		ProfileBaseURL: serverURL + "/quote",
		RatePerSecond:  1000,
	}
	httpClient := httputil.New(logger.Discard()).DisableRetry()
	return NewClient(httpClient, logger.Discard(), cfg)
}

func chartPayload(timestamps []int64, closes []string, volumes []string) string {
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"timestamp": %s,
				"indicators": {"quote": [{"close": %s, "volume": %s}]}
			}],
			"error": null
		}
	}`, jsonInts(timestamps), sliceJSON(closes), sliceJSON(volumes))
}

func jsonInts(values []int64) string {
	out := "["
	for i, v := range values {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%d", v)
	}
	return out + "]"
}

func sliceJSON(values []string) string {
	out := "["
	for i, v := range values {
		if i > 0 {
			out += ","
		}
		out += v
	}
	return out + "]"
}

func TestFetchDaily_NormalizesBars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Second observation is a halted day with null close.
		fmt.Fprint(w, chartPayload(
			[]int64{1735689600, 1735776000, 1735862400},
			[]string{"101.5", "null", "103.25"},
			[]string{"1000000", "null", "null"},
		))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	out, err := client.FetchDaily(context.Background(), []string{"AAPL"}, 365)
	require.NoError(t, err)

	series, ok := out["AAPL"]
	require.True(t, ok)
	require.Len(t, series.Bars, 2, "null close must be dropped")

	assert.Equal(t, "AAPL", series.Ticker)
	assert.Equal(t, 101.5, series.Bars[0].Close)
	assert.Equal(t, int64(1_000_000), series.Bars[0].Volume)
	assert.Equal(t, 103.25, series.Bars[1].Close)
	assert.Equal(t, int64(0), series.Bars[1].Volume, "null volume defaults to zero")
	assert.True(t, series.Bars[0].Date.Before(series.Bars[1].Date))
}

func TestFetchDaily_UnknownSymbolSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/chart/GONE" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, chartPayload([]int64{1735689600}, []string{"50"}, []string{"1000"}))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	out, err := client.FetchDaily(context.Background(), []string{"AAPL", "GONE"}, 365)
	require.NoError(t, err, "a symbol without data must not fail the batch")

	assert.Contains(t, out, "AAPL")
	assert.NotContains(t, out, "GONE")
}

func TestFetchDaily_ServerErrorFailsBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchDaily(context.Background(), []string{"AAPL", "MSFT"}, 365)
	require.Error(t, err, "a server fault must surface to the retrying fetcher")
}

func TestFetchDaily_EmptySeriesSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload([]int64{1735689600}, []string{"null"}, []string{"null"}))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	out, err := client.FetchDaily(context.Background(), []string{"HALT"}, 365)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFetchDaily_APIErrorSkipsSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	out, err := client.FetchDaily(context.Background(), []string{"BAD"}, 365)
	require.NoError(t, err)
	assert.Empty(t, out)
}
