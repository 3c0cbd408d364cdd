package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_SummaryEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/summary/"))
		fmt.Fprint(w, `{
			"quoteSummary": {
				"result": [{"assetProfile": {"sector": "Technology", "industry": "Software"}}],
				"error": null
			}
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	meta, err := client.Lookup(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "Technology", meta.Sector)
	assert.Equal(t, "Software", meta.Industry)
}

func TestLookup_FallsBackToProfilePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/summary/") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `<html><body>
			<dl>
				<dt>Sector:</dt><dd>Energy</dd>
				<dt>Industry:</dt><dd>Oil &amp; Gas</dd>
			</dl>
		</body></html>`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	meta, err := client.Lookup(context.Background(), "XOM")
	require.NoError(t, err)
	assert.Equal(t, "Energy", meta.Sector)
	assert.Equal(t, "Oil & Gas", meta.Industry)
}

func TestLookup_NothingFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/summary/") {
			fmt.Fprint(w, `{"quoteSummary": {"result": [], "error": null}}`)
			return
		}
		fmt.Fprint(w, `<html><body><p>nothing here</p></body></html>`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Lookup(context.Background(), "ZZZZ")
	require.Error(t, err, "callers map this to Unknown metadata")
}
