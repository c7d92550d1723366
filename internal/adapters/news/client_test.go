package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/basisbot/internal/domain"
)

func newsServer(t *testing.T, byCategory map[string][]string, failing map[string]bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cat := r.URL.Query().Get("categories")
		if failing[cat] {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"Data":[`)
		for i, title := range byCategory[cat] {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"title":%q}`, title)
		}
		fmt.Fprint(w, `]}`)
	}))
}

func TestFetchHeadlines_TaggedAndCapped(t *testing.T) {
	srv := newsServer(t, map[string][]string{
		"BTC": {"Bitcoin surges higher", "BTC miners sell holdings", "ETF flows steady"},
		"ETH": {"Ethereum upgrade lands", "ETH gains on the week", "Gas fees stable", "Extra headline"},
	}, nil)
	defer srv.Close()

	c := NewClient(srv.URL, []string{"BTC", "ETH"})
	headlines, err := c.FetchHeadlines(context.Background())
	require.NoError(t, err)
	require.Len(t, headlines, 6, "capped at 6 across categories")

	assert.Equal(t, "Bitcoin surges higher", headlines[0].Title)
	assert.Equal(t, "BTC", headlines[0].Category)
	assert.Equal(t, domain.SentimentBullish, headlines[0].Sentiment)
	assert.Equal(t, domain.SentimentBearish, headlines[1].Sentiment)
	assert.Equal(t, domain.SentimentNeutral, headlines[2].Sentiment)
}

func TestFetchHeadlines_FailedCategoryDegrades(t *testing.T) {
	srv := newsServer(t, map[string][]string{
		"ETH": {"Ethereum upgrade lands"},
	}, map[string]bool{"BTC": true})
	defer srv.Close()

	c := NewClient(srv.URL, []string{"BTC", "ETH"})
	headlines, err := c.FetchHeadlines(context.Background())
	require.NoError(t, err)
	require.Len(t, headlines, 1)
	assert.Equal(t, "ETH", headlines[0].Category)
}

func TestFetchHeadlines_AllFailedReturnsPlaceholders(t *testing.T) {
	srv := newsServer(t, nil, map[string]bool{"BTC": true, "ETH": true})
	defer srv.Close()

	c := NewClient(srv.URL, []string{"BTC", "ETH"})
	headlines, err := c.FetchHeadlines(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, headlines)
	assert.Equal(t, "General", headlines[0].Category)
}

func TestGet_RetriesOnServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"Data":[{"title":"recovered"}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, []string{"BTC"})
	headlines, err := c.FetchHeadlines(context.Background())
	require.NoError(t, err)
	require.Len(t, headlines, 1)
	assert.Equal(t, "recovered", headlines[0].Title)
	assert.Equal(t, 3, attempts)
}
