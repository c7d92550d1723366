package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/basisbot/internal/domain"
)

func feedUniverse() domain.Universe {
	return domain.Universe{
		{Base: "BTC", Quote: "USDT", Anchor: 43_000},
		{Base: "ETH", Quote: "USDT", Anchor: 2_300},
	}
}

func TestStreamURL(t *testing.T) {
	f := NewFeed("wss://example.test", feedUniverse())
	assert.Equal(t,
		"wss://example.test/stream?streams=btcusdt@miniTicker/ethusdt@miniTicker",
		f.StreamURL(),
	)
}

func TestParseFrame_Valid(t *testing.T) {
	f := NewFeed("", feedUniverse())
	msg := []byte(`{"stream":"btcusdt@miniTicker","data":{"e":"24hrMiniTicker","s":"BTCUSDT","c":"43123.45"}}`)

	u, ok := f.parseFrame(msg)
	require.True(t, ok)
	assert.Equal(t, "BTC/USDT", u.Symbol)
	assert.Equal(t, 43123.45, u.Price)
}

func TestParseFrame_Malformed(t *testing.T) {
	f := NewFeed("", feedUniverse())

	cases := []string{
		`not json`,
		`{}`,
		`{"stream":"btcusdt@miniTicker","data":{"s":"BTCUSDT","c":"abc"}}`,
		`{"stream":"btcusdt@miniTicker","data":{"s":"BTCUSDT","c":"-1"}}`,
		`{"stream":"dogeusdt@miniTicker","data":{"s":"DOGEUSDT","c":"0.1"}}`, // fuera del universo
	}
	for _, c := range cases {
		_, ok := f.parseFrame([]byte(c))
		assert.False(t, ok, "frame should be dropped: %s", c)
	}
}

func TestFeed_StreamsUpdatesFromSocket(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.String(), "/stream?streams="))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		frames := []string{
			`{"stream":"btcusdt@miniTicker","data":{"s":"BTCUSDT","c":"43100.5"}}`,
			`garbage`,
			`{"stream":"ethusdt@miniTicker","data":{"s":"ETHUSDT","c":"2310"}}`,
		}
		for _, fr := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(fr)); err != nil {
				return
			}
		}
		// mantener el socket abierto hasta que el cliente corte
		conn.ReadMessage()
	}))
	defer srv.Close()

	f := NewFeed("ws"+strings.TrimPrefix(srv.URL, "http"), feedUniverse())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- f.Run(ctx) }()

	var got []domain.PriceUpdate
	for len(got) < 2 {
		select {
		case u := <-f.Updates():
			got = append(got, u)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for updates")
		}
	}
	cancel()
	require.NoError(t, <-errCh)

	assert.Equal(t, domain.PriceUpdate{Symbol: "BTC/USDT", Price: 43100.5}, got[0])
	assert.Equal(t, domain.PriceUpdate{Symbol: "ETH/USDT", Price: 2310}, got[1])
}
