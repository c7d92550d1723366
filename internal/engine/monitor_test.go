package engine

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/basisbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFeed emite los updates precargados y después bloquea hasta cancel.
type stubFeed struct {
	updates chan domain.PriceUpdate
}

func newStubFeed(updates ...domain.PriceUpdate) *stubFeed {
	ch := make(chan domain.PriceUpdate, len(updates))
	for _, u := range updates {
		ch <- u
	}
	return &stubFeed{updates: ch}
}

func (f *stubFeed) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (f *stubFeed) Updates() <-chan domain.PriceUpdate { return f.updates }

// captureNotifier acumula los boards notificados.
type captureNotifier struct {
	boards []domain.Board
	done   chan struct{}
	want   int
}

func (n *captureNotifier) Notify(_ context.Context, b domain.Board) error {
	n.boards = append(n.boards, b)
	if len(n.boards) == n.want {
		close(n.done)
	}
	return nil
}

type stubNews struct{ headlines []domain.Headline }

func (s *stubNews) FetchHeadlines(context.Context) ([]domain.Headline, error) {
	return s.headlines, nil
}

func TestMonitor_ReconcilesPerPriceUpdate(t *testing.T) {
	e := newTestEngine(30)
	state := NewState(e, domain.DefaultFilterConfig())
	feed := newStubFeed(
		domain.PriceUpdate{Symbol: "BTC/USDT", Price: 43_500},
		domain.PriceUpdate{Symbol: "ETH/USDT", Price: 2_310},
	)
	notifier := &captureNotifier{done: make(chan struct{}), want: 2}
	news := &stubNews{headlines: []domain.Headline{
		{Title: "BTC up", Sentiment: domain.SentimentBullish},
	}}

	m := NewMonitor(
		MonitorConfig{Venues: []string{"Binance"}, NewsInterval: time.Hour},
		e, state, feed, news, notifier, nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- m.Run(ctx) }()

	select {
	case <-notifier.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for notifications")
	}
	cancel()
	require.NoError(t, <-errCh)

	require.Len(t, notifier.boards, 2)

	// el primer ciclo ya vio el precio de BTC
	first := notifier.boards[0]
	assert.Len(t, first.Opportunities, len(testUniverse()))
	assert.Len(t, first.Events, 1)
	assert.Len(t, first.Trend, 1)
	assert.Equal(t, news.headlines, first.Headlines)

	// el segundo acumula historia y conserva el snapshot de BTC
	second := notifier.boards[1]
	assert.Len(t, second.Events, 2)
	assert.Len(t, second.Trend, 2)
	var btc, eth bool
	for _, o := range second.Opportunities {
		switch o.Symbol {
		case "BTC/USDT":
			btc = o.ID == "opp-BTCUSDT"
		case "ETH/USDT":
			eth = o.ID == "opp-ETHUSDT"
		}
	}
	assert.True(t, btc, "BTC snapshot must survive the second cycle")
	assert.True(t, eth, "ETH must have gone live on the second cycle")
}

func TestMonitor_StepOnce(t *testing.T) {
	e := newTestEngine(31)
	state := NewState(e, domain.DefaultFilterConfig())
	notifier := &captureNotifier{done: make(chan struct{}), want: 1}

	m := NewMonitor(
		MonitorConfig{Venues: []string{"Binance"}, NewsInterval: time.Hour},
		e, state, newStubFeed(), nil, notifier, nil,
	)
	m.StepOnce(context.Background(), testNow)

	require.Len(t, notifier.boards, 1)
	assert.Len(t, notifier.boards[0].Opportunities, len(testUniverse()))
}
