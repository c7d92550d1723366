package engine

import (
	"strings"
	"sync"
	"testing"

	"github.com/alejandrodnm/basisbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState_FullySyntheticBook(t *testing.T) {
	e := newTestEngine(20)
	s := NewState(e, domain.DefaultFilterConfig())

	require.Len(t, s.Book, len(testUniverse()))
	for _, o := range s.Book {
		assert.True(t, strings.HasPrefix(o.ID, "opp-synth-"))
	}
	for i := 0; i < len(s.Book)-1; i++ {
		assert.GreaterOrEqual(t, s.Book[i].SpreadBps, s.Book[i+1].SpreadBps)
	}
	assert.Empty(t, s.Events)
	assert.Empty(t, s.Trend)
}

func TestState_Apply(t *testing.T) {
	e := newTestEngine(21)
	s := NewState(e, domain.DefaultFilterConfig())

	next, line, sample, ok := e.Reconcile(s.Book, map[string]float64{"BTC/USDT": 43_500}, testNow)
	require.True(t, ok)
	s.Apply(next, line, sample)

	assert.Equal(t, next, s.Book)
	require.Len(t, s.Events, 1)
	assert.Equal(t, line, s.Events[0])
	require.Len(t, s.Trend, 1)
	assert.Equal(t, sample, s.Trend[0])
}

func TestState_Board(t *testing.T) {
	e := newTestEngine(22)
	s := NewState(e, domain.FilterConfig{MinEdgeBps: 5})
	s.Headlines = []domain.Headline{{Title: "BTC up", Sentiment: domain.SentimentBullish}}

	board := s.Board([]string{"Binance"})
	assert.Equal(t, s.Book, board.Opportunities)
	assert.Equal(t, s.Headlines, board.Headlines)
	assert.Equal(t, 5.0, board.Filter.MinEdgeBps)
	assert.Equal(t, []string{"Binance"}, board.Venues)
}

func TestPriceTable_SetAndSnapshot(t *testing.T) {
	tab := NewPriceTable()
	tab.Set("BTC/USDT", 43_000)
	tab.Set("BTC/USDT", 43_100)
	tab.Set("ETH/USDT", 2_300)

	snap := tab.Snapshot()
	assert.Equal(t, 43_100.0, snap["BTC/USDT"])
	assert.Equal(t, 2_300.0, snap["ETH/USDT"])

	// el snapshot es una copia: escrituras posteriores no lo tocan
	tab.Set("BTC/USDT", 50_000)
	assert.Equal(t, 43_100.0, snap["BTC/USDT"])
}

func TestPriceTable_ConcurrentWrites(t *testing.T) {
	tab := NewPriceTable()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tab.Set("BTC/USDT", float64(n*1000+j))
				tab.Snapshot()
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, tab.Snapshot(), 1)
}
