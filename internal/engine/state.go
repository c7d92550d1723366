package engine

import (
	"sort"
	"sync"

	"github.com/alejandrodnm/basisbot/internal/domain"
)

// State es el contenedor explícito del estado del monitor: el book, los
// historiales y los umbrales de filtrado. Lo posee el caller y se lo
// pasa a funciones puras — no hay estado ambiente.
type State struct {
	Book      []domain.Opportunity
	Events    []string
	Trend     []float64
	Headlines []domain.Headline
	Filter    domain.FilterConfig
}

// NewState puebla el book inicial: un registro sintético por símbolo del
// universo, con id de fallback, ordenado por basis descendente.
func NewState(e *Engine, filter domain.FilterConfig) *State {
	book := make([]domain.Opportunity, 0, len(e.universe))
	for _, sym := range e.universe {
		book = append(book, e.gen.GenerateFor(domain.FallbackID(), sym))
	}
	sort.SliceStable(book, func(i, j int) bool {
		return book[i].SpreadBps > book[j].SpreadBps
	})
	return &State{Book: book, Filter: filter}
}

// Apply incorpora el resultado de una reconciliación al estado.
func (s *State) Apply(book []domain.Opportunity, logLine string, sample float64) {
	s.Book = book
	s.Events = PushEvent(s.Events, logLine)
	s.Trend = PushTrend(s.Trend, sample)
}

// Board arma el snapshot de presentación del estado actual.
func (s *State) Board(venues []string) domain.Board {
	return domain.Board{
		Opportunities: s.Book,
		Events:        s.Events,
		Trend:         s.Trend,
		Headlines:     s.Headlines,
		Filter:        s.Filter,
		Venues:        venues,
	}
}

// PriceTable es el mapa de suscripción keyed por símbolo: guarda el
// último precio observado de cada par. Los adapters escriben, la
// reconciliación lee un snapshot consistente — nunca se interlean
// updates por símbolo a mitad de ciclo.
type PriceTable struct {
	mu     sync.Mutex
	latest map[string]float64
}

// NewPriceTable crea una tabla vacía.
func NewPriceTable() *PriceTable {
	return &PriceTable{latest: make(map[string]float64)}
}

// Set registra el último precio conocido de un símbolo.
func (t *PriceTable) Set(symbol string, price float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest[symbol] = price
}

// Snapshot devuelve una copia del estado actual de la tabla.
func (t *PriceTable) Snapshot() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]float64, len(t.latest))
	for k, v := range t.latest {
		out[k] = v
	}
	return out
}
