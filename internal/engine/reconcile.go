package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/alejandrodnm/basisbot/internal/domain"
)

// Caps de los historiales rodantes.
const (
	MaxEvents = 16
	MaxTrend  = 32
)

// Engine es el motor de reconciliación del book. Funde el último
// snapshot de precios con el book anterior y produce el book siguiente,
// sin mutar el anterior.
type Engine struct {
	universe domain.Universe
	venue    string
	gen      *domain.Generator
}

// New crea un Engine sobre el universo fijo y el venue primario.
// El rng es inyectable para que los draws de fallback sean reproducibles.
func New(u domain.Universe, venue string, rng *rand.Rand) *Engine {
	return &Engine{
		universe: u,
		venue:    venue,
		gen:      domain.NewGenerator(u, venue, rng),
	}
}

// Generator expone el generador sintético del engine (para la población
// inicial del book en NewState).
func (e *Engine) Generator() *domain.Generator {
	return e.gen
}

// Reconcile produce el book siguiente a partir del anterior y el snapshot
// de precios. Por cada símbolo del universo, en orden de universo:
//
//   - con precio presente: recalcula métricas contra el anchor, arrastra
//     el notional previo (o dibuja uno fresco si no hay registro previo)
//     y reusa el id previo (o "opp-<code>" si es la primera vez);
//   - sin precio: reusa el registro previo tal cual, o sintetiza uno
//     nuevo con id de fallback.
//
// El resultado queda ordenado por SpreadBps descendente; los empates
// resuelven en orden de universo (sort estable sobre la iteración).
// Devuelve además la línea de log y la muestra de trend del registro
// top. ok=false con universo vacío: book vacío, historiales intactos.
func (e *Engine) Reconcile(prev []domain.Opportunity, prices map[string]float64, now time.Time) (next []domain.Opportunity, logLine string, sample float64, ok bool) {
	if len(e.universe) == 0 {
		return nil, "", 0, false
	}

	prevBySymbol := make(map[string]domain.Opportunity, len(prev))
	for _, o := range prev {
		prevBySymbol[o.Symbol] = o
	}

	next = make([]domain.Opportunity, 0, len(e.universe))
	for _, sym := range e.universe {
		old, hadPrev := prevBySymbol[sym.Pair()]

		price, live := prices[sym.Pair()]
		if !live {
			if hadPrev {
				next = append(next, old)
				continue
			}
			next = append(next, e.gen.GenerateFor(domain.FallbackID(), sym))
			continue
		}

		// Notional sticky: se arrastra del registro previo (en vivo o
		// fallback), solo se dibuja fresco cuando no hay estado previo.
		notional := e.gen.FreshNotional()
		if hadPrev {
			notional = old.Notional
		}

		id := domain.LiveID(sym)
		if hadPrev {
			id = old.ID
		}

		spread, pnl, score := domain.DeriveMetrics(sym.Anchor, price, notional)
		next = append(next, domain.Opportunity{
			ID:     id,
			Symbol: sym.Pair(),
			Base:   sym.Base,
			Quote:  sym.Quote,
			Type:   domain.TypePerp,
			Legs: []domain.VenueLeg{
				{Venue: e.venue, Side: domain.SideBuy, Price: price},
			},
			SpreadBps: spread,
			EstPnl:    pnl,
			Notional:  notional,
			Score:     score,
			UpdatedAt: domain.Clock(now),
		})
	}

	sort.SliceStable(next, func(i, j int) bool {
		return next[i].SpreadBps > next[j].SpreadBps
	})

	top := next[0]
	logLine = fmt.Sprintf("%s LIVE %s %s basis %+.1f bps · est. PnL %s %s",
		domain.Clock(now), top.Symbol, top.Type, top.SpreadBps,
		groupThousands(int64(math.Round(top.EstPnl))), top.Quote)

	return next, logLine, top.SpreadBps, true
}

// PushEvent agrega una línea al frente del event log y evicta las más
// viejas por el final, manteniendo el cap de 16.
func PushEvent(events []string, line string) []string {
	events = append([]string{line}, events...)
	if len(events) > MaxEvents {
		events = events[:MaxEvents]
	}
	return events
}

// PushTrend agrega una muestra al final de la serie y evicta las más
// viejas por el frente, manteniendo el cap de 32.
func PushTrend(trend []float64, v float64) []float64 {
	trend = append(trend, v)
	if len(trend) > MaxTrend {
		trend = trend[len(trend)-MaxTrend:]
	}
	return trend
}

// groupThousands formatea un entero con separador de miles, preservando
// el signo. Ej: -1234567 → "-1,234,567".
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
