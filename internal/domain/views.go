package domain

import "fmt"

// Defaults de filtrado (configurables por YAML).
const (
	DefaultMinEdgeBps  = 8.0
	DefaultMinNotional = 100_000.0
)

// FilterConfig contiene los umbrales de la vista filtrada del book.
type FilterConfig struct {
	Type        OppType // "" = cualquier tipo
	MinEdgeBps  float64
	MinNotional float64
}

// DefaultFilterConfig devuelve los umbrales por defecto.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinEdgeBps:  DefaultMinEdgeBps,
		MinNotional: DefaultMinNotional,
	}
}

// FilterBook devuelve la subsecuencia del book que pasa los umbrales,
// preservando el orden de entrada (el book ya viene ordenado por basis).
func FilterBook(book []Opportunity, cfg FilterConfig) []Opportunity {
	result := make([]Opportunity, 0, len(book))
	for _, o := range book {
		if cfg.Type != "" && o.Type != cfg.Type {
			continue
		}
		if o.SpreadBps < cfg.MinEdgeBps {
			continue
		}
		if o.Notional < cfg.MinNotional {
			continue
		}
		result = append(result, o)
	}
	return result
}

// VenueCounts cuenta, por venue soportado, los registros cuya pierna más
// barata (precio ascendente) pertenece a ese venue.
func VenueCounts(book []Opportunity, venues []string) map[string]int {
	counts := make(map[string]int, len(venues))
	for _, v := range venues {
		counts[v] = 0
	}
	for _, o := range book {
		if len(o.Legs) == 0 {
			continue
		}
		counts[o.CheapestLeg().Venue]++
	}
	return counts
}

// AggregatePnl suma el estPnl de todo el book (no de la vista filtrada).
func AggregatePnl(book []Opportunity) float64 {
	var total float64
	for _, o := range book {
		total += o.EstPnl
	}
	return total
}

// Direcciones de una idea de trade.
const (
	DirectionLong  = "LONG"
	DirectionShort = "SHORT"
)

// TradeIdea es una sugerencia derivada de los extremos del book.
// Puramente informativa — nunca se usa para colocar órdenes.
type TradeIdea struct {
	Symbol    string
	Venue     string
	Direction string
	SpreadBps float64
	EstPnl    float64
	Rationale string
}

// TopIdeas deriva las k mejores ideas long y short de un book ya ordenado
// por SpreadBps descendente: longs = prefijo del book, shorts = sufijo
// invertido. Los empates heredan el tie-break estable del sort del book.
func TopIdeas(book []Opportunity, k int) (longs, shorts []TradeIdea) {
	if k > len(book) {
		k = len(book)
	}
	for i := 0; i < k; i++ {
		o := book[i]
		longs = append(longs, newIdea(o, DirectionLong))
	}
	for i := 0; i < k; i++ {
		o := book[len(book)-1-i]
		shorts = append(shorts, newIdea(o, DirectionShort))
	}
	return longs, shorts
}

func newIdea(o Opportunity, direction string) TradeIdea {
	venue := ""
	if len(o.Legs) > 0 {
		venue = o.CheapestLeg().Venue
	}
	verb := "rich"
	if direction == DirectionShort {
		verb = "cheap"
	}
	return TradeIdea{
		Symbol:    o.Symbol,
		Venue:     venue,
		Direction: direction,
		SpreadBps: o.SpreadBps,
		EstPnl:    o.EstPnl,
		Rationale: fmt.Sprintf("%s trades %.1f bps %s vs anchor on %s", o.Symbol, o.SpreadBps, verb, venue),
	}
}

// Board es el snapshot completo que consume la capa de presentación:
// el book reconciliado más las vistas e historiales derivados.
type Board struct {
	Opportunities []Opportunity
	Events        []string
	Trend         []float64
	Headlines     []Headline
	Filter        FilterConfig
	Venues        []string
}
