package domain

import "time"

// OppType clasifica una oportunidad por el tipo de piernas que combina.
type OppType string

const (
	TypeSpot     OppType = "SPOT"
	TypePerp     OppType = "PERP"
	TypeSpotPerp OppType = "SPOT/PERP"
)

// Lados de una pierna.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// VenueLeg es una cotización observada en un venue para un lado del trade.
type VenueLeg struct {
	Venue string
	Side  string
	Price float64
}

// Opportunity es el registro central del book: una entrada por símbolo
// del universo, con sus métricas derivadas del último precio conocido.
// Los registros son inmutables — la reconciliación los reemplaza enteros,
// nunca los muta en sitio.
type Opportunity struct {
	ID     string // estable para el path en vivo: "opp-<code>"
	Symbol string // par display, ej "BTC/USDT"
	Base   string
	Quote  string
	Type   OppType
	Legs   []VenueLeg

	SpreadBps float64 // basis contra el anchor, en basis points
	EstPnl    float64 // estimado, derivado de spread y notional
	Notional  float64 // exposición bruta; sticky entre ciclos
	Score     int     // calidad, acotado a [20, 100]

	UpdatedAt string // hora local HH:MM:SS del último recálculo
}

// CheapestLeg devuelve la pierna de menor precio. Con precios empatados
// gana la primera; el slice de legs nunca es vacío.
func (o Opportunity) CheapestLeg() VenueLeg {
	best := o.Legs[0]
	for _, l := range o.Legs[1:] {
		if l.Price < best.Price {
			best = l
		}
	}
	return best
}

// LiveID devuelve el id estable del path en vivo para un símbolo.
// Re-derivar el mismo símbolo reutiliza esta identidad entre updates.
func LiveID(s Symbol) string {
	return "opp-" + s.Code()
}

// Clock formatea un instante como hora local de 24h, sin fecha.
// Es el formato que llevan UpdatedAt y el prefijo del event log.
func Clock(t time.Time) string {
	return t.Format("15:04:05")
}
