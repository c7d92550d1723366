package domain

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Rangos de los draws sintéticos.
const (
	synthSpreadRange  = 20.0 // spread uniforme en [-20, 20] bps
	synthNotionalMin  = 50_000.0
	synthNotionalMax  = 750_000.0
	freshNotionalMin  = 75_000.0
	freshNotionalMax  = 500_000.0
	synthBasePriceMax = 1000.0
)

// Generator produce registros sintéticos plausibles para símbolos sin
// precio en vivo. La fuente de aleatoriedad es inyectable: con un
// rand.New(rand.NewSource(n)) fijo el output es reproducible en tests.
type Generator struct {
	universe Universe
	venue    string
	rng      *rand.Rand
	now      func() time.Time
}

// NewGenerator crea un Generator sobre el universo y venue dados.
func NewGenerator(u Universe, venue string, rng *rand.Rand) *Generator {
	return &Generator{universe: u, venue: venue, rng: rng, now: time.Now}
}

// SetClock reemplaza la fuente de tiempo. Solo para tests.
func (g *Generator) SetClock(now func() time.Time) {
	g.now = now
}

// Generate produce una oportunidad sintética para un símbolo elegido
// uniformemente al azar del universo.
func (g *Generator) Generate(id string) Opportunity {
	sym := g.universe[g.rng.Intn(len(g.universe))]
	return g.GenerateFor(id, sym)
}

// GenerateFor produce una oportunidad sintética para el símbolo dado.
// Es el path de fallback de la reconciliación: el book exige exactamente
// un registro por símbolo, así que el símbolo viene fijado por el caller.
func (g *Generator) GenerateFor(id string, sym Symbol) Opportunity {
	basePrice := sym.Anchor
	if basePrice <= 0 {
		basePrice = 1 + g.rng.Float64()*(synthBasePriceMax-1)
	}

	spread := -synthSpreadRange + g.rng.Float64()*2*synthSpreadRange
	notional := math.Round(synthNotionalMin + g.rng.Float64()*(synthNotionalMax-synthNotionalMin))
	estPnl := notional * (spread / bpsPerUnit) / 2

	return Opportunity{
		ID:     id,
		Symbol: sym.Pair(),
		Base:   sym.Base,
		Quote:  sym.Quote,
		Type:   g.randomType(),
		Legs: []VenueLeg{
			{Venue: g.venue, Side: SideBuy, Price: basePrice},
		},
		SpreadBps: spread,
		EstPnl:    estPnl,
		Notional:  notional,
		Score:     ClampScore(40 + g.rng.Intn(59)), // [40, 98]
		UpdatedAt: Clock(g.now()),
	}
}

// FreshNotional dibuja un notional para un registro en vivo sin estado
// previo. Una vez asignado queda sticky: los ciclos siguientes lo
// arrastran, nunca lo recalculan del precio.
func (g *Generator) FreshNotional() float64 {
	return math.Round(freshNotionalMin + g.rng.Float64()*(freshNotionalMax-freshNotionalMin))
}

// randomType elige el tipo con el split 35% SPOT / 35% PERP / 30% mixto.
func (g *Generator) randomType() OppType {
	switch r := g.rng.Float64(); {
	case r < 0.35:
		return TypeSpot
	case r < 0.70:
		return TypePerp
	default:
		return TypeSpotPerp
	}
}

// FallbackID genera un id con tag de fallback para registros sintéticos.
// Nunca colisiona con el id estable "opp-<code>" del path en vivo.
func FallbackID() string {
	return "opp-synth-" + uuid.NewString()[:8]
}
