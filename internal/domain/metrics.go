package domain

import "math"

const bpsPerUnit = 10000.0

// DeriveMetrics calcula las métricas derivadas de un precio observado
// contra el anchor estático del símbolo.
//
// Fórmulas:
//
//	spreadFraction = (observed - anchor) / anchor
//	spreadBps      = spreadFraction × 10000
//	estPnl         = notional × spreadFraction / 2
//	score          = clamp(round(60 + |spreadBps| / 4), 20, 100)
//
// Pura, sin efectos ni path de error: anchor == 0 se excluye en la
// validación de arranque (Universe.Validate), nunca llega acá.
func DeriveMetrics(anchor, observed, notional float64) (spreadBps, estPnl float64, score int) {
	frac := (observed - anchor) / anchor
	spreadBps = frac * bpsPerUnit
	estPnl = notional * frac / 2
	score = ClampScore(int(math.Round(60 + math.Abs(spreadBps)/4)))
	return spreadBps, estPnl, score
}

// ClampScore acota un score al rango válido [20, 100].
func ClampScore(s int) int {
	if s < 20 {
		return 20
	}
	if s > 100 {
		return 100
	}
	return s
}
