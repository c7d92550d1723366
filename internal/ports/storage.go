package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/basisbot/internal/domain"
)

// CycleSummary es el resumen persistido de una reconciliación.
type CycleSummary struct {
	At           time.Time
	Total        int
	TopSymbol    string
	TopSpreadBps float64
	AggregatePnl float64
}

// Storage archiva telemetría de cada ciclo de reconciliación.
// Es write-only respecto del core: el book nunca se rehidrata desde acá.
type Storage interface {
	// SaveCycle persiste el resumen del ciclo y la línea de evento nueva.
	SaveCycle(ctx context.Context, board domain.Board) error

	// RecentCycles devuelve los últimos resúmenes, más reciente primero.
	RecentCycles(ctx context.Context, limit int) ([]CycleSummary, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
