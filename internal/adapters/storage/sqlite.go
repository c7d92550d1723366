package storage

// sqlite.go — archivo de telemetría por ciclo, sin ruido.
//
// Estrategia:
//   - `cycles`: resumen ligero por reconciliación. Siempre 1 fila.
//   - `events`: una fila por línea nueva del event log. La línea del
//     tope del board se deduplica contra la última guardada — ciclos
//     consecutivos con el mismo top no reescriben nada.
//   - Prune automático al arrancar: todo lo más viejo que 7 días.
//
// El archivo es write-only respecto del core: el book nunca se
// rehidrata desde acá.

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/alejandrodnm/basisbot/internal/domain"
	"github.com/alejandrodnm/basisbot/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
-- Resumen ligero por ciclo de reconciliación
CREATE TABLE IF NOT EXISTS cycles (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    at             DATETIME NOT NULL,
    total          INTEGER  NOT NULL DEFAULT 0,
    top_symbol     TEXT     NOT NULL,
    top_spread_bps REAL     NOT NULL DEFAULT 0,
    aggregate_pnl  REAL     NOT NULL DEFAULT 0
);

-- Una fila por línea nueva del event log
CREATE TABLE IF NOT EXISTS events (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    at   DATETIME NOT NULL,
    line TEXT     NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cycles_at ON cycles(at DESC);
CREATE INDEX IF NOT EXISTS idx_events_at ON events(at DESC);
`

const retention = 7 * 24 * time.Hour

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db       *sql.DB
	mu       sync.Mutex
	lastLine string // última línea de evento persistida
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveCycle persiste el resumen del ciclo y, si cambió, la línea de
// evento del tope del board.
func (s *SQLiteStorage) SaveCycle(ctx context.Context, board domain.Board) error {
	if len(board.Opportunities) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	top := board.Opportunities[0]

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO cycles (at, total, top_symbol, top_spread_bps, aggregate_pnl) VALUES (?, ?, ?, ?, ?)`,
		now, len(board.Opportunities), top.Symbol, top.SpreadBps,
		domain.AggregatePnl(board.Opportunities),
	); err != nil {
		return fmt.Errorf("storage.SaveCycle: insert cycle: %w", err)
	}

	if len(board.Events) == 0 || board.Events[0] == s.lastLine {
		return nil
	}
	line := board.Events[0]
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO events (at, line) VALUES (?, ?)`, now, line,
	); err != nil {
		return fmt.Errorf("storage.SaveCycle: insert event: %w", err)
	}
	s.lastLine = line
	return nil
}

// RecentCycles devuelve los últimos resúmenes, más reciente primero.
func (s *SQLiteStorage) RecentCycles(ctx context.Context, limit int) ([]ports.CycleSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT at, total, top_symbol, top_spread_bps, aggregate_pnl
		FROM cycles
		ORDER BY at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentCycles: query: %w", err)
	}
	defer rows.Close()

	var out []ports.CycleSummary
	for rows.Next() {
		var c ports.CycleSummary
		var at string
		if err := rows.Scan(&at, &c.Total, &c.TopSymbol, &c.TopSpreadBps, &c.AggregatePnl); err != nil {
			return nil, fmt.Errorf("storage.RecentCycles: scan row: %w", err)
		}
		c.At, _ = time.Parse(time.RFC3339, at)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld borra ciclos y eventos fuera de la ventana de retención.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retention)
	s.db.ExecContext(ctx, `DELETE FROM cycles WHERE at < ?`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM events WHERE at < ?`, cutoff)
}
