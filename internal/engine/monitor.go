package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/alejandrodnm/basisbot/internal/ports"
)

// MonitorConfig contiene la configuración del loop del monitor.
type MonitorConfig struct {
	Venues       []string
	NewsInterval time.Duration
}

// Monitor es el orquestador: consume updates del feed, reconcilia y
// notifica/persiste los resultados. Single-threaded y event-driven —
// cada ciclo corre a completitud antes del siguiente evento externo,
// así que el core no necesita locking.
type Monitor struct {
	cfg      MonitorConfig
	engine   *Engine
	state    *State
	table    *PriceTable
	feed     ports.PriceFeed
	news     ports.NewsProvider
	notifier ports.Notifier
	storage  ports.Storage
}

// NewMonitor crea un Monitor con todas las dependencias inyectadas.
// news y storage pueden ser nil: el monitor degrada sin ellos.
func NewMonitor(
	cfg MonitorConfig,
	e *Engine,
	state *State,
	feed ports.PriceFeed,
	news ports.NewsProvider,
	notifier ports.Notifier,
	storage ports.Storage,
) *Monitor {
	return &Monitor{
		cfg:      cfg,
		engine:   e,
		state:    state,
		table:    NewPriceTable(),
		feed:     feed,
		news:     news,
		notifier: notifier,
		storage:  storage,
	}
}

// Run ejecuta el loop de eventos hasta que el contexto se cancele.
// El feed corre en su propia goroutine; la reconciliación se dispara
// sincrónicamente acá con cada precio que cambia.
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("monitor starting",
		"symbols", len(m.state.Book),
		"news_interval", m.cfg.NewsInterval,
	)

	feedDone := make(chan error, 1)
	go func() { feedDone <- m.feed.Run(ctx) }()

	m.refreshHeadlines(ctx)

	newsTicker := time.NewTicker(m.cfg.NewsInterval)
	defer newsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("monitor stopped")
			return nil
		case err := <-feedDone:
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		case u := <-m.feed.Updates():
			m.table.Set(u.Symbol, u.Price)
			m.step(ctx, time.Now())
		case <-newsTicker.C:
			m.refreshHeadlines(ctx)
		}
	}
}

// step corre un ciclo de reconciliación sobre el snapshot actual de
// precios y propaga el board resultante.
func (m *Monitor) step(ctx context.Context, now time.Time) {
	next, logLine, sample, ok := m.engine.Reconcile(m.state.Book, m.table.Snapshot(), now)
	if !ok {
		return
	}
	m.state.Apply(next, logLine, sample)

	board := m.state.Board(m.cfg.Venues)
	if err := m.notifier.Notify(ctx, board); err != nil {
		slog.Warn("notifier error", "err", err)
	}
	if m.storage != nil {
		if err := m.storage.SaveCycle(ctx, board); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}
}

// refreshHeadlines actualiza los titulares. Un fetch fallido deja los
// titulares anteriores en su lugar — el board degrada, nunca falla.
func (m *Monitor) refreshHeadlines(ctx context.Context) {
	if m.news == nil {
		return
	}
	headlines, err := m.news.FetchHeadlines(ctx)
	if err != nil {
		slog.Warn("news fetch failed, keeping previous headlines", "err", err)
		return
	}
	m.state.Headlines = headlines
	slog.Debug("headlines refreshed", "count", len(headlines))
}

// StepOnce fuerza un ciclo de reconciliación (para el modo -once).
func (m *Monitor) StepOnce(ctx context.Context, now time.Time) {
	m.step(ctx, now)
}
