package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/alejandrodnm/basisbot/internal/domain"
)

const (
	defaultWSBase = "wss://stream.binance.com:9443"

	handshakeTimeout = 15 * time.Second
	readTimeout      = 90 * time.Second

	// Pacing de reconexión: no más de un dial cada 5s.
	reconnectEvery = 5 * time.Second

	updateBuffer = 64
)

// Feed implementa ports.PriceFeed sobre el stream combinado miniTicker
// de Binance. Un solo socket lleva todos los símbolos del universo.
type Feed struct {
	baseURL   string
	universe  domain.Universe
	updates   chan domain.PriceUpdate
	dialer    *websocket.Dialer
	reconnect *rate.Limiter
}

// NewFeed crea un Feed para el universo dado. Con baseURL vacío usa el
// endpoint de producción.
func NewFeed(baseURL string, u domain.Universe) *Feed {
	if baseURL == "" {
		baseURL = defaultWSBase
	}
	return &Feed{
		baseURL:   baseURL,
		universe:  u,
		updates:   make(chan domain.PriceUpdate, updateBuffer),
		dialer:    &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		reconnect: rate.NewLimiter(rate.Every(reconnectEvery), 1),
	}
}

// Updates devuelve el canal de precios.
func (f *Feed) Updates() <-chan domain.PriceUpdate {
	return f.updates
}

// Run mantiene el stream abierto hasta que el contexto se cancele,
// reconectando con pacing cuando la conexión se cae.
func (f *Feed) Run(ctx context.Context) error {
	for {
		if err := f.reconnect.Wait(ctx); err != nil {
			return nil
		}
		if err := f.stream(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Warn("ticker stream dropped, reconnecting", "err", err)
		}
	}
}

// StreamURL arma la URL del stream combinado, ej:
// wss://host/stream?streams=btcusdt@miniTicker/ethusdt@miniTicker
func (f *Feed) StreamURL() string {
	streams := make([]string, 0, len(f.universe))
	for _, s := range f.universe {
		streams = append(streams, strings.ToLower(s.Code())+"@miniTicker")
	}
	return f.baseURL + "/stream?streams=" + strings.Join(streams, "/")
}

// stream abre el socket y bombea updates hasta error o cancelación.
func (f *Feed) stream(ctx context.Context) error {
	conn, _, err := f.dialer.DialContext(ctx, f.StreamURL(), nil)
	if err != nil {
		return fmt.Errorf("binance.stream: dial: %w", err)
	}
	defer conn.Close()

	slog.Info("ticker stream connected", "symbols", len(f.universe))

	// cerrar el socket aborta el ReadMessage pendiente; una
	// reconciliación ya disparada corre igual a completitud
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	for {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("binance.stream: read: %w", err)
		}

		update, ok := f.parseFrame(msg)
		if !ok {
			// frame malformado o símbolo fuera del universo: se
			// descarta en silencio, el core solo ve ausencia
			continue
		}

		select {
		case f.updates <- update:
		case <-ctx.Done():
			return nil
		}
	}
}

// miniTickerFrame es el envelope del stream combinado.
type miniTickerFrame struct {
	Stream string `json:"stream"`
	Data   struct {
		Symbol string `json:"s"`
		Close  string `json:"c"`
	} `json:"data"`
}

// parseFrame decodifica un frame miniTicker y lo mapea al par display
// del universo. Devuelve false para frames que no son un precio usable.
func (f *Feed) parseFrame(msg []byte) (domain.PriceUpdate, bool) {
	var frame miniTickerFrame
	if err := json.Unmarshal(msg, &frame); err != nil {
		slog.Debug("dropping malformed frame", "err", err)
		return domain.PriceUpdate{}, false
	}
	if frame.Data.Symbol == "" || frame.Data.Close == "" {
		return domain.PriceUpdate{}, false
	}

	sym, ok := f.universe.FindByCode(frame.Data.Symbol)
	if !ok {
		return domain.PriceUpdate{}, false
	}

	price, err := strconv.ParseFloat(frame.Data.Close, 64)
	if err != nil || price <= 0 {
		slog.Debug("dropping frame with bad price", "symbol", frame.Data.Symbol, "price", frame.Data.Close)
		return domain.PriceUpdate{}, false
	}

	return domain.PriceUpdate{Symbol: sym.Pair(), Price: price}, true
}
