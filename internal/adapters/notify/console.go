package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/basisbot/internal/domain"
)

const ideasPerSide = 3

// Console implementa ports.Notifier sobre stdout.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout. Con table=false
// imprime el modo compacto de una línea por ciclo.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el board en el modo configurado.
func (c *Console) Notify(_ context.Context, board domain.Board) error {
	if len(board.Opportunities) == 0 {
		fmt.Fprintf(c.out, "[%s] empty book\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printFull(board)
	} else {
		c.printCompact(board)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(board domain.Board) {
	top := board.Opportunities[0]
	filtered := domain.FilterBook(board.Opportunities, board.Filter)

	fmt.Fprintf(c.out, "[%s] %d opps (%d past filter) · top %s %+.1f bps · ΣPnL %.0f\n",
		time.Now().Format("15:04:05"),
		len(board.Opportunities), len(filtered),
		top.Symbol, top.SpreadBps,
		domain.AggregatePnl(board.Opportunities),
	)
}

// printFull imprime el book completo con sus vistas derivadas.
func (c *Console) printFull(board domain.Board) {
	book := board.Opportunities
	filtered := domain.FilterBook(book, board.Filter)

	fmt.Fprintf(c.out, "\n[%s] %d opportunities — %d past filter (≥%.0f bps, ≥%.0f notional) — ΣPnL %.0f\n",
		time.Now().Format("15:04:05"),
		len(book), len(filtered),
		board.Filter.MinEdgeBps, board.Filter.MinNotional,
		domain.AggregatePnl(book),
	)

	c.printBook(book)
	c.printVenueCounts(book, board.Venues)
	c.printIdeas(book)
	c.printEvents(board.Events)
	c.printHeadlines(board.Headlines)
}

// printBook imprime la tabla rankeada del book.
func (c *Console) printBook(book []domain.Opportunity) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Symbol", "Type", "Venue", "Basis", "Est PnL", "Notional", "Score", "Updated")

	for i, o := range book {
		venue := ""
		if len(o.Legs) > 0 {
			venue = o.CheapestLeg().Venue
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			o.Symbol,
			string(o.Type),
			venue,
			fmt.Sprintf("%+.1f bps", o.SpreadBps),
			fmt.Sprintf("%.0f %s", o.EstPnl, o.Quote),
			fmt.Sprintf("%.0f", o.Notional),
			fmt.Sprintf("%d", o.Score),
			o.UpdatedAt,
		)
	}
	table.Render()
}

// printVenueCounts imprime el conteo de piernas baratas por venue.
func (c *Console) printVenueCounts(book []domain.Opportunity, venues []string) {
	counts := domain.VenueCounts(book, venues)

	names := make([]string, 0, len(counts))
	for v := range counts {
		names = append(names, v)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, v := range names {
		parts = append(parts, fmt.Sprintf("%s:%d", v, counts[v]))
	}
	fmt.Fprintf(c.out, "  venues: %s\n", strings.Join(parts, " "))
}

// printIdeas imprime las ideas long/short derivadas de los extremos.
func (c *Console) printIdeas(book []domain.Opportunity) {
	longs, shorts := domain.TopIdeas(book, ideasPerSide)

	table := tablewriter.NewWriter(c.out)
	table.Header("Dir", "Symbol", "Venue", "Basis", "Est PnL", "Rationale")
	for _, ideas := range [][]domain.TradeIdea{longs, shorts} {
		for _, idea := range ideas {
			table.Append(
				idea.Direction,
				idea.Symbol,
				idea.Venue,
				fmt.Sprintf("%+.1f bps", idea.SpreadBps),
				fmt.Sprintf("%.0f", idea.EstPnl),
				idea.Rationale,
			)
		}
	}
	table.Render()
}

// printEvents imprime las últimas líneas del event log.
func (c *Console) printEvents(events []string) {
	if len(events) == 0 {
		return
	}
	shown := events
	if len(shown) > 5 {
		shown = shown[:5]
	}
	fmt.Fprintln(c.out, "  recent events:")
	for _, e := range shown {
		fmt.Fprintf(c.out, "    %s\n", e)
	}
}

// printHeadlines imprime los titulares con su sentiment.
func (c *Console) printHeadlines(headlines []domain.Headline) {
	if len(headlines) == 0 {
		return
	}
	fmt.Fprintln(c.out, "  headlines:")
	for _, h := range headlines {
		fmt.Fprintf(c.out, "    [%s] %s\n", h.Sentiment, h.Title)
	}
}
