package ports

import (
	"context"

	"github.com/alejandrodnm/basisbot/internal/domain"
)

// Notifier presenta el board al usuario tras cada reconciliación.
type Notifier interface {
	// Notify muestra el book ordenado con sus vistas derivadas.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, board domain.Board) error
}
