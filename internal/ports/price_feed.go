package ports

import (
	"context"

	"github.com/alejandrodnm/basisbot/internal/domain"
)

// PriceFeed entrega el último precio conocido por símbolo, de forma
// asíncrona, cada vez que cambia. El core lo trata únicamente como
// "último valor conocido o ausente".
type PriceFeed interface {
	// Run mantiene la conexión al feed hasta que el contexto se cancele.
	// Los frames malformados se descartan en silencio: el core nunca
	// observa datos inválidos, solo ausencia.
	Run(ctx context.Context) error

	// Updates devuelve el canal por el que llegan los precios.
	Updates() <-chan domain.PriceUpdate
}
