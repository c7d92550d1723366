package ports

import (
	"context"

	"github.com/alejandrodnm/basisbot/internal/domain"
)

// NewsProvider obtiene titulares del feed narrativo, ya clasificados
// por sentiment. Una categoría que falla simplemente no aporta
// titulares — nunca hace fallar la vista.
type NewsProvider interface {
	// FetchHeadlines devuelve hasta 6 titulares entre todas las
	// categorías configuradas.
	FetchHeadlines(ctx context.Context) ([]domain.Headline, error)
}
