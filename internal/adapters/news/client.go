package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/basisbot/internal/domain"
)

const (
	defaultBase = "https://min-api.cryptocompare.com"
	newsPath    = "/data/v2/news/"

	// Free tier: ~50 req/s documentados; usamos un margen amplio.
	newsRatePerSec = 5

	maxRetries    = 2
	baseRetryWait = 500 * time.Millisecond

	// El board consume hasta 6 titulares entre todas las categorías.
	maxHeadlines = 6
)

// Client es el HTTP client del feed narrativo, con rate limiting y
// retries. Implementa ports.NewsProvider.
type Client struct {
	http       *http.Client
	base       string
	categories []string
	limiter    *rate.Limiter
}

// NewClient crea un Client para las categorías dadas. Con base vacío
// usa el endpoint de producción.
func NewClient(base string, categories []string) *Client {
	if base == "" {
		base = defaultBase
	}
	return &Client{
		http:       &http.Client{Timeout: 10 * time.Second},
		base:       base,
		categories: categories,
		limiter:    rate.NewLimiter(newsRatePerSec, 2),
	}
}

// FetchHeadlines obtiene titulares por categoría y los clasifica.
// Una categoría que falla no aporta titulares; si fallan todas, devuelve
// el set placeholder estático. Tope global: 6 titulares.
func (c *Client) FetchHeadlines(ctx context.Context) ([]domain.Headline, error) {
	headlines := make([]domain.Headline, 0, maxHeadlines)
	anyOK := false

	for _, cat := range c.categories {
		if len(headlines) >= maxHeadlines {
			break
		}
		titles, err := c.fetchCategory(ctx, cat)
		if err != nil {
			slog.Warn("news category fetch failed", "category", cat, "err", err)
			continue
		}
		anyOK = true
		for _, title := range titles {
			if len(headlines) >= maxHeadlines {
				break
			}
			headlines = append(headlines, domain.Headline{
				Title:     title,
				Category:  cat,
				Sentiment: domain.ClassifyHeadline(title),
			})
		}
	}

	if !anyOK {
		return placeholderHeadlines(), nil
	}
	return headlines, nil
}

// newsResponse es la respuesta del endpoint /data/v2/news/.
type newsResponse struct {
	Data []struct {
		Title string `json:"title"`
	} `json:"Data"`
}

// fetchCategory trae los titulares de una categoría.
func (c *Client) fetchCategory(ctx context.Context, category string) ([]string, error) {
	u := fmt.Sprintf("%s%s?categories=%s&lang=EN", c.base, newsPath, url.QueryEscape(category))

	var resp newsResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("news.fetchCategory %q: %w", category, err)
	}

	titles := make([]string, 0, len(resp.Data))
	for _, a := range resp.Data {
		if a.Title != "" {
			titles = append(titles, a.Title)
		}
	}
	return titles, nil
}

// get hace un GET con rate limiting y retries con backoff exponencial.
func (c *Client) get(ctx context.Context, u string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("status %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

// placeholderHeadlines es el set estático que se muestra cuando el feed
// narrativo no devuelve nada.
func placeholderHeadlines() []domain.Headline {
	titles := []string{
		"Crypto markets trade mixed as volumes thin out",
		"Funding rates stay flat across major perp venues",
		"Stablecoin supply unchanged week over week",
	}
	out := make([]domain.Headline, 0, len(titles))
	for _, t := range titles {
		out = append(out, domain.Headline{
			Title:     t,
			Category:  "General",
			Sentiment: domain.ClassifyHeadline(t),
		})
	}
	return out
}
