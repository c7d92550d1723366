package domain

import "fmt"

// Symbol es un instrumento del universo monitoreado. El anchor es el
// precio de referencia contra el que se mide el basis; un símbolo sin
// anchor válido no pasa la validación de arranque.
type Symbol struct {
	Base   string  `yaml:"base"`
	Quote  string  `yaml:"quote"`
	Anchor float64 `yaml:"anchor"`
}

// Pair devuelve el par en formato display, ej "BTC/USDT". Es la clave
// interna del book y del mapa de precios.
func (s Symbol) Pair() string {
	return s.Base + "/" + s.Quote
}

// Code devuelve el código compacto de exchange, ej "BTCUSDT".
func (s Symbol) Code() string {
	return s.Base + s.Quote
}

// Universe es la lista ordenada de símbolos a monitorear. El orden es
// significativo: define el desempate en el ranking del book.
type Universe []Symbol

// Find busca un símbolo por su par display.
func (u Universe) Find(pair string) (Symbol, bool) {
	for _, s := range u {
		if s.Pair() == pair {
			return s, true
		}
	}
	return Symbol{}, false
}

// FindByCode busca un símbolo por su código de exchange.
func (u Universe) FindByCode(code string) (Symbol, bool) {
	for _, s := range u {
		if s.Code() == code {
			return s, true
		}
	}
	return Symbol{}, false
}

// Validate verifica que el universo sea usable: no vacío, sin pares
// duplicados y con anchor positivo en cada símbolo. Se llama una vez
// al cargar la configuración; un universo inválido aborta el arranque.
func (u Universe) Validate() error {
	if len(u) == 0 {
		return fmt.Errorf("domain.Universe.Validate: universo vacío")
	}
	seen := make(map[string]bool, len(u))
	for i, s := range u {
		if s.Base == "" || s.Quote == "" {
			return fmt.Errorf("domain.Universe.Validate: símbolo %d sin base o quote", i)
		}
		if seen[s.Pair()] {
			return fmt.Errorf("domain.Universe.Validate: par duplicado %s", s.Pair())
		}
		seen[s.Pair()] = true
		if s.Anchor <= 0 {
			return fmt.Errorf("domain.Universe.Validate: %s con anchor inválido %g", s.Pair(), s.Anchor)
		}
	}
	return nil
}

// PriceUpdate es un tick de precio ya normalizado al par display.
type PriceUpdate struct {
	Symbol string
	Price  float64
}
