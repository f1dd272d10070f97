package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyCatalog   = errors.New("catalog must contain at least one product")
	ErrDuplicateEntry = errors.New("catalog contains duplicate product")
)

// defaultProducts is the built-in product set used when no catalog file is
// configured. Order matters: clients render score tables in catalog order.
var defaultProducts = []string{
	"ДК", "КК", "Комбо/Кросс КК", "ЦП", "Гос.Уведомления", "Смарт",
	"Кешбек", "ЖКУ", "БС", "БС со Стратегией", "Инвесткопилка",
	"Токенизация", "Накопительный Счет", "Вклад", "Детская Кросс",
	"Сим-Карта", "Перевод Пенсии", "Селфи ДК", "Селфи КК",
}

// Catalog is the fixed, ordered list of products scored in every session.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	products []string
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, _ := New(defaultProducts)
	return c
}

// New builds a catalog from an explicit product list.
func New(products []string) (*Catalog, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0, len(products))
	for _, p := range products {
		if p == "" {
			return nil, fmt.Errorf("%w: empty product name", ErrEmptyCatalog)
		}
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntry, p)
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	return &Catalog{products: out}, nil
}

// catalogFile mirrors the YAML schema of a catalog override file:
//
//	products:
//	  - "ДК"
//	  - "КК"
type catalogFile struct {
	Products []string `yaml:"products"`
}

// Load reads a catalog override from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	c, err := New(f.Products)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}
	return c, nil
}

// Products returns the product names in catalog order.
func (c *Catalog) Products() []string {
	out := make([]string, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// ZeroScores returns a fresh score map with every product set to zero.
func (c *Catalog) ZeroScores() map[string]int {
	scores := make(map[string]int, len(c.products))
	for _, p := range c.products {
		scores[p] = 0
	}
	return scores
}
