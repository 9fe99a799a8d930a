package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"storefront-service/pkg/logkey"
)

// ErrNotFound is returned by the detail lookups when no product matches.
var ErrNotFound = errors.New("product not found")

// Querier is the CMS read port, satisfied by the sanity client.
type Querier interface {
	Query(ctx context.Context, query string, params map[string]any, result any) error
}

// Conf is the catalog fetch layer. Listing fetches are fail-soft: a CMS
// failure degrades to an empty result set instead of an error, and is
// logged. Overlapping fetches are fenced with a generation token so a
// slow, superseded response never overwrites the state of a newer one.
type Conf struct {
	client Querier

	generation atomic.Uint64

	mu          sync.Mutex
	loading     bool
	current     []Product
	resultCount int
}

func NewConf(client Querier) (*Conf, error) {
	if client == nil {
		return nil, fmt.Errorf("querier is nil")
	}
	return &Conf{client: client}, nil
}

// Browse fetches the products matching the given criteria and search term
// and returns them. The shared snapshot (Current, ResultCount, Loading) is
// only updated when this call is still the latest issued; a fetch that was
// superseded mid-flight returns its own results without touching it.
func (c *Conf) Browse(ctx context.Context, criteria FilterCriteria, searchTerm string, expanded bool) []Product {
	gen := c.generation.Add(1)

	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	query, params := BuildListQuery(criteria, searchTerm, expanded)

	var fetched []Product
	err := c.client.Query(ctx, query, params, &fetched)
	if err != nil {
		slog.Error("failed to fetch products", slog.String(logkey.ERROR, err.Error()))
		fetched = nil
	}

	products := normalize(fetched)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.generation.Load() {
		c.loading = false
		c.current = products
		c.resultCount = len(products)
	}
	return products
}

// Loading reports whether the latest issued fetch is still in flight.
func (c *Conf) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ResultCount is the number of products in the latest completed fetch.
func (c *Conf) ResultCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resultCount
}

// Current is the product list of the latest completed fetch.
func (c *Conf) Current() []Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Product, len(c.current))
	copy(out, c.current)
	return out
}

// ProductBySlug fetches a single product by its URL key. Detail lookups are
// not fail-soft: the caller distinguishes "not found" from a fetch failure.
func (c *Conf) ProductBySlug(ctx context.Context, slug string) (Product, error) {
	return c.fetchOne(ctx, productBySlugQuery, map[string]any{"slug": slug})
}

// ProductByID fetches a single product by document id.
func (c *Conf) ProductByID(ctx context.Context, id string) (Product, error) {
	return c.fetchOne(ctx, productByIDQuery, map[string]any{"id": id})
}

func (c *Conf) fetchOne(ctx context.Context, query string, params map[string]any) (Product, error) {
	var p *Product
	if err := c.client.Query(ctx, query, params, &p); err != nil {
		return Product{}, fmt.Errorf("failed to fetch product: %w", err)
	}
	if p == nil || !valid(*p) {
		return Product{}, ErrNotFound
	}
	return *p, nil
}

// normalize validates raw CMS documents once at the fetch boundary.
// Malformed entries are dropped so downstream code never re-checks.
func normalize(fetched []Product) []Product {
	products := make([]Product, 0, len(fetched))
	for _, p := range fetched {
		if !valid(p) {
			slog.Warn("dropping malformed product document", slog.String("ProductID", p.ID))
			continue
		}
		products = append(products, p)
	}
	return products
}

func valid(p Product) bool {
	return p.ID != "" && p.Title != "" && p.Price >= 0
}
