package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DataSource says where the current in-memory dataset came from.
type DataSource string

const (
	SourceRemote DataSource = "remote"
	SourceCache  DataSource = "cache"
	SourceSample DataSource = "sample"
)

// Store is the in-memory authority for the product and deal lists during
// a session. Reads are offline tolerant: a failed refresh falls back to
// the local cache and then to the sample dataset, and never surfaces an
// error. Writes are strict: failures are recorded in the sync log and
// returned to the caller, with no optimistic local mutation.
type Store struct {
	client   *Client
	fallback *FallbackStore
	log      *SyncLog

	mu             sync.RWMutex
	products       []Product
	deals          []Deal
	productsSource DataSource
	dealsSource    DataSource

	sf singleflight.Group
}

func NewStore(client *Client, fallback *FallbackStore) *Store {
	return &Store{
		client:   client,
		fallback: fallback,
		log:      NewSyncLog(DefaultSyncLogCap),
	}
}

// Log exposes the mutation audit trail.
func (s *Store) Log() *SyncLog { return s.log }

// Close releases the fallback cache file.
func (s *Store) Close() error { return s.fallback.Close() }

// RefreshProducts reloads the product list from the backend, writing
// through to the fallback cache. Concurrent refreshes are coalesced into
// one remote call.
func (s *Store) RefreshProducts(ctx context.Context) DataSource {
	v, _, _ := s.sf.Do("refresh-products", func() (interface{}, error) {
		return s.refreshProducts(ctx), nil
	})
	return v.(DataSource)
}

func (s *Store) refreshProducts(ctx context.Context) DataSource {
	rows, err := s.client.ListProducts(ctx)
	if err == nil {
		s.setProducts(rows, SourceRemote)
		s.persist(KeyProducts, rows)
		return SourceRemote
	}
	zap.L().Warn("product refresh failed, falling back", zap.Error(err))

	var cached []Product
	if found, rerr := s.fallback.Read(KeyProducts, &cached); found && rerr == nil {
		s.setProducts(cached, SourceCache)
		return SourceCache
	} else if rerr != nil {
		zap.L().Debug("product cache unreadable", zap.Error(rerr))
	}

	s.setProducts(SampleProducts(), SourceSample)
	return SourceSample
}

// RefreshDeals mirrors RefreshProducts for the deal list.
func (s *Store) RefreshDeals(ctx context.Context) DataSource {
	v, _, _ := s.sf.Do("refresh-deals", func() (interface{}, error) {
		return s.refreshDeals(ctx), nil
	})
	return v.(DataSource)
}

func (s *Store) refreshDeals(ctx context.Context) DataSource {
	rows, err := s.client.ListDeals(ctx)
	if err == nil {
		s.setDeals(rows, SourceRemote)
		s.persist(KeyDeals, rows)
		return SourceRemote
	}
	zap.L().Warn("deal refresh failed, falling back", zap.Error(err))

	var cached []Deal
	if found, rerr := s.fallback.Read(KeyDeals, &cached); found && rerr == nil {
		s.setDeals(cached, SourceCache)
		return SourceCache
	} else if rerr != nil {
		zap.L().Debug("deal cache unreadable", zap.Error(rerr))
	}

	s.setDeals(SampleDeals(), SourceSample)
	return SourceSample
}

// FeaturedDeals resolves the promoted deal list through the same
// three-tier chain, cached under its own key.
func (s *Store) FeaturedDeals(ctx context.Context) ([]Deal, DataSource) {
	rows, err := s.client.ListFeaturedDeals(ctx)
	if err == nil {
		s.persist(KeyFeaturedDeals, rows)
		return rows, SourceRemote
	}
	zap.L().Warn("featured deal fetch failed, falling back", zap.Error(err))

	var cached []Deal
	if found, rerr := s.fallback.Read(KeyFeaturedDeals, &cached); found && rerr == nil {
		return cached, SourceCache
	}
	return SampleFeaturedDeals(), SourceSample
}

// AnalyticsConfig resolves the storefront tracking config, falling back
// to the cached copy and then the built-in defaults.
func (s *Store) AnalyticsConfig(ctx context.Context) (map[string]interface{}, DataSource) {
	cfg, err := s.client.FetchAnalyticsConfig(ctx)
	if err == nil {
		s.persist(KeyAnalyticsConfig, cfg)
		return cfg, SourceRemote
	}

	cached := make(map[string]interface{})
	if found, rerr := s.fallback.Read(KeyAnalyticsConfig, &cached); found && rerr == nil {
		return cached, SourceCache
	}
	return SampleAnalyticsConfig(), SourceSample
}

func (s *Store) setProducts(rows []Product, source DataSource) {
	s.mu.Lock()
	s.products = rows
	s.productsSource = source
	s.mu.Unlock()
}

func (s *Store) setDeals(rows []Deal, source DataSource) {
	s.mu.Lock()
	s.deals = rows
	s.dealsSource = source
	s.mu.Unlock()
}

// persist writes through to the fallback cache. Storage failures are
// logged and swallowed; the cache is best effort, never a source of
// truth.
func (s *Store) persist(key string, value interface{}) {
	if err := s.fallback.Write(key, value); err != nil {
		zap.L().Warn("fallback write failed", zap.String("key", key), zap.Error(err))
	}
}

// Products returns a copy of the current in-memory product list.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Deals returns a copy of the current in-memory deal list.
func (s *Store) Deals() []Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Deal, len(s.deals))
	copy(out, s.deals)
	return out
}

// ProductsSource reports where the current product list came from.
func (s *Store) ProductsSource() DataSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productsSource
}

// DealsSource reports where the current deal list came from.
func (s *Store) DealsSource() DataSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dealsSource
}

// ActiveDeals returns deals whose status is exactly "active".
func (s *Store) ActiveDeals() []Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Deal
	for _, d := range s.deals {
		if d.Status == "active" {
			out = append(out, d)
		}
	}
	return out
}

// FeaturedProducts returns the promoted subset of the product list.
func (s *Store) FeaturedProducts() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Product
	for _, p := range s.products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// AddProduct creates a product on the backend and appends the
// server-assigned entity to the in-memory list. Exactly one sync log
// entry is written per call. Invalid input is rejected before any
// network traffic.
func (s *Store) AddProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if verr := ValidateProductStrict(in); verr != nil {
		s.log.Append(SyncActionCreate, fmt.Sprintf("create %q rejected: %v", in.Name, verr), SyncStatusError, nil)
		return nil, verr
	}
	created, err := s.client.CreateProduct(ctx, in)
	if err != nil {
		s.log.Append(SyncActionCreate, fmt.Sprintf("create %q failed: %v", in.Name, err), SyncStatusError, nil)
		return nil, err
	}

	s.mu.Lock()
	s.products = append(s.products, *created)
	rows := make([]Product, len(s.products))
	copy(rows, s.products)
	s.mu.Unlock()

	s.log.Append(SyncActionCreate, fmt.Sprintf("created product %q", created.Name), SyncStatusSuccess, []string{created.ID})
	s.persist(KeyProducts, rows)
	return created, nil
}

// UpdateProduct applies a partial update and merges the server response
// into the matching in-memory entry.
func (s *Store) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	updated, err := s.client.UpdateProduct(ctx, id, patch)
	if err != nil {
		s.log.Append(SyncActionUpdate, fmt.Sprintf("update %s failed: %v", id, err), SyncStatusError, []string{id})
		return nil, err
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = *updated
			break
		}
	}
	rows := make([]Product, len(s.products))
	copy(rows, s.products)
	s.mu.Unlock()

	s.log.Append(SyncActionUpdate, fmt.Sprintf("updated product %s", id), SyncStatusSuccess, []string{id})
	s.persist(KeyProducts, rows)
	return updated, nil
}

// DeleteProduct removes the product remotely and locally. The cache is
// rewritten after the local removal so a later fallback read cannot
// resurrect the deleted entry.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := s.client.DeleteProduct(ctx, id); err != nil {
		s.log.Append(SyncActionDelete, fmt.Sprintf("delete %s failed: %v", id, err), SyncStatusError, []string{id})
		return err
	}

	s.mu.Lock()
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	rows := make([]Product, len(s.products))
	copy(rows, s.products)
	s.mu.Unlock()

	s.log.Append(SyncActionDelete, fmt.Sprintf("deleted product %s", id), SyncStatusSuccess, []string{id})
	s.persist(KeyProducts, rows)
	return nil
}

// BulkUpdateProducts applies the patch to every listed product and
// returns the server's updated count.
func (s *Store) BulkUpdateProducts(ctx context.Context, ids []string, patch ProductPatch) (int, error) {
	updated, err := s.client.BulkUpdateProducts(ctx, ids, patch)
	if err != nil {
		s.log.Append(SyncActionBulk, fmt.Sprintf("bulk update of %d products failed: %v", len(ids), err), SyncStatusError, ids)
		return 0, err
	}

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	s.mu.Lock()
	for i := range s.products {
		if _, hit := idSet[s.products[i].ID]; hit {
			patch.Apply(&s.products[i])
		}
	}
	rows := make([]Product, len(s.products))
	copy(rows, s.products)
	s.mu.Unlock()

	s.log.Append(SyncActionBulk, fmt.Sprintf("bulk updated %d products", updated), SyncStatusSuccess, ids)
	s.persist(KeyProducts, rows)
	return updated, nil
}

// BulkDeleteProducts removes every listed product and returns the
// server's deleted count.
func (s *Store) BulkDeleteProducts(ctx context.Context, ids []string) (int, error) {
	deleted, err := s.client.BulkDeleteProducts(ctx, ids)
	if err != nil {
		s.log.Append(SyncActionBulk, fmt.Sprintf("bulk delete of %d products failed: %v", len(ids), err), SyncStatusError, ids)
		return 0, err
	}

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	s.mu.Lock()
	kept := s.products[:0]
	for _, p := range s.products {
		if _, hit := idSet[p.ID]; !hit {
			kept = append(kept, p)
		}
	}
	s.products = kept
	rows := make([]Product, len(s.products))
	copy(rows, s.products)
	s.mu.Unlock()

	s.log.Append(SyncActionBulk, fmt.Sprintf("bulk deleted %d products", deleted), SyncStatusSuccess, ids)
	s.persist(KeyProducts, rows)
	return deleted, nil
}

// ImportProducts uploads rows and refreshes the full list on success so
// the in-memory state reflects server-side dedup decisions.
func (s *Store) ImportProducts(ctx context.Context, rows []ProductInput) (int, error) {
	imported, err := s.client.ImportProducts(ctx, rows)
	if err != nil {
		s.log.Append(SyncActionImport, fmt.Sprintf("import of %d products failed: %v", len(rows), err), SyncStatusError, nil)
		return 0, err
	}

	status := SyncStatusSuccess
	if imported < len(rows) {
		status = SyncStatusWarning
	}
	s.log.Append(SyncActionImport, fmt.Sprintf("imported %d of %d products", imported, len(rows)), status, nil)

	s.RefreshProducts(ctx)
	return imported, nil
}

// ExportProducts fetches the requested subset, or everything when ids is
// empty.
func (s *Store) ExportProducts(ctx context.Context, ids []string) ([]Product, error) {
	rows, err := s.client.ExportProducts(ctx, ids)
	if err != nil {
		s.log.Append(SyncActionExport, fmt.Sprintf("export failed: %v", err), SyncStatusError, ids)
		return nil, err
	}
	detail := "exported all products"
	if len(ids) > 0 {
		detail = fmt.Sprintf("exported %d products (%s)", len(rows), strings.Join(ids, ","))
	}
	s.log.Append(SyncActionExport, detail, SyncStatusSuccess, ids)
	return rows, nil
}
