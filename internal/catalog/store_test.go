package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// fakeBackend is a controllable stand-in for the REST API. Setting
// failing to true makes every route answer 500 so the fallback chain
// can be exercised without killing the listener.
type fakeBackend struct {
	mux     *http.ServeMux
	server  *httptest.Server
	failing atomic.Bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{mux: http.NewServeMux()}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.failing.Load() {
			http.Error(w, `{"code":"DOWN"}`, http.StatusInternalServerError)
			return
		}
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) respond(pattern, body string) {
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
}

func newTestStore(t *testing.T, baseURL string) *Store {
	t.Helper()
	fallback, err := OpenFallbackStore(filepath.Join(t.TempDir(), "fallback.db"))
	if err != nil {
		t.Fatalf("open fallback: %v", err)
	}
	t.Cleanup(func() { fallback.Close() })
	return NewStore(NewClient(baseURL, 2*time.Second), fallback)
}

func TestRefreshProductsSampleFallback(t *testing.T) {
	// no listener at all: remote fails, cache is empty
	store := newTestStore(t, "http://127.0.0.1:1")

	source := store.RefreshProducts(context.Background())
	if source != SourceSample {
		t.Fatalf("expected sample source, got %s", source)
	}
	products := store.Products()
	samples := SampleProducts()
	if len(products) != len(samples) {
		t.Fatalf("expected %d sample products, got %d", len(samples), len(products))
	}
	if products[0].ID != samples[0].ID {
		t.Errorf("sample identifiers must be deterministic: %s", products[0].ID)
	}
	if len(store.FeaturedProducts()) != 2 {
		t.Errorf("sample dataset should carry 2 featured products")
	}
}

func TestRefreshProductsCacheBeatsSample(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond("/products", `{"data":[{"id":"p1","name":"Phone","description":"d","price":100,"featured":true,"category":{"id":"c1","name":"Electronics"}}]}`)
	store := newTestStore(t, backend.server.URL)

	if source := store.RefreshProducts(context.Background()); source != SourceRemote {
		t.Fatalf("expected remote source, got %s", source)
	}

	// backend goes down; the cached copy must win over the sample data
	backend.failing.Store(true)
	if source := store.RefreshProducts(context.Background()); source != SourceCache {
		t.Fatalf("expected cache source, got %s", source)
	}
	products := store.Products()
	if len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("cached list expected, got %+v", products)
	}
}

func TestRefreshProductsFeaturedProjection(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond("/products", `{"data":[{"_id":"p1","name":"Phone","price":100,"category":{"_id":"c1","name":"Electronics"},"featured":true},{"_id":"p2","name":"Cable","price":5,"featured":false}]}`)
	store := newTestStore(t, backend.server.URL)

	store.RefreshProducts(context.Background())
	featured := store.FeaturedProducts()
	if len(featured) != 1 || featured[0].ID != "p1" {
		t.Fatalf("expected exactly p1 featured, got %+v", featured)
	}
}

func TestRefreshDealsSampleFallbackAllActive(t *testing.T) {
	store := newTestStore(t, "http://127.0.0.1:1")

	if source := store.RefreshDeals(context.Background()); source != SourceSample {
		t.Fatalf("expected sample source, got %s", source)
	}
	if len(store.Deals()) != 3 {
		t.Fatalf("expected 3 sample deals, got %d", len(store.Deals()))
	}
	if len(store.ActiveDeals()) != 3 {
		t.Fatalf("all sample deals are active, got %d", len(store.ActiveDeals()))
	}
}

func TestActiveDealsIsCaseSensitive(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond("/deals", `[{"id":"d1","title":"A","status":"active"},{"id":"d2","title":"B","status":"Active"},{"id":"d3","title":"C","status":"completed"}]`)
	store := newTestStore(t, backend.server.URL)

	store.RefreshDeals(context.Background())
	active := store.ActiveDeals()
	if len(active) != 1 || active[0].ID != "d1" {
		t.Fatalf("only exact status \"active\" counts, got %+v", active)
	}
}

func TestDeleteProductDoesNotResurrectFromCache(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond("/products", `[{"id":"p1","name":"Phone","price":100},{"id":"p2","name":"TV","price":200}]`)
	backend.mux.HandleFunc("/products/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"p1"}`))
	})
	store := newTestStore(t, backend.server.URL)

	store.RefreshProducts(context.Background())
	if err := store.DeleteProduct(context.Background(), "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// failover to cache must reflect the post-delete write-through
	backend.failing.Store(true)
	if source := store.RefreshProducts(context.Background()); source != SourceCache {
		t.Fatalf("expected cache source, got %s", source)
	}
	for _, p := range store.Products() {
		if p.ID == "p1" {
			t.Fatal("deleted product resurrected from cache")
		}
	}
	if len(store.Products()) != 1 {
		t.Fatalf("expected 1 surviving product, got %d", len(store.Products()))
	}
}

func TestMutationsLogExactlyOneEntry(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond("/products", `[]`)
	backend.respond("/products/bulk-update", `{"updated":0}`)
	store := newTestStore(t, backend.server.URL)
	store.RefreshProducts(context.Background())
	if store.Log().Len() != 0 {
		t.Fatal("reads must not log")
	}

	// success path
	before := store.Log().Len()
	if _, err := store.BulkUpdateProducts(context.Background(), []string{"p9"}, ProductPatch{}); err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if store.Log().Len() != before+1 {
		t.Fatalf("expected one new entry, got %d", store.Log().Len()-before)
	}
	if store.Log().Entries()[0].Status != SyncStatusSuccess {
		t.Errorf("entry status should be success")
	}

	// failure path
	backend.failing.Store(true)
	before = store.Log().Len()
	if _, err := store.AddProduct(context.Background(), validInput()); err == nil {
		t.Fatal("expected write failure to propagate")
	}
	if store.Log().Len() != before+1 {
		t.Fatalf("failed write must log exactly one entry")
	}
	entry := store.Log().Entries()[0]
	if entry.Action != SyncActionCreate || entry.Status != SyncStatusError {
		t.Errorf("unexpected entry %+v", entry)
	}

	before = store.Log().Len()
	if err := store.DeleteProduct(context.Background(), "p1"); err == nil {
		t.Fatal("expected delete failure to propagate")
	}
	if store.Log().Len() != before+1 {
		t.Fatal("failed delete must log exactly one entry")
	}
}

func TestBulkUpdateAppliesPatchInMemory(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond("/products", `[{"id":"p1","name":"Phone","price":100,"featured":true},{"id":"p2","name":"TV","price":200,"featured":true},{"id":"p3","name":"AC","price":300,"featured":true}]`)
	backend.respond("/products/bulk-update", `{"updated":2}`)
	store := newTestStore(t, backend.server.URL)
	store.RefreshProducts(context.Background())

	featured := false
	n, err := store.BulkUpdateProducts(context.Background(), []string{"p1", "p2"}, ProductPatch{Featured: &featured})
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected server count 2, got %d", n)
	}
	for _, p := range store.Products() {
		switch p.ID {
		case "p1", "p2":
			if p.Featured {
				t.Errorf("%s should have featured=false", p.ID)
			}
		case "p3":
			if !p.Featured {
				t.Error("p3 must be untouched")
			}
		}
	}
}

func TestAddProductAppendsServerEntity(t *testing.T) {
	backend := newFakeBackend(t)
	backend.mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"id":"srv-1","name":"Smartphone X Pro","description":"Flagship smartphone","price":2499}`))
			return
		}
		w.Write([]byte(`[]`))
	})
	store := newTestStore(t, backend.server.URL)

	created, err := store.AddProduct(context.Background(), validInput())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID != "srv-1" {
		t.Fatalf("server-assigned identity expected, got %q", created.ID)
	}
	if len(store.Products()) != 1 || store.Products()[0].ID != "srv-1" {
		t.Fatal("created product must land in memory")
	}
}

func TestWriteErrorsCarryTaxonomy(t *testing.T) {
	// connection refused
	store := newTestStore(t, "http://127.0.0.1:1")
	_, err := store.AddProduct(context.Background(), validInput())
	if _, isNet := err.(*NetworkError); !isNet {
		t.Fatalf("expected NetworkError, got %T", err)
	}

	// HTTP failure status
	backend := newFakeBackend(t)
	backend.failing.Store(true)
	store = newTestStore(t, backend.server.URL)
	_, err = store.UpdateProduct(context.Background(), "p1", ProductPatch{})
	httpErr, isHTTP := err.(*HTTPError)
	if !isHTTP {
		t.Fatalf("expected HTTPError, got %T", err)
	}
	if httpErr.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", httpErr.Status)
	}

	// garbage body
	backend2 := newFakeBackend(t)
	backend2.respond("/products/export", `<html>nope</html>`)
	store = newTestStore(t, backend2.server.URL)
	_, err = store.ExportProducts(context.Background(), nil)
	if _, isDecode := err.(*DecodeError); !isDecode {
		t.Fatalf("expected DecodeError, got %T", err)
	}
}

func TestFeaturedDealsFallbackChain(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond("/deals/featured", `[{"id":"d1","title":"TV Jam3a","status":"active","featured":true}]`)
	store := newTestStore(t, backend.server.URL)

	rows, source := store.FeaturedDeals(context.Background())
	if source != SourceRemote || len(rows) != 1 {
		t.Fatalf("expected remote hit, got %s %d", source, len(rows))
	}

	backend.failing.Store(true)
	rows, source = store.FeaturedDeals(context.Background())
	if source != SourceCache || len(rows) != 1 || rows[0].ID != "d1" {
		t.Fatalf("expected cached copy, got %s %+v", source, rows)
	}
}

func TestImportRefreshesProducts(t *testing.T) {
	backend := newFakeBackend(t)
	backend.mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"p1","name":"Imported","price":10}]`))
	})
	backend.respond("/products/import", `{"imported":1,"skipped":0}`)
	store := newTestStore(t, backend.server.URL)

	n, err := store.ImportProducts(context.Background(), []ProductInput{validInput()})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 imported, got %d", n)
	}
	if len(store.Products()) != 1 || store.Products()[0].Name != "Imported" {
		t.Fatal("import must trigger a product refresh")
	}
	if store.Log().Len() != 1 {
		t.Fatalf("import plus its refresh must log exactly once, got %d", store.Log().Len())
	}
}

func TestAnalyticsConfigFallsBackToDefaults(t *testing.T) {
	store := newTestStore(t, "http://127.0.0.1:1")
	cfg, source := store.AnalyticsConfig(context.Background())
	if source != SourceSample {
		t.Fatalf("expected sample source, got %s", source)
	}
	if cfg["provider"] != "none" {
		t.Errorf("default provider expected, got %v", cfg["provider"])
	}
}
