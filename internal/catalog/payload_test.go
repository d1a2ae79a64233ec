package catalog

import "testing"

func TestDecodeListAcceptsBothShapes(t *testing.T) {
	bare := []byte(`[{"id":"p1","name":"Phone","price":100}]`)
	var rows []Product
	if err := decodeList("test", bare, &rows); err != nil {
		t.Fatalf("bare array: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "p1" {
		t.Fatalf("bare array decoded wrong: %+v", rows)
	}

	wrapped := []byte(`{"data":[{"id":"p2","name":"TV","price":200}],"total":1,"page":1}`)
	rows = nil
	if err := decodeList("test", wrapped, &rows); err != nil {
		t.Fatalf("envelope: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "p2" {
		t.Fatalf("envelope decoded wrong: %+v", rows)
	}
}

func TestDecodeListRejectsGarbage(t *testing.T) {
	var rows []Product
	for _, raw := range [][]byte{nil, []byte("   "), []byte(`{"total":3}`), []byte(`not json`)} {
		if err := decodeList("test", raw, &rows); err == nil {
			t.Errorf("expected DecodeError for %q", raw)
		} else if _, isDecode := err.(*DecodeError); !isDecode {
			t.Errorf("expected DecodeError for %q, got %T", raw, err)
		}
	}
}

func TestNormalizeLegacyIdentifiers(t *testing.T) {
	raw := []byte(`{"data":[{"_id":"p1","name":"Phone","price":100,"category":{"_id":"c1","name":"Electronics"},"featured":true}]}`)
	var rows []Product
	if err := decodeList("test", raw, &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	normalizeProducts(rows)
	if rows[0].ID != "p1" {
		t.Errorf("legacy _id not normalized: %+v", rows[0])
	}
	if rows[0].Category == nil || rows[0].Category.ID != "c1" {
		t.Errorf("category _id not normalized: %+v", rows[0].Category)
	}
	if rows[0].CategoryID != "c1" {
		t.Errorf("category_id not backfilled: %+v", rows[0])
	}
}
