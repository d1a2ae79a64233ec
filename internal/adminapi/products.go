package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"

	"github.com/jam3ahq/jam3a/internal/domain"
	"github.com/jam3ahq/jam3a/internal/webserver"
	"github.com/jam3ahq/jam3a/pkg/common"
)

type productPayload struct {
	Sku           string  `json:"sku"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	CategoryID    int64   `json:"category_id,string"`
	Price         float64 `json:"price"`
	Stock         *int    `json:"stock"`
	Featured      bool    `json:"featured"`
	CurrentAmount float64 `json:"current_amount"`
	TargetAmount  float64 `json:"target_amount"`
	Image         string  `json:"image"`
	Version       int64   `json:"version"`
}

func validateProductPayload(p *productPayload) []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		errs = append(errs, "description is required")
	}
	if p.CategoryID == 0 {
		errs = append(errs, "category is required")
	}
	if p.Price < 0 {
		errs = append(errs, "price must be non-negative")
	}
	if p.Stock != nil && *p.Stock < 0 {
		errs = append(errs, "stock must be non-negative")
	}
	return errs
}

// registerProductRoutes registers product catalog endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
	webserver.ApiPOST("/products/bulk-update", bulkUpdateProducts)
	webserver.ApiPOST("/products/bulk-delete", bulkDeleteProducts)
	webserver.ApiPOST("/products/import", importProducts)
	webserver.ApiGET("/products/export", exportProducts)
	webserver.ApiPOST("/products/export", exportProducts)
}

var productSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"price":      "price",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// ListProducts retrieves the product list
// @Summary get the product list
// @Tags Products
// @Param page query int false "Page number"
// @Param perPage query int false "Items per page"
// @Param q query string false "Name search"
// @Param category_id query string false "Category filter"
// @Param featured query bool false "Featured filter"
// @Success 200 {object} ListResponse
// @Router /api/v1/products [get]
func listProducts(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Product{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = nameLike(db, "name", q)
	}
	if catID := strings.TrimSpace(c.QueryParam("category_id")); catID != "" {
		db = db.Where("category_id = ?", catID)
	}
	if featured := strings.TrimSpace(c.QueryParam("featured")); featured != "" {
		db = db.Where("featured = ?", featured == "true")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Preload("Category").
		Order(parseSort(c, productSortColumns)).
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Preload("Category").Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if errs := validateProductPayload(&payload); len(errs) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Product validation failed", errs)
	}

	now := time.Now()
	p := domain.Product{
		ID:            common.UUIDint64(),
		Sku:           strings.TrimSpace(payload.Sku),
		Name:          strings.TrimSpace(payload.Name),
		Description:   strings.TrimSpace(payload.Description),
		CategoryID:    payload.CategoryID,
		Price:         payload.Price,
		Stock:         payload.Stock,
		Featured:      payload.Featured,
		CurrentAmount: payload.CurrentAmount,
		TargetAmount:  payload.TargetAmount,
		Image:         strings.TrimSpace(payload.Image),
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	oprLog(c, "product_create", fmt.Sprintf("created product %d (%s)", p.ID, p.Name))
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if errs := validateProductPayload(&payload); len(errs) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Product validation failed", errs)
	}
	// Optimistic concurrency: a stale version means another admin saved in
	// between; the caller must reload and retry.
	if payload.Version != 0 && payload.Version != p.Version {
		return fail(c, http.StatusConflict, "VERSION_CONFLICT", "Product was modified by another session", p.Version)
	}

	p.Sku = strings.TrimSpace(payload.Sku)
	p.Name = strings.TrimSpace(payload.Name)
	p.Description = strings.TrimSpace(payload.Description)
	p.CategoryID = payload.CategoryID
	p.Price = payload.Price
	p.Stock = payload.Stock
	p.Featured = payload.Featured
	p.CurrentAmount = payload.CurrentAmount
	p.TargetAmount = payload.TargetAmount
	p.Image = strings.TrimSpace(payload.Image)
	p.Version++
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	oprLog(c, "product_update", fmt.Sprintf("updated product %d", p.ID))
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	oprLog(c, "product_delete", fmt.Sprintf("deleted product %d", id))
	return ok(c, map[string]interface{}{"id": strconv.FormatInt(id, 10)})
}

type bulkUpdatePayload struct {
	Ids  []string               `json:"ids"`
	Data map[string]interface{} `json:"data"`
}

// bulkUpdatableColumns limits bulk writes to plain attribute columns.
var bulkUpdatableColumns = map[string]bool{
	"sku":            true,
	"name":           true,
	"description":    true,
	"category_id":    true,
	"price":          true,
	"stock":          true,
	"featured":       true,
	"current_amount": true,
	"target_amount":  true,
	"image":          true,
}

func bulkUpdateProducts(c echo.Context) error {
	var payload bulkUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse bulk update", err.Error())
	}
	ids := parseIDList(payload.Ids)
	if len(ids) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "No valid product IDs", nil)
	}

	updates := map[string]interface{}{}
	for k, v := range payload.Data {
		if bulkUpdatableColumns[k] {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "No updatable fields given", nil)
	}
	updates["updated_at"] = time.Now()
	// version must advance on bulk writes too
	updates["version"] = gorm.Expr("version + 1")

	result := GetDB(c).Model(&domain.Product{}).Where("id in (?)", ids).
		Updates(updates)
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to bulk update products", result.Error.Error())
	}

	oprLog(c, "product_bulk_update", fmt.Sprintf("bulk updated %d products", result.RowsAffected))
	return ok(c, map[string]interface{}{"updated": result.RowsAffected})
}

type bulkDeletePayload struct {
	Ids []string `json:"ids"`
}

func bulkDeleteProducts(c echo.Context) error {
	var payload bulkDeletePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse bulk delete", err.Error())
	}
	ids := parseIDList(payload.Ids)
	if len(ids) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "No valid product IDs", nil)
	}
	result := GetDB(c).Where("id in (?)", ids).Delete(&domain.Product{})
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to bulk delete products", result.Error.Error())
	}
	oprLog(c, "product_bulk_delete", fmt.Sprintf("bulk deleted %d products", result.RowsAffected))
	return ok(c, map[string]interface{}{"deleted": result.RowsAffected})
}

type importPayload struct {
	Products []productPayload `json:"products"`
}

// importProducts validates all rows first and then inserts the valid ones
// concurrently through a small worker pool.
func importProducts(c echo.Context) error {
	var payload importPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse import", err.Error())
	}
	if len(payload.Products) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "No products to import", nil)
	}

	db := GetDB(c)
	pool, err := ants.NewPool(8)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "POOL_ERROR", "Failed to start import pool", err.Error())
	}
	defer pool.Release()

	var imported int64
	var skipped []string
	var wg sync.WaitGroup
	now := time.Now()

	for i := range payload.Products {
		row := payload.Products[i]
		if errs := validateProductPayload(&row); len(errs) > 0 {
			skipped = append(skipped, fmt.Sprintf("row %d: %s", i, strings.Join(errs, "; ")))
			continue
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			p := domain.Product{
				ID:            common.UUIDint64(),
				Sku:           strings.TrimSpace(row.Sku),
				Name:          strings.TrimSpace(row.Name),
				Description:   strings.TrimSpace(row.Description),
				CategoryID:    row.CategoryID,
				Price:         row.Price,
				Stock:         row.Stock,
				Featured:      row.Featured,
				CurrentAmount: row.CurrentAmount,
				TargetAmount:  row.TargetAmount,
				Image:         strings.TrimSpace(row.Image),
				Version:       1,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := db.Create(&p).Error; err == nil {
				atomic.AddInt64(&imported, 1)
			}
		})
		if submitErr != nil {
			wg.Done()
		}
	}
	wg.Wait()

	oprLog(c, "product_import", fmt.Sprintf("imported %d products", imported))
	return ok(c, map[string]interface{}{"imported": imported, "skipped": skipped})
}

type productExportRow struct {
	ID          string  `csv:"id"`
	Sku         string  `csv:"sku"`
	Name        string  `csv:"name"`
	Description string  `csv:"description"`
	Category    string  `csv:"category"`
	Price       float64 `csv:"price"`
	Stock       int     `csv:"stock"`
	Featured    bool    `csv:"featured"`
}

type exportPayload struct {
	Ids []string `json:"ids"`
}

// exportProducts returns the requested subset (or all products) as a bare
// JSON array, or as CSV/XLSX when format is given.
func exportProducts(c echo.Context) error {
	var ids []int64
	if c.Request().Method == http.MethodPost {
		var payload exportPayload
		if err := c.Bind(&payload); err == nil {
			ids = parseIDList(payload.Ids)
		}
	} else if raw := strings.TrimSpace(c.QueryParam("ids")); raw != "" {
		ids = parseIDList(strings.Split(raw, ","))
	}

	db := GetDB(c).Model(&domain.Product{}).Preload("Category")
	if len(ids) > 0 {
		db = db.Where("id in (?)", ids)
	}
	var rows []domain.Product
	if err := db.Order("id DESC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to export products", err.Error())
	}

	oprLog(c, "product_export", fmt.Sprintf("exported %d products", len(rows)))

	switch strings.ToLower(c.QueryParam("format")) {
	case "csv":
		return exportProductsCsv(c, rows)
	case "xlsx":
		return exportProductsXlsx(c, rows)
	default:
		return ok(c, rows)
	}
}

func toExportRows(rows []domain.Product) []productExportRow {
	out := make([]productExportRow, 0, len(rows))
	for _, p := range rows {
		stock := 0
		if p.Stock != nil {
			stock = *p.Stock
		}
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		out = append(out, productExportRow{
			ID:          strconv.FormatInt(p.ID, 10),
			Sku:         p.Sku,
			Name:        p.Name,
			Description: p.Description,
			Category:    category,
			Price:       p.Price,
			Stock:       stock,
			Featured:    p.Featured,
		})
	}
	return out
}

func exportProductsCsv(c echo.Context, rows []domain.Product) error {
	var buf bytes.Buffer
	if err := gocsv.Marshal(toExportRows(rows), &buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to render CSV", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func exportProductsXlsx(c echo.Context, rows []domain.Product) error {
	f := excelize.NewFile()
	headers := []string{"ID", "SKU", "Name", "Description", "Category", "Price", "Stock", "Featured"}
	for i, h := range headers {
		f.SetCellValue("Sheet1", fmt.Sprintf("%s1", string(rune('A'+i))), h)
	}
	for i, row := range toExportRows(rows) {
		line := i + 2
		f.SetCellValue("Sheet1", fmt.Sprintf("A%d", line), row.ID)
		f.SetCellValue("Sheet1", fmt.Sprintf("B%d", line), row.Sku)
		f.SetCellValue("Sheet1", fmt.Sprintf("C%d", line), row.Name)
		f.SetCellValue("Sheet1", fmt.Sprintf("D%d", line), row.Description)
		f.SetCellValue("Sheet1", fmt.Sprintf("E%d", line), row.Category)
		f.SetCellValue("Sheet1", fmt.Sprintf("F%d", line), row.Price)
		f.SetCellValue("Sheet1", fmt.Sprintf("G%d", line), row.Stock)
		f.SetCellValue("Sheet1", fmt.Sprintf("H%d", line), row.Featured)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to render XLSX", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
