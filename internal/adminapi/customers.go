package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jam3ahq/jam3a/internal/domain"
	"github.com/jam3ahq/jam3a/internal/webserver"
	"github.com/jam3ahq/jam3a/pkg/common"
)

type customerPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Language string `json:"language"`
	Remark   string `json:"remark"`
}

func registerCustomerRoutes() {
	webserver.ApiGET("/crm/customers", listCustomers)
	webserver.ApiGET("/crm/customers/:id", getCustomer)
	webserver.ApiPOST("/crm/customers", createCustomer)
	webserver.ApiPUT("/crm/customers/:id", updateCustomer)
	webserver.ApiDELETE("/crm/customers/:id", deleteCustomer)
}

var customerSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"city":       "city",
	"created_at": "created_at",
}

func listCustomers(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Customer{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = nameLike(db, "name", q)
	}
	if city := strings.TrimSpace(c.QueryParam("city")); city != "" {
		db = db.Where("city = ?", city)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}

	var rows []domain.Customer
	if err := db.Order(parseSort(c, customerSortColumns)).
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	return paged(c, rows, total, page, perPage)
}

func getCustomer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var cust domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&cust).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
	}
	return ok(c, cust)
}

func createCustomer(c echo.Context) error {
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer", err.Error())
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if strings.TrimSpace(payload.Name) == "" || !strings.Contains(payload.Email, "@") {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name and a valid email are required", nil)
	}

	var count int64
	GetDB(c).Model(&domain.Customer{}).Where("email = ?", payload.Email).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "DUPLICATE_EMAIL", "A customer with this email already exists", nil)
	}

	now := time.Now()
	cust := domain.Customer{
		ID:        common.UUIDint64(),
		Name:      strings.TrimSpace(payload.Name),
		Email:     payload.Email,
		Mobile:    strings.TrimSpace(payload.Mobile),
		City:      strings.TrimSpace(payload.City),
		Country:   strings.TrimSpace(payload.Country),
		Language:  payload.Language,
		Remark:    payload.Remark,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if cust.Language == "" {
		cust.Language = GetApp(c).GetSettingsStringValue("system", "DefaultLanguage")
	}
	if err := GetDB(c).Create(&cust).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer", err.Error())
	}
	oprLog(c, "customer_create", fmt.Sprintf("created customer %s", cust.Email))
	return ok(c, cust)
}

func updateCustomer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var cust domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&cust).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
	}

	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer", err.Error())
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if strings.TrimSpace(payload.Name) == "" || !strings.Contains(payload.Email, "@") {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name and a valid email are required", nil)
	}

	cust.Name = strings.TrimSpace(payload.Name)
	cust.Email = payload.Email
	cust.Mobile = strings.TrimSpace(payload.Mobile)
	cust.City = strings.TrimSpace(payload.City)
	cust.Country = strings.TrimSpace(payload.Country)
	if payload.Language != "" {
		cust.Language = payload.Language
	}
	cust.Remark = payload.Remark
	cust.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&cust).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update customer", err.Error())
	}
	oprLog(c, "customer_update", fmt.Sprintf("updated customer %s", cust.Email))
	return ok(c, cust)
}

func deleteCustomer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Customer{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete customer", err.Error())
	}
	oprLog(c, "customer_delete", fmt.Sprintf("deleted customer %d", id))
	return ok(c, map[string]interface{}{"deleted": 1})
}
