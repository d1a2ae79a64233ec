package adminapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jam3ahq/jam3a/internal/app"
	"github.com/jam3ahq/jam3a/internal/domain"
	"github.com/jam3ahq/jam3a/pkg/common"
)

// ErrorResponse is the standard failure envelope.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

// ListResponse is the standard paged list envelope.
type ListResponse struct {
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"perPage"`
}

// GetDB returns the request-scoped gorm handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get("db").(*gorm.DB)
}

// GetApp returns the request-scoped application context.
func GetApp(c echo.Context) app.AppContext {
	return c.Get("app").(app.AppContext)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, ErrorResponse{Code: code, Message: message, Detail: detail})
}

func paged(c echo.Context, rows interface{}, total int64, page, perPage int) error {
	return c.JSON(http.StatusOK, ListResponse{Data: rows, Total: total, Page: page, PerPage: perPage})
}

// parsePagination reads page/perPage query params with bounds applied.
func parsePagination(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("perPage"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 500 {
		perPage = 20
	}
	return page, perPage
}

// parseSort validates the sort field against a whitelist to avoid SQL
// injection through the order clause.
func parseSort(c echo.Context, allowed map[string]string) string {
	sortCol, okCol := allowed[strings.TrimSpace(c.QueryParam("sort"))]
	if !okCol || sortCol == "" {
		sortCol = "id"
	}
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	return sortCol + " " + order
}

// nameLike appends a case-insensitive LIKE filter, using ILIKE on postgres.
func nameLike(db *gorm.DB, column, q string) *gorm.DB {
	if strings.EqualFold(db.Name(), "postgres") {
		return db.Where(column+" ILIKE ?", "%"+q+"%")
	}
	return db.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(q)+"%")
}

// parseID parses a path param into an int64 entity ID.
func parseID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// parseIDList converts string IDs (the wire form of int64 IDs) to int64s,
// silently skipping malformed entries.
func parseIDList(ids []string) []int64 {
	out := make([]int64, 0, len(ids))
	for _, s := range ids {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// oprLog appends an operator audit row; failures only get logged.
func oprLog(c echo.Context, action, desc string) {
	db := GetDB(c)
	entry := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   "admin",
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	_ = db.Create(&entry).Error
}

// Init registers all admin API routes. Must be called after webserver.Init.
func Init() {
	registerAuthRoutes()
	registerProductRoutes()
	registerDealRoutes()
	registerAnalyticsRoutes()
	registerCustomerRoutes()
}
