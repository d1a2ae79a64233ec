package adminapi

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jam3ahq/jam3a/internal/app"
	"github.com/jam3ahq/jam3a/internal/domain"
	"github.com/jam3ahq/jam3a/internal/webserver"
	"github.com/jam3ahq/jam3a/pkg/common"
	"github.com/jam3ahq/jam3a/pkg/metrics"
)

type dealPayload struct {
	Title           string  `json:"title"`
	TitleAr         string  `json:"title_ar"`
	Description     string  `json:"description"`
	DescriptionAr   string  `json:"description_ar"`
	CategoryID      int64   `json:"category_id,string"`
	RegularPrice    float64 `json:"regular_price"`
	DealPrice       float64 `json:"deal_price"`
	DiscountPercent float64 `json:"discount_percent"`
	MaxParticipants int     `json:"max_participants"`
	ExpiresAt       string  `json:"expires_at"`
	Featured        bool    `json:"featured"`
	Image           string  `json:"image"`
	Status          string  `json:"status"`
}

func validateDealPayload(p *dealPayload) []string {
	var errs []string
	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, "title is required")
	}
	if p.CategoryID == 0 {
		errs = append(errs, "category is required")
	}
	if p.RegularPrice < 0 || p.DealPrice < 0 {
		errs = append(errs, "prices must be non-negative")
	}
	if p.DealPrice > p.RegularPrice {
		errs = append(errs, "deal price cannot exceed regular price")
	}
	if p.MaxParticipants <= 0 {
		errs = append(errs, "max participants must be positive")
	}
	if p.Status != "" && !domain.ValidDealStatus(p.Status) {
		errs = append(errs, "status must be one of active, pending, completed, cancelled")
	}
	return errs
}

// registerDealRoutes registers group-buying deal endpoints
func registerDealRoutes() {
	webserver.ApiGET("/deals", listDeals)
	webserver.ApiGET("/deals/featured", listFeaturedDeals)
	webserver.ApiGET("/deals/:id", getDeal)
	webserver.ApiPOST("/deals", createDeal)
	webserver.ApiPUT("/deals/:id", updateDeal)
	webserver.ApiDELETE("/deals/:id", deleteDeal)
	webserver.ApiPOST("/deals/:id/join", joinDeal)
}

var dealSortColumns = map[string]string{
	"id":               "id",
	"title":            "title",
	"deal_price":       "deal_price",
	"discount_percent": "discount_percent",
	"expires_at":       "expires_at",
	"created_at":       "created_at",
}

// ListDeals retrieves the deal list
// @Summary get the deal list
// @Tags Deals
// @Param page query int false "Page number"
// @Param perPage query int false "Items per page"
// @Param q query string false "Title search"
// @Param status query string false "Status filter"
// @Success 200 {object} ListResponse
// @Router /api/v1/deals [get]
func listDeals(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Deal{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = nameLike(db, "title", q)
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if catID := strings.TrimSpace(c.QueryParam("category_id")); catID != "" {
		db = db.Where("category_id = ?", catID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query deals", err.Error())
	}

	var rows []domain.Deal
	if err := db.Preload("Category").
		Order(parseSort(c, dealSortColumns)).
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query deals", err.Error())
	}

	now := time.Now()
	for i := range rows {
		rows[i].FillTimeLeft(now)
	}
	return paged(c, rows, total, page, perPage)
}

// listFeaturedDeals returns active featured deals as a bare array.
func listFeaturedDeals(c echo.Context) error {
	var rows []domain.Deal
	if err := GetDB(c).Preload("Category").
		Where("featured = ? and status = ?", true, domain.DealStatusActive).
		Order("expires_at ASC").Limit(20).
		Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query featured deals", err.Error())
	}
	now := time.Now()
	for i := range rows {
		rows[i].FillTimeLeft(now)
	}
	return ok(c, rows)
}

func getDeal(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid deal ID", nil)
	}
	var d domain.Deal
	if err := GetDB(c).Preload("Category").Where("id = ?", id).First(&d).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Deal not found", nil)
	}
	d.FillTimeLeft(time.Now())
	return ok(c, d)
}

func createDeal(c echo.Context) error {
	var payload dealPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse deal", err.Error())
	}
	if errs := validateDealPayload(&payload); len(errs) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Deal validation failed", errs)
	}

	expiresAt, err := dateparse.ParseIn(payload.ExpiresAt, time.Local)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse expires_at", err.Error())
	}

	status := payload.Status
	if status == "" {
		status = domain.DealStatusPending
	}
	discount := payload.DiscountPercent
	if discount == 0 && payload.RegularPrice > 0 {
		discount = math.Round((1-payload.DealPrice/payload.RegularPrice)*10000) / 100
	}

	now := time.Now()
	d := domain.Deal{
		ID:              common.UUIDint64(),
		Code:            "J3A-" + common.UUIDBase36(),
		Title:           strings.TrimSpace(payload.Title),
		TitleAr:         strings.TrimSpace(payload.TitleAr),
		Description:     strings.TrimSpace(payload.Description),
		DescriptionAr:   strings.TrimSpace(payload.DescriptionAr),
		CategoryID:      payload.CategoryID,
		RegularPrice:    payload.RegularPrice,
		DealPrice:       payload.DealPrice,
		DiscountPercent: discount,
		MaxParticipants: payload.MaxParticipants,
		ExpiresAt:       expiresAt,
		Featured:        payload.Featured,
		Image:           strings.TrimSpace(payload.Image),
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := GetDB(c).Create(&d).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create deal", err.Error())
	}
	oprLog(c, "deal_create", fmt.Sprintf("created deal %s (%s)", d.Code, d.Title))
	d.FillTimeLeft(now)
	return ok(c, d)
}

func updateDeal(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid deal ID", nil)
	}
	var d domain.Deal
	if err := GetDB(c).Where("id = ?", id).First(&d).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Deal not found", nil)
	}

	var payload dealPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse deal", err.Error())
	}
	if errs := validateDealPayload(&payload); len(errs) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Deal validation failed", errs)
	}
	if payload.Status != "" && !domain.ValidDealTransition(d.Status, payload.Status) {
		return fail(c, http.StatusBadRequest, "INVALID_STATUS",
			fmt.Sprintf("cannot move deal from %s to %s", d.Status, payload.Status), nil)
	}

	if payload.ExpiresAt != "" {
		expiresAt, perr := dateparse.ParseIn(payload.ExpiresAt, time.Local)
		if perr != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse expires_at", perr.Error())
		}
		d.ExpiresAt = expiresAt
	}

	d.Title = strings.TrimSpace(payload.Title)
	d.TitleAr = strings.TrimSpace(payload.TitleAr)
	d.Description = strings.TrimSpace(payload.Description)
	d.DescriptionAr = strings.TrimSpace(payload.DescriptionAr)
	d.CategoryID = payload.CategoryID
	d.RegularPrice = payload.RegularPrice
	d.DealPrice = payload.DealPrice
	if payload.DiscountPercent > 0 {
		d.DiscountPercent = payload.DiscountPercent
	}
	d.MaxParticipants = payload.MaxParticipants
	d.Featured = payload.Featured
	d.Image = strings.TrimSpace(payload.Image)
	if payload.Status != "" {
		d.Status = payload.Status
	}
	d.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&d).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update deal", err.Error())
	}
	oprLog(c, "deal_update", fmt.Sprintf("updated deal %s", d.Code))
	d.FillTimeLeft(time.Now())
	return ok(c, d)
}

func deleteDeal(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid deal ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Deal{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete deal", err.Error())
	}
	GetDB(c).Where("deal_id = ?", id).Delete(&domain.DealParticipant{})
	oprLog(c, "deal_delete", fmt.Sprintf("deleted deal %d", id))
	return ok(c, map[string]interface{}{"id": strconv.FormatInt(id, 10)})
}

type joinPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type joinResponse struct {
	Joined        bool        `json:"joined"`
	AlreadyJoined bool        `json:"already_joined"`
	Deal          domain.Deal `json:"deal"`
}

// joinDeal adds a participant to an active deal. The participant row is
// unique per (deal, email) so repeat calls are idempotent; the counter is
// incremented with a guarded UPDATE so two concurrent joins cannot
// overshoot MaxParticipants. Filling the deal completes it and publishes
// the completion event.
func joinDeal(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid deal ID", nil)
	}
	var payload joinPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse join request", err.Error())
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || !strings.Contains(payload.Email, "@") {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "A valid email is required", nil)
	}

	db := GetDB(c)
	var completedDeal *domain.Deal
	alreadyJoined := false

	txErr := db.Transaction(func(tx *gorm.DB) error {
		var deal domain.Deal
		if err := tx.Where("id = ?", id).First(&deal).Error; err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "deal not found")
		}
		if deal.Status != domain.DealStatusActive {
			return echo.NewHTTPError(http.StatusConflict, "deal is not active")
		}
		if deal.ExpiresAt.Before(time.Now()) {
			return echo.NewHTTPError(http.StatusConflict, "deal has expired")
		}

		var existing domain.DealParticipant
		err := tx.Where("deal_id = ? and email = ?", id, payload.Email).First(&existing).Error
		if err == nil {
			alreadyJoined = true
			return nil
		}

		if err := tx.Create(&domain.DealParticipant{
			ID:        common.UUIDint64(),
			DealID:    id,
			Email:     payload.Email,
			Name:      strings.TrimSpace(payload.Name),
			CreatedAt: time.Now(),
		}).Error; err != nil {
			return err
		}

		result := tx.Model(&domain.Deal{}).
			Where("id = ? and status = ? and current_participants < max_participants",
				id, domain.DealStatusActive).
			UpdateColumn("current_participants", gorm.Expr("current_participants + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return echo.NewHTTPError(http.StatusConflict, "deal is already full")
		}

		if err := tx.Where("id = ?", id).First(&deal).Error; err != nil {
			return err
		}
		if deal.CurrentParticipants >= deal.MaxParticipants {
			if err := tx.Model(&domain.Deal{}).Where("id = ?", id).
				Updates(map[string]interface{}{
					"status":     domain.DealStatusCompleted,
					"updated_at": time.Now(),
				}).Error; err != nil {
				return err
			}
			deal.Status = domain.DealStatusCompleted
			completedDeal = &deal
		}
		return nil
	})

	if txErr != nil {
		if he, isHTTP := txErr.(*echo.HTTPError); isHTTP {
			return fail(c, he.Code, "JOIN_REJECTED", fmt.Sprintf("%v", he.Message), nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to join deal", txErr.Error())
	}

	if completedDeal != nil {
		GetApp(c).Bus().Publish(app.EventDealCompleted, *completedDeal)
	}
	metrics.IncrCounter("deal_joins_total", 1)

	var deal domain.Deal
	if err := db.Preload("Category").Where("id = ?", id).First(&deal).Error; err == nil {
		deal.FillTimeLeft(time.Now())
	}
	return ok(c, joinResponse{Joined: !alreadyJoined, AlreadyJoined: alreadyJoined, Deal: deal})
}
