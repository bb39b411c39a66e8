package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-stay-booking/internal/application"
	"github.com/sanosuguru/go-stay-booking/internal/domain/property"
)

type PropertyHandler struct {
	service            PropertyServiceInterface
	reservationService ReservationServiceInterface
}

func NewPropertyHandler(s PropertyServiceInterface, rs ReservationServiceInterface) *PropertyHandler {
	return &PropertyHandler{service: s, reservationService: rs}
}

type CreatePropertyRequest struct {
	Title       string `json:"title" validate:"required" example:"海辺のコテージ"`
	Description string `json:"description" example:"海まで徒歩5分"`
	NightlyRate int64  `json:"nightly_rate" validate:"required,gt=0" example:"10000"`
}

type UpdatePropertyRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	NightlyRate int64  `json:"nightly_rate" validate:"required,gt=0"`
}

type PropertyResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	NightlyRate int64     `json:"nightly_rate"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AvailabilityResponse struct {
	PropertyID string `json:"property_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Available  bool   `json:"available"`
}

func toPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID: p.ID, OwnerID: p.OwnerID, Title: p.Title,
		Description: p.Description, NightlyRate: p.NightlyRate,
		Active: p.Active, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

// Create は物件を登録する
// 操作者（X-User-ID）がオーナーとなる
func (h *PropertyHandler) Create(c echo.Context) error {
	ownerID, err := actorID(c)
	if err != nil {
		return err
	}
	var req CreatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := h.service.CreateProperty(c.Request().Context(), application.CreatePropertyInput{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		NightlyRate: req.NightlyRate,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toPropertyResponse(p))
}

// GetByID は物件を取得する
func (h *PropertyHandler) GetByID(c echo.Context) error {
	p, err := h.service.GetProperty(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toPropertyResponse(p))
}

// List は物件一覧を取得する
func (h *PropertyHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	list, err := h.service.ListProperties(c.Request().Context(), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]PropertyResponse, len(list))
	for i, p := range list {
		resp[i] = toPropertyResponse(p)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update は物件情報を更新する（オーナーのみ）
func (h *PropertyHandler) Update(c echo.Context) error {
	hostID, err := actorID(c)
	if err != nil {
		return err
	}
	var req UpdatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := h.service.UpdateProperty(c.Request().Context(), application.UpdatePropertyInput{
		ID:          c.Param("id"),
		HostID:      hostID,
		Title:       req.Title,
		Description: req.Description,
		NightlyRate: req.NightlyRate,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toPropertyResponse(p))
}

// Deactivate は物件の予約受付を停止する（オーナーのみ）
func (h *PropertyHandler) Deactivate(c echo.Context) error {
	hostID, err := actorID(c)
	if err != nil {
		return err
	}
	p, err := h.service.DeactivateProperty(c.Request().Context(), c.Param("id"), hostID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toPropertyResponse(p))
}

// CheckAvailability は候補期間が予約可能かを返す
func (h *PropertyHandler) CheckAvailability(c echo.Context) error {
	propertyID := c.Param("id")
	checkIn := c.QueryParam("check_in")
	checkOut := c.QueryParam("check_out")
	if checkIn == "" || checkOut == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "check_in と check_out は必須です")
	}
	available, err := h.reservationService.CheckAvailability(c.Request().Context(), propertyID, checkIn, checkOut)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{
		PropertyID: propertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Available:  available,
	})
}

// ListReservations は物件の予約一覧を取得する（オーナーのみ）
func (h *PropertyHandler) ListReservations(c echo.Context) error {
	hostID, err := actorID(c)
	if err != nil {
		return err
	}
	list, err := h.reservationService.ListByProperty(c.Request().Context(), c.Param("id"), hostID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponses(list))
}
