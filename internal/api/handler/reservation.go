package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-stay-booking/internal/application"
	"github.com/sanosuguru/go-stay-booking/internal/domain/reservation"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type CreateReservationRequest struct {
	PropertyID string `json:"property_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	CheckIn    string `json:"check_in" validate:"required" example:"2026-06-01"`
	CheckOut   string `json:"check_out" validate:"required" example:"2026-06-05"`
}

type GuestResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PropertySummaryResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	NightlyRate int64  `json:"nightly_rate"`
}

type ReservationResponse struct {
	ID         string                  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Guest      GuestResponse           `json:"guest"`
	Property   PropertySummaryResponse `json:"property"`
	CheckIn    string                  `json:"check_in" example:"2026-06-01"`
	CheckOut   string                  `json:"check_out" example:"2026-06-05"`
	Nights     int                     `json:"nights" example:"4"`
	TotalPrice int64                   `json:"total_price" example:"44000"`
	Status     string                  `json:"status" example:"pending"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

func toReservationResponse(p *application.ReservationProjection) ReservationResponse {
	r := p.Reservation
	return ReservationResponse{
		ID: r.ID,
		Guest: GuestResponse{
			ID: p.Guest.ID, Name: p.Guest.Name, Email: p.Guest.Email,
		},
		Property: PropertySummaryResponse{
			ID: p.Property.ID, Title: p.Property.Title, NightlyRate: p.Property.NightlyRate,
		},
		CheckIn:    r.CheckIn.Format(reservation.DateLayout),
		CheckOut:   r.CheckOut.Format(reservation.DateLayout),
		Nights:     r.Nights(),
		TotalPrice: r.TotalPrice,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toReservationResponses(list []*application.ReservationProjection) []ReservationResponse {
	resp := make([]ReservationResponse, len(list))
	for i, p := range list {
		resp[i] = toReservationResponse(p)
	}
	return resp
}

// actorID は X-User-ID ヘッダーから操作者を取り出す
func actorID(c echo.Context) (string, error) {
	id := c.Request().Header.Get("X-User-ID")
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	return id, nil
}

// Create は予約を作成する
// 操作者（X-User-ID）がゲストとなる
func (h *ReservationHandler) Create(c echo.Context) error {
	guestID, err := actorID(c)
	if err != nil {
		return err
	}
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	proj, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		GuestID:    guestID,
		PropertyID: req.PropertyID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(proj))
}

// GetByID は予約を取得する
func (h *ReservationHandler) GetByID(c echo.Context) error {
	proj, err := h.service.GetReservation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(proj))
}

// ListMine は操作者自身の予約一覧を取得する
func (h *ReservationHandler) ListMine(c echo.Context) error {
	guestID, err := actorID(c)
	if err != nil {
		return err
	}
	list, err := h.service.ListByGuest(c.Request().Context(), guestID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponses(list))
}

// Confirm は保留中の予約を確定する
// 物件のオーナー（ホスト）のみが実行できる
func (h *ReservationHandler) Confirm(c echo.Context) error {
	hostID, err := actorID(c)
	if err != nil {
		return err
	}
	proj, err := h.service.ConfirmReservation(c.Request().Context(), c.Param("id"), hostID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(proj))
}

// Cancel は予約をキャンセルする
// ゲスト本人のみ、チェックインの丸1日前まで
func (h *ReservationHandler) Cancel(c echo.Context) error {
	guestID, err := actorID(c)
	if err != nil {
		return err
	}
	proj, err := h.service.CancelReservation(c.Request().Context(), c.Param("id"), guestID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(proj))
}
