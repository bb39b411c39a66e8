package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-stay-booking/internal/application"
	"github.com/sanosuguru/go-stay-booking/internal/domain/reservation"
)

// MockReservationService はReservationServiceInterfaceのモック
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateReservation(ctx context.Context, input application.CreateReservationInput) (*application.ReservationProjection, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.ReservationProjection), args.Error(1)
}

func (m *MockReservationService) GetReservation(ctx context.Context, id string) (*application.ReservationProjection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.ReservationProjection), args.Error(1)
}

func (m *MockReservationService) ListByGuest(ctx context.Context, guestID string) ([]*application.ReservationProjection, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*application.ReservationProjection), args.Error(1)
}

func (m *MockReservationService) ListByProperty(ctx context.Context, propertyID, hostID string) ([]*application.ReservationProjection, error) {
	args := m.Called(ctx, propertyID, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*application.ReservationProjection), args.Error(1)
}

func (m *MockReservationService) ListActiveByProperty(ctx context.Context, propertyID string) ([]*application.ReservationProjection, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*application.ReservationProjection), args.Error(1)
}

func (m *MockReservationService) ConfirmReservation(ctx context.Context, reservationID, hostID string) (*application.ReservationProjection, error) {
	args := m.Called(ctx, reservationID, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.ReservationProjection), args.Error(1)
}

func (m *MockReservationService) CancelReservation(ctx context.Context, reservationID, guestID string) (*application.ReservationProjection, error) {
	args := m.Called(ctx, reservationID, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.ReservationProjection), args.Error(1)
}

func (m *MockReservationService) CheckAvailability(ctx context.Context, propertyID, checkIn, checkOut string) (bool, error) {
	args := m.Called(ctx, propertyID, checkIn, checkOut)
	return args.Bool(0), args.Error(1)
}

func sampleProjection(status reservation.Status) *application.ReservationProjection {
	checkIn, _ := reservation.ParseDate("2026-06-01")
	checkOut, _ := reservation.ParseDate("2026-06-05")
	now := time.Now()
	return &application.ReservationProjection{
		Reservation: &reservation.Reservation{
			ID: "res-123", GuestID: "user-123", PropertyID: "prop-123",
			CheckIn: checkIn, CheckOut: checkOut,
			TotalPrice: 44000, Status: status,
			CreatedAt: now, UpdatedAt: now,
		},
		Guest:    application.GuestSummary{ID: "user-123", Name: "taro", Email: "taro@example.com"},
		Property: application.PropertySummary{ID: "prop-123", Title: "海辺のコテージ", NightlyRate: 10000},
	}
}

func TestReservationHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に予約を作成できる", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("CreateReservation", mock.Anything, application.CreateReservationInput{
			GuestID: "user-123", PropertyID: "prop-123",
			CheckIn: "2026-06-01", CheckOut: "2026-06-05",
		}).Return(sampleProjection(reservation.StatusPending), nil)

		h := NewReservationHandler(mockService)
		body := `{"property_id":"prop-123","check_in":"2026-06-01","check_out":"2026-06-05"}`
		req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.Create(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp ReservationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "res-123", resp.ID)
		assert.Equal(t, "2026-06-01", resp.CheckIn)
		assert.Equal(t, 4, resp.Nights)
		assert.Equal(t, int64(44000), resp.TotalPrice)
		assert.Equal(t, "pending", resp.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("ユーザーIDヘッダーがない場合は401", func(t *testing.T) {
		h := NewReservationHandler(new(MockReservationService))
		body := `{"property_id":"prop-123","check_in":"2026-06-01","check_out":"2026-06-05"}`
		req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.Create(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("必須フィールドがない場合は400", func(t *testing.T) {
		h := NewReservationHandler(new(MockReservationService))
		body := `{"property_id":"prop-123"}`
		req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.Create(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})

	t.Run("期間が埋まっている場合は400", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("CreateReservation", mock.Anything, mock.Anything).
			Return(nil, reservation.ErrDatesNotAvailable)

		h := NewReservationHandler(mockService)
		body := `{"property_id":"prop-123","check_in":"2026-06-01","check_out":"2026-06-05"}`
		req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.Create(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})

	t.Run("並行予約に負けた場合は409", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("CreateReservation", mock.Anything, mock.Anything).
			Return(nil, reservation.ErrBookingConflict)

		h := NewReservationHandler(mockService)
		body := `{"property_id":"prop-123","check_in":"2026-06-01","check_out":"2026-06-05"}`
		req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.Create(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})
}

func TestReservationHandler_GetByID(t *testing.T) {
	e := NewTestEcho()

	t.Run("予約を取得できる", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("GetReservation", mock.Anything, "res-123").
			Return(sampleProjection(reservation.StatusConfirmed), nil)

		h := NewReservationHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/reservations/res-123", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-123")

		err := h.GetByID(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ReservationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "confirmed", resp.Status)
		assert.Equal(t, "海辺のコテージ", resp.Property.Title)
	})

	t.Run("存在しない予約は404", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("GetReservation", mock.Anything, "missing").
			Return(nil, reservation.ErrReservationNotFound)

		h := NewReservationHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/reservations/missing", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("missing")

		err := h.GetByID(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestReservationHandler_Cancel(t *testing.T) {
	e := NewTestEcho()

	t.Run("予約をキャンセルできる", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("CancelReservation", mock.Anything, "res-123", "user-123").
			Return(sampleProjection(reservation.StatusCancelled), nil)

		h := NewReservationHandler(mockService)
		req := httptest.NewRequest(http.MethodPost, "/reservations/res-123/cancel", nil)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-123")

		err := h.Cancel(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ReservationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "cancelled", resp.Status)
	})

	t.Run("他人の予約のキャンセルは401", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("CancelReservation", mock.Anything, "res-123", "other-user").
			Return(nil, reservation.ErrNotReservationGuest)

		h := NewReservationHandler(mockService)
		req := httptest.NewRequest(http.MethodPost, "/reservations/res-123/cancel", nil)
		req.Header.Set("X-User-ID", "other-user")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-123")

		err := h.Cancel(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("キャンセル期限超過は400", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("CancelReservation", mock.Anything, "res-123", "user-123").
			Return(nil, reservation.ErrCancellationTooLate)

		h := NewReservationHandler(mockService)
		req := httptest.NewRequest(http.MethodPost, "/reservations/res-123/cancel", nil)
		req.Header.Set("X-User-ID", "user-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-123")

		err := h.Cancel(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

func TestReservationHandler_Confirm(t *testing.T) {
	e := NewTestEcho()

	t.Run("ホストが予約を確定できる", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("ConfirmReservation", mock.Anything, "res-123", "host-123").
			Return(sampleProjection(reservation.StatusConfirmed), nil)

		h := NewReservationHandler(mockService)
		req := httptest.NewRequest(http.MethodPost, "/reservations/res-123/confirm", nil)
		req.Header.Set("X-User-ID", "host-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-123")

		err := h.Confirm(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("状態遷移の競合は409", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("ConfirmReservation", mock.Anything, "res-123", "host-123").
			Return(nil, reservation.ErrStatusConflict)

		h := NewReservationHandler(mockService)
		req := httptest.NewRequest(http.MethodPost, "/reservations/res-123/confirm", nil)
		req.Header.Set("X-User-ID", "host-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-123")

		err := h.Confirm(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})
}

func TestReservationHandler_ListMine(t *testing.T) {
	e := NewTestEcho()

	mockService := new(MockReservationService)
	mockService.On("ListByGuest", mock.Anything, "user-123").
		Return([]*application.ReservationProjection{sampleProjection(reservation.StatusPending)}, nil)

	h := NewReservationHandler(mockService)
	req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListMine(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "res-123", resp[0].ID)
}
