package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-stay-booking/internal/domain/property"
	"github.com/sanosuguru/go-stay-booking/internal/domain/reservation"
	"github.com/sanosuguru/go-stay-booking/internal/domain/user"
)

// toHTTPError はドメインエラーをHTTPステータスに変換する
// 404: 対象が存在しない
// 401: 操作する権限がない（本人・オーナー以外）
// 409: 並行操作との競合
// 400: それ以外のドメインルール違反
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, property.ErrPropertyNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, reservation.ErrNotReservationGuest),
		errors.Is(err, property.ErrNotPropertyOwner):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())

	case errors.Is(err, reservation.ErrBookingConflict),
		errors.Is(err, reservation.ErrStatusConflict),
		errors.Is(err, property.ErrOptimisticLockConflict),
		errors.Is(err, user.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, reservation.ErrDatesNotAvailable),
		errors.Is(err, reservation.ErrInvalidDateFormat),
		errors.Is(err, reservation.ErrCheckOutNotAfterCheckIn),
		errors.Is(err, reservation.ErrCheckInInPast),
		errors.Is(err, reservation.ErrStayTooShort),
		errors.Is(err, reservation.ErrCancellationTooLate),
		errors.Is(err, reservation.ErrReservationNotPending),
		errors.Is(err, reservation.ErrReservationAlreadyCancelled),
		errors.Is(err, reservation.ErrReservationCompleted),
		errors.Is(err, reservation.ErrGuestIDRequired),
		errors.Is(err, reservation.ErrPropertyIDRequired),
		errors.Is(err, reservation.ErrCheckInRequired),
		errors.Is(err, reservation.ErrCheckOutRequired),
		errors.Is(err, property.ErrPropertyNotBookable),
		errors.Is(err, property.ErrOwnerIDRequired),
		errors.Is(err, property.ErrTitleRequired),
		errors.Is(err, property.ErrInvalidNightlyRate),
		errors.Is(err, user.ErrUsernameRequired),
		errors.Is(err, user.ErrEmailRequired),
		errors.Is(err, user.ErrInvalidEmail):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
