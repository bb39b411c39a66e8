package handler

import (
	"context"

	"github.com/sanosuguru/go-stay-booking/internal/application"
	"github.com/sanosuguru/go-stay-booking/internal/domain/property"
	"github.com/sanosuguru/go-stay-booking/internal/domain/user"
)

// UserServiceInterface はユーザーサービスのインターフェース
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, input application.RegisterUserInput) (*user.User, error)
	GetUser(ctx context.Context, id string) (*user.User, error)
}

// PropertyServiceInterface は物件サービスのインターフェース
type PropertyServiceInterface interface {
	CreateProperty(ctx context.Context, input application.CreatePropertyInput) (*property.Property, error)
	GetProperty(ctx context.Context, id string) (*property.Property, error)
	ListProperties(ctx context.Context, limit, offset int) ([]*property.Property, error)
	UpdateProperty(ctx context.Context, input application.UpdatePropertyInput) (*property.Property, error)
	DeactivateProperty(ctx context.Context, id, hostID string) (*property.Property, error)
}

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*application.ReservationProjection, error)
	GetReservation(ctx context.Context, id string) (*application.ReservationProjection, error)
	ListByGuest(ctx context.Context, guestID string) ([]*application.ReservationProjection, error)
	ListByProperty(ctx context.Context, propertyID, hostID string) ([]*application.ReservationProjection, error)
	ListActiveByProperty(ctx context.Context, propertyID string) ([]*application.ReservationProjection, error)
	ConfirmReservation(ctx context.Context, reservationID, hostID string) (*application.ReservationProjection, error)
	CancelReservation(ctx context.Context, reservationID, guestID string) (*application.ReservationProjection, error)
	CheckAvailability(ctx context.Context, propertyID, checkIn, checkOut string) (bool, error)
}
