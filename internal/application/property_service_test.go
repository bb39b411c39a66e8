package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-stay-booking/internal/domain/property"
	"github.com/sanosuguru/go-stay-booking/internal/domain/user"
)

func TestCreateProperty_Success(t *testing.T) {
	pr := new(MockPropertyRepository)
	ur := new(MockUserRepository)
	svc := NewPropertyService(pr, ur)
	ctx := context.Background()

	ur.On("GetByID", ctx, "host-1").Return(&user.User{ID: "host-1", Username: "host"}, nil)
	pr.On("Create", ctx, mock.MatchedBy(func(p *property.Property) bool {
		return p.OwnerID == "host-1" && p.Active
	})).Return(nil)

	p, err := svc.CreateProperty(ctx, CreatePropertyInput{
		OwnerID: "host-1", Title: "海辺のコテージ", NightlyRate: 10000,
	})
	require.NoError(t, err)
	assert.True(t, p.Active)
	assert.Equal(t, int64(10000), p.NightlyRate)
	pr.AssertExpectations(t)
}

func TestCreateProperty_OwnerNotFound(t *testing.T) {
	pr := new(MockPropertyRepository)
	ur := new(MockUserRepository)
	svc := NewPropertyService(pr, ur)
	ctx := context.Background()

	ur.On("GetByID", ctx, "missing").Return(nil, user.ErrUserNotFound)

	_, err := svc.CreateProperty(ctx, CreatePropertyInput{
		OwnerID: "missing", Title: "x", NightlyRate: 100,
	})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	pr.AssertNotCalled(t, "Create")
}

func TestCreateProperty_Validation(t *testing.T) {
	pr := new(MockPropertyRepository)
	ur := new(MockUserRepository)
	svc := NewPropertyService(pr, ur)
	ctx := context.Background()

	ur.On("GetByID", ctx, "host-1").Return(&user.User{ID: "host-1"}, nil)

	tests := []struct {
		name        string
		input       CreatePropertyInput
		errExpected error
	}{
		{name: "タイトル未指定", input: CreatePropertyInput{OwnerID: "host-1", NightlyRate: 100}, errExpected: property.ErrTitleRequired},
		{name: "1泊料金が0以下", input: CreatePropertyInput{OwnerID: "host-1", Title: "x", NightlyRate: 0}, errExpected: property.ErrInvalidNightlyRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProperty(ctx, tt.input)
			assert.ErrorIs(t, err, tt.errExpected)
		})
	}
}

func TestListProperties_LimitClamp(t *testing.T) {
	pr := new(MockPropertyRepository)
	svc := NewPropertyService(pr, new(MockUserRepository))
	ctx := context.Background()

	pr.On("List", ctx, 20, 0).Return([]*property.Property{}, nil).Once()
	_, err := svc.ListProperties(ctx, 0, -3)
	require.NoError(t, err)

	pr.On("List", ctx, 100, 10).Return([]*property.Property{}, nil).Once()
	_, err = svc.ListProperties(ctx, 500, 10)
	require.NoError(t, err)

	pr.AssertExpectations(t)
}

func TestUpdateProperty(t *testing.T) {
	pr := new(MockPropertyRepository)
	svc := NewPropertyService(pr, new(MockUserRepository))
	ctx := context.Background()

	pr.On("GetByID", ctx, "prop-1").Return(testProperty(), nil)
	pr.On("Update", ctx, mock.MatchedBy(func(p *property.Property) bool {
		return p.Title == "改装後のコテージ" && p.NightlyRate == 12000
	})).Return(nil)

	p, err := svc.UpdateProperty(ctx, UpdatePropertyInput{
		ID: "prop-1", HostID: "host-1",
		Title: "改装後のコテージ", NightlyRate: 12000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12000), p.NightlyRate)
}

func TestUpdateProperty_NotOwner(t *testing.T) {
	pr := new(MockPropertyRepository)
	svc := NewPropertyService(pr, new(MockUserRepository))
	ctx := context.Background()

	pr.On("GetByID", ctx, "prop-1").Return(testProperty(), nil)

	_, err := svc.UpdateProperty(ctx, UpdatePropertyInput{
		ID: "prop-1", HostID: "not-the-host", Title: "x", NightlyRate: 100,
	})
	assert.ErrorIs(t, err, property.ErrNotPropertyOwner)
	pr.AssertNotCalled(t, "Update")
}

func TestUpdateProperty_OptimisticLockConflict(t *testing.T) {
	pr := new(MockPropertyRepository)
	svc := NewPropertyService(pr, new(MockUserRepository))
	ctx := context.Background()

	pr.On("GetByID", ctx, "prop-1").Return(testProperty(), nil)
	pr.On("Update", ctx, mock.Anything).Return(property.ErrOptimisticLockConflict)

	_, err := svc.UpdateProperty(ctx, UpdatePropertyInput{
		ID: "prop-1", HostID: "host-1", Title: "x", NightlyRate: 100,
	})
	assert.ErrorIs(t, err, property.ErrOptimisticLockConflict)
}

func TestDeactivateProperty(t *testing.T) {
	pr := new(MockPropertyRepository)
	svc := NewPropertyService(pr, new(MockUserRepository))
	ctx := context.Background()

	pr.On("GetByID", ctx, "prop-1").Return(testProperty(), nil)
	pr.On("Update", ctx, mock.MatchedBy(func(p *property.Property) bool {
		return !p.Active
	})).Return(nil)

	p, err := svc.DeactivateProperty(ctx, "prop-1", "host-1")
	require.NoError(t, err)
	assert.False(t, p.Active)
}
