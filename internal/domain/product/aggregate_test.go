package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/oms-backend/internal/infrastructure/store/mocks"
)

func TestService_Create(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())

	p, err := svc.Create(context.Background(), "staff-1", "Widget", "A widget", "tools", 1000, 10)

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "staff-1", p.OwnerID)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, "tools", p.Category)
	assert.Equal(t, 1000, p.Price)
	assert.Equal(t, 1, p.Version)
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, "staff-1", "", "", "", 100, 1)
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(ctx, "staff-1", "Widget", "", "", -1, 1)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = svc.Create(ctx, "staff-1", "Widget", "", "", 100, -1)
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestService_Create_FreeProductAllowed(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())

	p, err := svc.Create(context.Background(), "staff-1", "Sample", "", "", 0, 5)

	require.NoError(t, err)
	assert.Equal(t, 0, p.Price)
}

func TestService_Update(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())
	ctx := context.Background()

	p, err := svc.Create(ctx, "staff-1", "Widget", "A widget", "tools", 1000, 10)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, "Widget v2", "Improved", "tools", 1200)

	require.NoError(t, err)
	assert.Equal(t, "Widget v2", updated.Name)
	assert.Equal(t, 1200, updated.Price)
	assert.Equal(t, 2, updated.Version)
}

func TestService_Update_NotFound(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())

	_, err := svc.Update(context.Background(), "missing", "Widget", "", "", 100)

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_Delete(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())
	ctx := context.Background()

	p, err := svc.Create(ctx, "staff-1", "Widget", "", "", 1000, 10)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductDeleted)
}
