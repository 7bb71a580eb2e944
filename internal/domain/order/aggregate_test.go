package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/oms-backend/internal/infrastructure/store"
	"github.com/example/oms-backend/internal/infrastructure/store/mocks"
)

func testItems() []Item {
	return []Item{
		{ProductID: "prod-1", ProductName: "Widget", Quantity: 2, UnitPrice: 500, LineTotal: 1000},
	}
}

func testAddress() ShippingAddress {
	return ShippingAddress{Address: "1 Main St", State: "CA"}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{StatusPlaced, StatusPicked, true},
		{StatusPlaced, StatusCancelled, true},
		{StatusPlaced, StatusShipped, false},
		{StatusPicked, StatusShipped, true},
		{StatusPicked, StatusCancelled, true},
		{StatusPicked, StatusPlaced, false},
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusPicked, false},
		{StatusCancelled, StatusPicked, false},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestService_Place(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())

	o, err := svc.Place(context.Background(), "cust-1", testItems(), testAddress(), "leave at door")

	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "cust-1", o.CustomerID)
	assert.Equal(t, StatusPlaced, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.False(t, o.PaymentCollected)
	assert.Equal(t, 1000, o.Total)
	assert.Equal(t, "CA", o.ShippingAddress.State)
	assert.Equal(t, "leave at door", o.Notes)
	assert.Equal(t, 1, o.Version)
	require.Len(t, o.StatusHistory, 1)
	assert.Equal(t, StatusPlaced, o.StatusHistory[0].Status)
	assert.Equal(t, "cust-1", o.StatusHistory[0].UpdatedBy)
}

func TestService_Place_NoItems(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())

	_, err := svc.Place(context.Background(), "cust-1", nil, testAddress(), "")

	assert.ErrorIs(t, err, ErrNoItems)
}

func TestService_Get_NotFound(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())

	_, err := svc.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestService_MarkPaid(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())
	ctx := context.Background()

	o, err := svc.Place(ctx, "cust-1", testItems(), testAddress(), "")
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, o.ID)

	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, paid.PaymentStatus)
	assert.False(t, paid.PaymentCollected)
	assert.Equal(t, StatusPlaced, paid.Status)
	// Payment is not a fulfillment transition, no history entry
	assert.Len(t, paid.StatusHistory, 1)
	assert.Equal(t, 2, paid.Version)
}

func TestService_MarkPaid_AfterPickAllowed(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())
	ctx := context.Background()

	o, err := svc.Place(ctx, "cust-1", testItems(), testAddress(), "")
	require.NoError(t, err)
	_, err = svc.Pick(ctx, o.ID, "staff-1")
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, o.ID)

	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, StatusPicked, paid.Status)
}

func TestService_Pick(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())
	ctx := context.Background()

	o, err := svc.Place(ctx, "cust-1", testItems(), testAddress(), "")
	require.NoError(t, err)

	picked, err := svc.Pick(ctx, o.ID, "staff-1")

	require.NoError(t, err)
	assert.Equal(t, StatusPicked, picked.Status)
	assert.Equal(t, PaymentFulfilled, picked.PaymentStatus)
	assert.True(t, picked.PaymentCollected)
	require.Len(t, picked.StatusHistory, 2)
	assert.Equal(t, "staff-1", picked.StatusHistory[1].UpdatedBy)
}

func TestService_Pick_Twice(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())
	ctx := context.Background()

	o, err := svc.Place(ctx, "cust-1", testItems(), testAddress(), "")
	require.NoError(t, err)

	_, err = svc.Pick(ctx, o.ID, "staff-1")
	require.NoError(t, err)

	_, err = svc.Pick(ctx, o.ID, "staff-2")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_Ship_RequiresPicked(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())
	ctx := context.Background()

	o, err := svc.Place(ctx, "cust-1", testItems(), testAddress(), "")
	require.NoError(t, err)

	_, err = svc.Ship(ctx, o.ID, "staff-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Pick(ctx, o.ID, "staff-1")
	require.NoError(t, err)

	shipped, err := svc.Ship(ctx, o.ID, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, shipped.Status)
}

func TestService_Cancel_ReturnsPriorStatus(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())
	ctx := context.Background()

	o, err := svc.Place(ctx, "cust-1", testItems(), testAddress(), "")
	require.NoError(t, err)
	_, err = svc.Pick(ctx, o.ID, "staff-1")
	require.NoError(t, err)

	cancelled, prior, err := svc.Cancel(ctx, o.ID, "cust-1")

	require.NoError(t, err)
	assert.Equal(t, StatusPicked, prior)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, PaymentCancelled, cancelled.PaymentStatus)
	assert.False(t, cancelled.PaymentCollected)
}

func TestService_Cancel_TerminalStatesRejected(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())
	ctx := context.Background()

	o, err := svc.Place(ctx, "cust-1", testItems(), testAddress(), "")
	require.NoError(t, err)
	_, err = svc.Pick(ctx, o.ID, "staff-1")
	require.NoError(t, err)
	_, err = svc.Ship(ctx, o.ID, "staff-1")
	require.NoError(t, err)

	_, _, err = svc.Cancel(ctx, o.ID, "cust-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_Cancel_Twice(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())
	ctx := context.Background()

	o, err := svc.Place(ctx, "cust-1", testItems(), testAddress(), "")
	require.NoError(t, err)

	_, prior, err := svc.Cancel(ctx, o.ID, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, StatusPlaced, prior)

	_, _, err = svc.Cancel(ctx, o.ID, "cust-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_Pick_VersionConflict(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	svc := NewService(eventStore)
	ctx := context.Background()

	o, err := svc.Place(ctx, "cust-1", testItems(), testAddress(), "")
	require.NoError(t, err)

	eventStore.AppendCallback = func(cbCtx context.Context, aggregateID, aggregateType, eventType string, data any, expectedVersion int) (*store.Event, error) {
		return nil, store.ErrVersionConflict
	}

	_, err = svc.Pick(ctx, o.ID, "staff-1")
	assert.ErrorIs(t, err, store.ErrVersionConflict)
}

func TestOrder_HasItem(t *testing.T) {
	o := &Order{Items: testItems()}

	assert.True(t, o.HasItem("prod-1"))
	assert.False(t, o.HasItem("prod-2"))
}

func TestOrder_RebuildFromEvents(t *testing.T) {
	svc := NewService(mocks.NewMockEventStore())
	ctx := context.Background()

	o, err := svc.Place(ctx, "cust-1", testItems(), testAddress(), "")
	require.NoError(t, err)
	_, err = svc.MarkPaid(ctx, o.ID)
	require.NoError(t, err)
	_, err = svc.Pick(ctx, o.ID, "staff-1")
	require.NoError(t, err)

	rebuilt, err := svc.Get(ctx, o.ID)

	require.NoError(t, err)
	assert.Equal(t, StatusPicked, rebuilt.Status)
	assert.Equal(t, 3, rebuilt.Version)
	assert.Equal(t, o.Items, rebuilt.Items)
	require.Len(t, rebuilt.StatusHistory, 2)
}
