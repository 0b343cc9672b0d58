package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository/memory"
)

func TestDemoParses(t *testing.T) {
	t.Parallel()

	ds, err := Demo()
	require.NoError(t, err)

	assert.Len(t, ds.Assets, 18)
	assert.Len(t, ds.Fleet, 8)
	assert.Len(t, ds.WorkOrders, 12)
	assert.Len(t, ds.SpareParts, 33)
	assert.Len(t, ds.Warehouses, 10)
	assert.Len(t, ds.Plans, 5)
	assert.Equal(t, "Demo Company Ltd.", ds.Company.Name)

	pump := ds.Assets[0]
	assert.Equal(t, "AST001", pump.ID)
	assert.Equal(t, "2020-03-15", pump.PurchaseDate.String())
	assert.Equal(t, 45000.0, pump.PurchaseCost)

	wo := ds.WorkOrders[0]
	assert.Equal(t, 430.0, wo.PartsCost())
	require.NotNil(t, wo.CompletedDate)
	assert.Equal(t, model.WorkOrderInProgress, ds.WorkOrders[1].Status)

	truck := ds.Fleet[3]
	assert.Equal(t, model.FleetStatusInWorkshop, truck.Status)
	assert.Equal(t, "Depok", truck.LastKnownLocation.City)
	assert.False(t, truck.LastGPSTimestamp.IsZero())
}

func TestLoadDemoIfEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.New()

	loaded, err := LoadDemoIfEmpty(ctx, store)
	require.NoError(t, err)
	assert.True(t, loaded)

	loaded, err = LoadDemoIfEmpty(ctx, store)
	require.NoError(t, err)
	assert.False(t, loaded)

	seal, err := store.Parts().GetByID(ctx, "SP001")
	require.NoError(t, err)
	assert.Equal(t, 12, seal.CurrentStock)

	movements, err := store.Movements().List(ctx, model.MovementFilter{PartID: "SP001"})
	require.NoError(t, err)
	assert.Len(t, movements, 2)

	wo, err := store.WorkOrders().GetByID(ctx, "WO001")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10T09:00:00Z", wo.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"))

	unread, err := store.Notifications().List(ctx, model.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 5)

	company, err := store.Settings().Company(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jakarta", company.City)
}
