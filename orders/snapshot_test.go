package orders

import (
	"testing"

	"sewago/cart"
	"sewago/models"
	"sewago/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCopiesDisplayFields(t *testing.T) {
	priced := []cart.PricedItem{
		{
			CartItem:    models.CartItem{ProductID: "p1", Quantity: 2, SelectedUnits: 3},
			ProductName: "Deep Cleaning",
			Image:       []string{"a.jpg"},
			UnitLabel:   "hour",
			Quote:       pricing.Quote{Final: 450},
		},
		{
			CartItem:    models.CartItem{ProductID: "p2", Quantity: 1},
			ProductName: "Sofa Repair",
		},
	}

	snap := Snapshot(priced)
	require.Len(t, snap, 2)

	assert.Equal(t, "p1", snap[0].ProductID)
	assert.Equal(t, "Deep Cleaning", snap[0].Name)
	assert.Equal(t, []string{"a.jpg"}, snap[0].Image)
	assert.Equal(t, 2, snap[0].Quantity)
	assert.Equal(t, "hour", snap[0].Unit)

	assert.Equal(t, "Sofa Repair", snap[1].Name)
	assert.Equal(t, "", snap[1].Unit)
}

func TestWorkerRoleGate(t *testing.T) {
	worker := &models.User{UserID: "w1", Role: []string{"user", models.RoleWorker}}
	customer := &models.User{UserID: "c1", Role: []string{"user"}}

	assert.True(t, worker.HasRole(models.RoleWorker))
	assert.False(t, customer.HasRole(models.RoleWorker))
}
