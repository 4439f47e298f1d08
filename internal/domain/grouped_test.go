package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupedOrders_PreservesArrivalOrder(t *testing.T) {
	g := NewGroupedOrders()
	g.Append(OrderRow{OrderID: 5, MenuName: "A"})
	g.Append(OrderRow{OrderID: 7, MenuName: "C"})
	g.Append(OrderRow{OrderID: 5, MenuName: "B"})

	assert.Equal(t, []uint64{5, 7}, g.OrderIDs())
	assert.Equal(t, 2, g.Len())

	rows := g.Rows(5)
	assert.Equal(t, "A", rows[0].MenuName)
	assert.Equal(t, "B", rows[1].MenuName)

	assert.Nil(t, g.Rows(99))
}
