package domain

// GroupedOrders maps an order id to that order's line rows. It remembers the
// order in which order ids were first appended, so grouping does not depend on
// any sort guarantee from the data layer.
type GroupedOrders struct {
	ids  []uint64
	rows map[uint64][]OrderRow
}

func NewGroupedOrders() *GroupedOrders {
	return &GroupedOrders{rows: make(map[uint64][]OrderRow)}
}

// Append adds a row to its order's sequence, registering the order id on
// first sight. Row order within an order is the append order.
func (g *GroupedOrders) Append(row OrderRow) {
	if _, ok := g.rows[row.OrderID]; !ok {
		g.ids = append(g.ids, row.OrderID)
	}
	g.rows[row.OrderID] = append(g.rows[row.OrderID], row)
}

// Rows returns the line rows of one order, or nil if the order is unknown.
func (g *GroupedOrders) Rows(orderID uint64) []OrderRow {
	return g.rows[orderID]
}

// OrderIDs returns the order ids in first-seen order.
func (g *GroupedOrders) OrderIDs() []uint64 {
	return g.ids
}

func (g *GroupedOrders) Len() int {
	return len(g.ids)
}
