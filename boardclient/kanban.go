package boardclient

// KanbanBoard mirrors the order-status board. Column membership is always
// re-derived from the full order list, so a move is one PATCH followed by a
// refetch; there is no per-column card ordering to maintain.
type KanbanBoard struct {
	client *Client
	stages []Stage
	orders []Order
}

// NewKanbanBoard creates an empty board bound to an API client
func NewKanbanBoard(client *Client) *KanbanBoard {
	return &KanbanBoard{client: client}
}

// Load fetches the stage catalog and the active orders
func (b *KanbanBoard) Load() error {
	stages, err := b.client.FetchStages()
	if err != nil {
		return err
	}
	orders, err := b.client.FetchOrders()
	if err != nil {
		return err
	}
	b.stages = stages
	b.orders = orders
	return nil
}

// Stages returns the board's columns in display order
func (b *KanbanBoard) Stages() []Stage {
	return b.stages
}

// Column derives the orders currently sitting in a stage
func (b *KanbanBoard) Column(stageID string) []Order {
	var column []Order
	for _, o := range b.orders {
		if o.Status == stageID {
			column = append(column, o)
		}
	}
	return column
}

// MoveOrder drags an order into another column: exactly one status PATCH,
// then a refetch of authoritative state. A failed PATCH leaves local state
// untouched because nothing was mutated optimistically.
func (b *KanbanBoard) MoveOrder(orderID uint, targetStage string) error {
	if err := b.client.UpdateOrderStatus(orderID, targetStage); err != nil {
		return err
	}

	orders, err := b.client.FetchOrders()
	if err != nil {
		// The move persisted; flip the card locally and let the next full
		// load converge the rest.
		for i := range b.orders {
			if b.orders[i].ID == orderID {
				b.orders[i].Status = targetStage
			}
		}
		return nil
	}
	b.orders = orders
	return nil
}
