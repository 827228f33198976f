package service

import (
	"tableside-ordering/kiosk-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// Cart holds at most one line per menu item id, each with quantity >= 1.
// It is not safe for concurrent use; the Controller serializes access.
type Cart struct {
	lines []domain.CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) Add(item domain.MenuItem) {
	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, domain.CartLine{Item: item, Quantity: 1})
}

// UpdateQuantity removes the line when the result drops to zero or below.
// Unknown ids are ignored.
func (c *Cart) UpdateQuantity(itemID string, delta int) {
	i := c.index(itemID)
	if i < 0 {
		return
	}
	qty := c.lines[i].Quantity + delta
	if qty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
	c.lines[i].Quantity = qty
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c *Cart) Count() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) index(itemID string) int {
	for i, line := range c.lines {
		if line.Item.ID == itemID {
			return i
		}
	}
	return -1
}
