package pricing

import "github.com/shopspring/decimal"

var (
	FreeShippingThreshold = decimal.NewFromInt(50)
	ShippingFee           = decimal.RequireFromString("9.99")
)

type LineKey struct {
	ProductID string
	Size      string
	Frame     string
}

type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Frame     string          `json:"frame"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Frame: l.Frame}
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(clampQuantity(l.Quantity))))
}

type Cart struct {
	Lines []Line `json:"lines"`
}

// Add merges the line into an existing one with the same product, size and frame.
func (c *Cart) Add(line Line) {
	line.Quantity = clampQuantity(line.Quantity)
	for i := range c.Lines {
		if c.Lines[i].Key() == line.Key() {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// ChangeQuantity adds delta to the line's quantity, never going below one.
func (c *Cart) ChangeQuantity(key LineKey, delta int) bool {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity = clampQuantity(c.Lines[i].Quantity + delta)
			return true
		}
	}
	return false
}

func (c *Cart) Remove(key LineKey) bool {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c *Cart) Shipping() decimal.Decimal {
	if len(c.Lines) == 0 || c.Subtotal().GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return ShippingFee
}

func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.Shipping())
}

// UntilFreeShipping is how much more must be spent to drop the shipping fee.
func (c *Cart) UntilFreeShipping() decimal.Decimal {
	if c.Shipping().IsZero() {
		return decimal.Zero
	}
	return FreeShippingThreshold.Sub(c.Subtotal())
}
