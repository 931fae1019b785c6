// Package pricing prices a configured poster: size and frame surcharges on
// top of the product price, times quantity.
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const MinQuantity = 1

var (
	ErrUnknownSize  = errors.New("unknown size")
	ErrUnknownFrame = errors.New("unknown frame")
)

type Option struct {
	Name       string          `json:"name"`
	Dimensions string          `json:"dimensions,omitempty"`
	Surcharge  decimal.Decimal `json:"price"`
}

var Sizes = []Option{
	{Name: "Small", Dimensions: `8" x 10"`, Surcharge: decimal.NewFromInt(0)},
	{Name: "Medium", Dimensions: `12" x 16"`, Surcharge: decimal.NewFromInt(10)},
	{Name: "Large", Dimensions: `18" x 24"`, Surcharge: decimal.NewFromInt(20)},
	{Name: "XL", Dimensions: `24" x 36"`, Surcharge: decimal.NewFromInt(35)},
}

var Frames = []Option{
	{Name: "No Frame", Surcharge: decimal.NewFromInt(0)},
	{Name: "Black", Surcharge: decimal.NewFromInt(25)},
	{Name: "White", Surcharge: decimal.NewFromInt(25)},
	{Name: "Natural Oak", Surcharge: decimal.NewFromInt(35)},
}

func lookup(options []Option, name string) (Option, bool) {
	for _, o := range options {
		if strings.EqualFold(o.Name, strings.TrimSpace(name)) {
			return o, true
		}
	}
	return Option{}, false
}

func LookupSize(name string) (Option, error) {
	o, ok := lookup(Sizes, name)
	if !ok {
		return Option{}, ErrUnknownSize
	}
	return o, nil
}

func LookupFrame(name string) (Option, error) {
	o, ok := lookup(Frames, name)
	if !ok {
		return Option{}, ErrUnknownFrame
	}
	return o, nil
}

// Configuration is one product with a chosen size, frame and quantity.
type Configuration struct {
	BasePrice decimal.Decimal
	Size      Option
	Frame     Option
	Quantity  int
}

// NewConfiguration starts where the product page does: Medium, no frame, one copy.
func NewConfiguration(basePrice decimal.Decimal) *Configuration {
	return &Configuration{
		BasePrice: basePrice,
		Size:      Sizes[1],
		Frame:     Frames[0],
		Quantity:  MinQuantity,
	}
}

func clampQuantity(n int) int {
	if n < MinQuantity {
		return MinQuantity
	}
	return n
}

func (c *Configuration) SetQuantity(n int) {
	c.Quantity = clampQuantity(n)
}

func (c *Configuration) Increment() {
	c.SetQuantity(c.Quantity + 1)
}

func (c *Configuration) Decrement() {
	c.SetQuantity(c.Quantity - 1)
}

func (c *Configuration) UnitPrice() decimal.Decimal {
	return c.BasePrice.Add(c.Size.Surcharge).Add(c.Frame.Surcharge)
}

func (c *Configuration) Total() decimal.Decimal {
	return c.UnitPrice().Mul(decimal.NewFromInt(int64(clampQuantity(c.Quantity))))
}
