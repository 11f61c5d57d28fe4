package checkout

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/credix-checkout/internal/platform/errors"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat tax applied to every cart subtotal.
var TaxRate = decimal.RequireFromString("0.10")

// CartItem is one line of the cart.
type CartItem struct {
	SKU      string
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// LineTotal returns price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Summary holds the derived cart amounts.
type Summary struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Subtotal returns the sum of price times quantity over items.
func Subtotal(items []CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Tax returns TaxRate of subtotal rounded to a whole currency unit, half up.
// decimal rounds half away from zero, which is half up for the non-negative
// amounts a cart can produce.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(0)
}

// Total returns subtotal plus tax.
func Total(subtotal, tax decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax)
}

// Cart is an immutable, validated list of items.
type Cart struct {
	items []CartItem
}

// NewCart validates items and returns a cart holding a private copy.
func NewCart(items []CartItem) (Cart, error) {
	seen := make(map[string]struct{}, len(items))
	out := make([]CartItem, 0, len(items))
	for idx, item := range items {
		item.SKU = strings.TrimSpace(item.SKU)
		item.Name = strings.TrimSpace(item.Name)
		if item.SKU == "" {
			return Cart{}, invalidItem(idx, "sku is required")
		}
		if item.Price.IsNegative() {
			return Cart{}, invalidItem(idx, "price must not be negative")
		}
		if item.Quantity <= 0 {
			return Cart{}, invalidItem(idx, "quantity must be positive")
		}
		if _, dup := seen[item.SKU]; dup {
			return Cart{}, apperrors.WithMetadata(apperrors.CodeCartDuplicateSKU, fmt.Sprintf("duplicate sku %q", item.SKU), map[string]string{"SKU": item.SKU})
		}
		seen[item.SKU] = struct{}{}
		out = append(out, item)
	}
	return Cart{items: out}, nil
}

func invalidItem(idx int, reason string) error {
	return apperrors.WithMetadata(apperrors.CodeCartItemInvalid, fmt.Sprintf("cart item %d: %s", idx, reason), map[string]string{"Index": fmt.Sprint(idx)})
}

// Items returns a copy of the cart lines.
func (c Cart) Items() []CartItem {
	return c.Snapshot()
}

// Snapshot returns a point-in-time copy of the cart lines.
func (c Cart) Snapshot() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Summary computes subtotal, tax and total for the cart.
func (c Cart) Summary() Summary {
	subtotal := Subtotal(c.items)
	tax := Tax(subtotal)
	return Summary{Subtotal: subtotal, Tax: tax, Total: Total(subtotal, tax)}
}
