// Package cart holds the shopping cart of one browsing session: pure line
// operations plus a Service persisting carts behind a cache.
package cart

import (
	"errors"
	"fmt"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrLineNotFound    = errors.New("line not found in cart")
)

// IdentityOf is the canonical line identity of an item and its
// customisation. Two selections merge into one line iff their identities
// are equal.
func IdentityOf(itemID int64, c domain.Customization) string {
	size := "-"
	if c.Size != nil {
		size = c.Size.String()
	}
	return fmt.Sprintf("%d|size=%s|stuffed=%t|sv=%t", itemID, size, c.StuffedCrust, c.SaltAndVinegar)
}

// Add merges line into the cart line with the same identity, summing the
// quantities and keeping the existing unit price, or appends it.
func Add(c *domain.Cart, line domain.CartLine) error {
	if line.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if line.ID == "" {
		line.ID = IdentityOf(line.MenuItemID, line.Customizations)
	}

	for i := range c.Lines {
		if c.Lines[i].ID == line.ID {
			c.Lines[i].Quantity += line.Quantity
			return nil
		}
	}
	c.Lines = append(c.Lines, line)
	return nil
}

// SetQuantity replaces the quantity of a line; n <= 0 removes it. It reports
// whether the line exists.
func SetQuantity(c *domain.Cart, lineID string, n int) bool {
	if n <= 0 {
		return Remove(c, lineID)
	}
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines[i].Quantity = n
			return true
		}
	}
	return false
}

// Remove drops a line, keeping the order of the others. Removing an unknown
// line is a no-op and reports false.
func Remove(c *domain.Cart, lineID string) bool {
	kept := make([]domain.CartLine, 0, len(c.Lines))
	removed := false
	for _, l := range c.Lines {
		if l.ID == lineID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	c.Lines = kept
	return removed
}

func Clear(c *domain.Cart) {
	c.Lines = []domain.CartLine{}
}

// ItemCount is the number of units in the cart, across all lines.
func ItemCount(c *domain.Cart) int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func Find(c *domain.Cart, lineID string) (domain.CartLine, bool) {
	for _, l := range c.Lines {
		if l.ID == lineID {
			return l, true
		}
	}
	return domain.CartLine{}, false
}
