package domain

// MaxQuantity bounds a single line's quantity so line totals stay far from
// int64 overflow.
const MaxQuantity = 99

// ClampQuantity coerces q into [1, MaxQuantity].
func ClampQuantity(q int) int {
	return min(max(q, 1), MaxQuantity)
}

// CartLine is one (product, size) entry in a cart. Price, name and image are
// copied from the catalog when the line is first added.
type CartLine struct {
	ProductID int    `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Name      string `json:"name"`
	ImageRef  string `json:"imageRef"`
}

// LineTotal is UnitPrice×Quantity.
func (l CartLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart is the derived read view of a cart store.
type Cart struct {
	Lines     []CartLine `json:"lines"`
	ItemCount int        `json:"itemCount"`
	Subtotal  int64      `json:"subtotal"`
}

// NewCart builds the view over lines, copying them.
func NewCart(lines []CartLine) Cart {
	cp := make([]CartLine, len(lines))
	copy(cp, lines)
	return Cart{Lines: cp, ItemCount: ItemCount(lines), Subtotal: Subtotal(lines)}
}

// ItemCount sums line quantities.
func ItemCount(lines []CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Subtotal sums UnitPrice×Quantity over lines.
func Subtotal(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.LineTotal()
	}
	return total
}

// FindLine returns the index of the (productID, size) line, or -1.
func FindLine(lines []CartLine, productID int, size string) int {
	for i := range lines {
		if lines[i].ProductID == productID && lines[i].Size == size {
			return i
		}
	}
	return -1
}

// MergeLines folds lines sharing a (productId, size) key into the first
// occurrence, summing quantities up to MaxQuantity.
func MergeLines(lines []CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		l.Quantity = ClampQuantity(l.Quantity)
		if i := FindLine(out, l.ProductID, l.Size); i >= 0 {
			out[i].Quantity = ClampQuantity(out[i].Quantity + l.Quantity)
			continue
		}
		out = append(out, l)
	}
	return out
}
