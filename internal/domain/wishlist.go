package domain

// WishlistEntry is a product summary copied when the product is saved.
type WishlistEntry struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	ImageRef  string `json:"imageRef"`
	Category  string `json:"category"`
}

// Wishlist is the derived read view of a wishlist store.
type Wishlist struct {
	Entries []WishlistEntry `json:"entries"`
	Count   int             `json:"count"`
}

func NewWishlist(entries []WishlistEntry) Wishlist {
	cp := make([]WishlistEntry, len(entries))
	copy(cp, entries)
	return Wishlist{Entries: cp, Count: len(cp)}
}
