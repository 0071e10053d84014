package types

import "time"

// ProductRef is the slice of product state a pending intent needs to survive
// a navigation: enough to replay the add and to re-check stock.
type ProductRef struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Image          string `json:"image,omitempty"`
	AvailableStock int    `json:"availableStock"`
}

// PendingIntent is a single deferred cart-mutating action awaiting
// authentication. At most one is alive at a time.
type PendingIntent struct {
	Product   ProductRef `json:"product"`
	Quantity  int        `json:"quantity"`
	Size      string     `json:"size,omitempty"`
	Color     string     `json:"color,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
