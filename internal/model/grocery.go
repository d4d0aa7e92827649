package model

// GroceryItem is one entry on the checklist. CreatedAt is epoch milliseconds.
type GroceryItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Category  string `json:"category"`
	Bought    bool   `json:"bought"`
	CreatedAt int64  `json:"created_at"`
}

// InsertPayload carries the writable fields of an item. A zero Quantity
// means the caller did not supply one.
type InsertPayload struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity,omitempty"`
	Category string `json:"category,omitempty"`
	Bought   bool   `json:"bought,omitempty"`
}

type UpdatePayload struct {
	ID int64 `json:"id"`
	InsertPayload
}

// FormValues is the raw input of the add/edit form. ID is zero for a new item.
type FormValues struct {
	ID       int64
	Name     string
	Quantity string
	Category string
	Bought   bool
}
