package model

// Product is a single inventory record. The ID is the ledger key and is not
// part of the persisted record itself.
type Product struct {
	ID         string   `json:"-"`
	Name       string   `json:"name"`
	ExpiryDate string   `json:"expiry_date"`
	Location   Location `json:"location"`
	Quantity   int      `json:"quantity"`
	Category   string   `json:"category"`
	Zone       string   `json:"zone"`
	AddedDate  string   `json:"added_date"`
	Barcode    string   `json:"barcode,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
}

// ProductView is a product as returned to callers: the record, its id and the
// derived number of days until expiry.
type ProductView struct {
	ID string `json:"id"`
	Product
	DaysUntilExpiry *int `json:"days_until_expiry,omitempty"`
}

// NewProduct carries the inputs of an add operation. Empty Category or Zone
// means "use the default".
type NewProduct struct {
	Name       string   `json:"name"`
	ExpiryDate string   `json:"expiry_date"`
	Location   Location `json:"location"`
	Quantity   int      `json:"quantity"`
	Barcode    string   `json:"barcode,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
	Category   string   `json:"category,omitempty"`
	Zone       string   `json:"zone,omitempty"`
}

// ProductUpdate is a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name       *string `json:"name,omitempty"`
	ExpiryDate *string `json:"expiry_date,omitempty"`
	Quantity   *int    `json:"quantity,omitempty"`
	Category   *string `json:"category,omitempty"`
	Zone       *string `json:"zone,omitempty"`
}

// HistoryEntry remembers a previously added product name for re-entry.
type HistoryEntry struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Zone      string   `json:"zone"`
	Location  Location `json:"location"`
	AddedDate string   `json:"added_date"`
}

// ResetResult reports how much state a full reset discarded.
type ResetResult struct {
	Products int `json:"products"`
	History  int `json:"history"`
}

// ImportResult counts what an import installed.
type ImportResult struct {
	Products   int `json:"products"`
	History    int `json:"history"`
	Categories int `json:"categories"`
	Zones      int `json:"zones"`
}
