package model

// ProductInfo is barcode metadata normalised from any lookup provider.
type ProductInfo struct {
	Barcode        string   `json:"barcode"`
	Name           string   `json:"name"`
	Brand          string   `json:"brand"`
	Categories     string   `json:"categories"`
	CategoriesTags []string `json:"categories_tags"`
	ImageURL       string   `json:"image_url"`
	QuantityInfo   string   `json:"quantity_info"`
	Nutriscore     string   `json:"nutriscore"`
	Source         string   `json:"source"`
}

// ScanRequest is the input of a scan-and-add operation.
type ScanRequest struct {
	Barcode    string   `json:"barcode"`
	ExpiryDate string   `json:"expiry_date"`
	Location   Location `json:"location"`
	Quantity   int      `json:"quantity"`
}

// ScanResult describes the product created by a scan.
type ScanResult struct {
	ProductID   string       `json:"product_id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Source      string       `json:"source"`
	Info        *ProductInfo `json:"info"`
	Placeholder bool         `json:"placeholder"`
	Warning     string       `json:"warning,omitempty"`
}
