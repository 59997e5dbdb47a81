package lookup

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"larder/internal/model"
)

type upcItemDB struct {
	baseURL string
	client  *http.Client
}

// NewUPCItemDB creates a provider for the UPCitemdb trial API.
func NewUPCItemDB(baseURL string, client *http.Client) Provider {
	return &upcItemDB{baseURL: baseURL, client: client}
}

func (p *upcItemDB) Name() string { return "UPCitemdb" }

type upcResponse struct {
	Items []struct {
		Title    string   `json:"title"`
		Brand    string   `json:"brand"`
		Category string   `json:"category"`
		Images   []string `json:"images"`
	} `json:"items"`
}

func (p *upcItemDB) Fetch(ctx context.Context, barcode string) (*model.ProductInfo, error) {
	var resp upcResponse
	if err := getJSON(ctx, p.client, p.baseURL+"/prod/trial/lookup?upc="+url.QueryEscape(barcode), &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	item := resp.Items[0]
	info := &model.ProductInfo{
		Barcode:    barcode,
		Name:       item.Title,
		Brand:      item.Brand,
		Categories: item.Category,
	}
	if item.Category != "" {
		info.CategoriesTags = []string{strings.ToLower(item.Category)}
	}
	if len(item.Images) > 0 {
		info.ImageURL = item.Images[0]
	}
	return info, nil
}
