package lookup

import (
	"context"
	"net/http"
	"net/url"

	"larder/internal/model"
)

type openFoodFacts struct {
	baseURL string
	client  *http.Client
}

// NewOpenFoodFacts creates a provider for the Open Food Facts v2 API.
func NewOpenFoodFacts(baseURL string, client *http.Client) Provider {
	return &openFoodFacts{baseURL: baseURL, client: client}
}

func (p *openFoodFacts) Name() string { return "Open Food Facts" }

type offResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName     string   `json:"product_name"`
		ProductNameFR   string   `json:"product_name_fr"`
		Brands          string   `json:"brands"`
		Categories      string   `json:"categories"`
		CategoriesTags  []string `json:"categories_tags"`
		ImageURL        string   `json:"image_url"`
		Quantity        string   `json:"quantity"`
		NutriscoreGrade string   `json:"nutriscore_grade"`
	} `json:"product"`
}

func (p *openFoodFacts) Fetch(ctx context.Context, barcode string) (*model.ProductInfo, error) {
	var resp offResponse
	if err := getJSON(ctx, p.client, p.baseURL+"/api/v2/product/"+url.PathEscape(barcode)+".json", &resp); err != nil {
		return nil, err
	}
	if resp.Status != 1 {
		return nil, nil
	}

	product := resp.Product
	name := product.ProductName
	if name == "" {
		name = product.ProductNameFR
	}

	return &model.ProductInfo{
		Barcode:        barcode,
		Name:           name,
		Brand:          product.Brands,
		Categories:     product.Categories,
		CategoriesTags: product.CategoriesTags,
		ImageURL:       product.ImageURL,
		QuantityInfo:   product.Quantity,
		Nutriscore:     product.NutriscoreGrade,
	}, nil
}
