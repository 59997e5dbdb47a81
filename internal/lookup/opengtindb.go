package lookup

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"larder/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
)

type openGTINDB struct {
	baseURL string
	client  *http.Client
}

// NewOpenGTINDB creates a provider for the OpenGTINDB query API.
func NewOpenGTINDB(baseURL string, client *http.Client) Provider {
	return &openGTINDB{baseURL: baseURL, client: client}
}

func (p *openGTINDB) Name() string { return "OpenGTINDB" }

func (p *openGTINDB) Fetch(ctx context.Context, barcode string) (*model.ProductInfo, error) {
	body, err := get(ctx, p.client, p.baseURL+"/?ean="+url.QueryEscape(barcode)+"&cmd=query&queryid=400000000")
	if err != nil {
		return nil, err
	}

	fields, err := parseGTINRecord(body)
	if err != nil {
		return nil, err
	}
	if fields["error"] != "0" {
		return nil, nil
	}

	name := strings.TrimSpace(fields["detailname"])
	if name == "" {
		name = strings.TrimSpace(fields["name"])
	}
	if name == "" {
		return nil, nil
	}

	maincat := strings.TrimSpace(fields["maincat"])
	subcat := strings.TrimSpace(fields["subcat"])

	lower := cases.Lower(language.Und)
	var tags []string
	if maincat != "" {
		tags = append(tags, lower.String(maincat))
	}
	if subcat != "" {
		tags = append(tags, lower.String(subcat))
	}

	categories := maincat + subcat
	if maincat != "" && subcat != "" {
		categories = maincat + "/" + subcat
	}

	return &model.ProductInfo{
		Barcode:        barcode,
		Name:           name,
		Brand:          strings.TrimSpace(fields["vendor"]),
		Categories:     categories,
		CategoriesTags: tags,
		QuantityInfo:   fields["contents"],
	}, nil
}

// parseGTINRecord reads the key=value lines of the first record. Responses
// are Latin-1 unless they already decode as UTF-8.
func parseGTINRecord(body []byte) (map[string]string, error) {
	text := string(body)
	if !utf8.Valid(body) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
		if err != nil {
			return nil, err
		}
		text = string(decoded)
	}

	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "---" && len(fields) > 1 {
			break
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = value
	}
	return fields, nil
}
