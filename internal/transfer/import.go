package transfer

import (
	"bytes"
	"encoding/json"

	"larder/internal/model"
	"larder/internal/taxonomy"

	"github.com/rs/zerolog"
)

// Parsed is a decoded import document. Nil sections were absent and must be
// left untouched by the caller.
type Parsed struct {
	Shape      Shape
	Products   map[string]model.Product
	History    []model.HistoryEntry
	Categories *taxonomy.Source
	Zones      *taxonomy.Source
}

// Parse decodes raw completely, without side effects. Products in the
// location-keyed shape keep their id when they carry one and receive one from
// newID otherwise; their location is taken from the enclosing key.
func Parse(raw []byte, newID func() string, logger zerolog.Logger) (*Parsed, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &model.DocumentError{Err: err}
	}
	if top == nil {
		return nil, &model.DocumentError{Err: errNotObject}
	}

	parsed := &Parsed{}

	if data, ok := present(top, "products"); ok {
		products, shape, err := parseProducts(data, newID, logger)
		if err != nil {
			return nil, err
		}
		parsed.Products = products
		parsed.Shape = shape
	}

	if data, ok := present(top, "product_history"); ok {
		history, isList, err := parseHistory(data, logger)
		if err != nil {
			return nil, err
		}
		if isList {
			parsed.History = history
		} else {
			logger.Warn().Msg("product_history is not a list, ignoring it")
		}
	}

	for _, section := range []struct {
		key  string
		dest **taxonomy.Source
	}{
		{"categories", &parsed.Categories},
		{"zones", &parsed.Zones},
	} {
		data, ok := present(top, section.key)
		if !ok {
			continue
		}
		var src taxonomy.Source
		if err := json.Unmarshal(data, &src); err != nil {
			return nil, &model.DocumentError{Section: section.key, Err: err}
		}
		*section.dest = &src
	}

	return parsed, nil
}

type documentErr string

func (e documentErr) Error() string { return string(e) }

const (
	errNotObject    documentErr = "document must be a JSON object"
	errProductsType documentErr = "products must be an object"
	errListType     documentErr = "location entries must be lists"
)

// present returns the raw value of key unless it is missing or null.
func present(top map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	data, ok := top[key]
	if !ok || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, false
	}
	return data, true
}

func isObject(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isList(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func parseProducts(data json.RawMessage, newID func() string, logger zerolog.Logger) (map[string]model.Product, Shape, error) {
	if !isObject(data) {
		return nil, "", &model.DocumentError{Section: "products", Err: errProductsType}
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, "", &model.DocumentError{Section: "products", Err: err}
	}

	for key := range entries {
		if model.Location(key).Valid() {
			products, err := flattenLocations(entries, newID, logger)
			return products, ShapeLocation, err
		}
	}

	products := make(map[string]model.Product, len(entries))
	for id, entry := range entries {
		if !isObject(entry) {
			logger.Warn().Str("product_id", id).Msg("skipping product that is not an object")
			continue
		}
		var p model.Product
		if err := json.Unmarshal(entry, &p); err != nil {
			return nil, "", &model.DocumentError{Section: "products", Err: err}
		}
		if !p.Location.Valid() {
			logger.Warn().Str("product_id", id).Str("location", string(p.Location)).Msg("skipping product with unknown location")
			continue
		}
		p.ID = id
		products[id] = p
	}
	return products, ShapeInternal, nil
}

func flattenLocations(entries map[string]json.RawMessage, newID func() string, logger zerolog.Logger) (map[string]model.Product, error) {
	var pending []model.Product
	products := make(map[string]model.Product)

	for _, loc := range model.Locations {
		data, ok := present(entries, string(loc))
		if !ok {
			continue
		}
		if !isList(data) {
			return nil, &model.DocumentError{Section: "products." + string(loc), Err: errListType}
		}

		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, &model.DocumentError{Section: "products." + string(loc), Err: err}
		}

		for _, item := range items {
			if !isObject(item) {
				logger.Warn().Str("location", string(loc)).Msg("skipping product that is not an object")
				continue
			}
			var view model.ProductView
			if err := json.Unmarshal(item, &view); err != nil {
				return nil, &model.DocumentError{Section: "products." + string(loc), Err: err}
			}

			p := view.Product
			p.Location = loc
			if _, taken := products[view.ID]; view.ID == "" || taken {
				pending = append(pending, p)
				continue
			}
			p.ID = view.ID
			products[p.ID] = p
		}
	}

	for key := range entries {
		if !model.Location(key).Valid() {
			logger.Warn().Str("key", key).Msg("ignoring unknown key among location-keyed products")
		}
	}

	for _, p := range pending {
		id := newID()
		for _, taken := products[id]; taken; _, taken = products[id] {
			id = newID()
		}
		p.ID = id
		products[id] = p
	}
	return products, nil
}

func parseHistory(data json.RawMessage, logger zerolog.Logger) ([]model.HistoryEntry, bool, error) {
	if !isList(data) {
		return nil, false, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, &model.DocumentError{Section: "product_history", Err: err}
	}

	history := make([]model.HistoryEntry, 0, len(items))
	for _, item := range items {
		if !isObject(item) {
			logger.Warn().Msg("skipping history entry that is not an object")
			continue
		}
		var entry model.HistoryEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			return nil, false, &model.DocumentError{Section: "product_history", Err: err}
		}
		history = append(history, entry)
	}
	return history, true, nil
}
