// Package display is the single ingestion boundary between raw product
// records and the view layer. Two sources coexist upstream (the legacy
// static catalog and the provider-backed catalog) with incompatible
// field names and price types; every record passes through Normalize
// so no display component re-implements fallback logic.
package display

import (
	"strconv"

	"github.com/meninadelaco/storefront/internal/catalog"
	"github.com/meninadelaco/storefront/internal/money"
)

const (
	PlaceholderName        = "Produto sem nome"
	PlaceholderDescription = "Descrição indisponível"
)

// Product is the canonical display-safe shape. Prices are cents;
// zero OriginalPriceCents / DiscountPercent mean "none".
type Product struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	PriceCents         int      `json:"price_cents"`
	OriginalPriceCents int      `json:"original_price_cents,omitempty"`
	DiscountPercent    int      `json:"discount_percent,omitempty"`
	Features           []string `json:"features"`
	InStock            bool     `json:"in_stock"`
	StockQuantity      int      `json:"stock_quantity"`
	Featured           bool     `json:"featured,omitempty"`
	ImageURL           string   `json:"image_url,omitempty"`
	FormattedPrice     string   `json:"formatted_price"`
	FormattedOriginal  string   `json:"formatted_original_price,omitempty"`
}

// Normalize accepts a decoded record from either source and never
// fails: missing text fields get placeholders and non-numeric prices
// coerce to zero. These are the only two places in the system where
// malformed data is absorbed instead of reported.
func Normalize(raw map[string]any) Product {
	p := Product{
		ID:          asID(raw["id"]),
		Name:        asText(raw["name"], PlaceholderName),
		Description: asText(raw["description"], PlaceholderDescription),
	}

	p.PriceCents, _ = money.ParseCents(raw["price"])
	if v, ok := pick(raw, "original_price", "originalPrice"); ok {
		p.OriginalPriceCents, _ = money.ParseCents(v)
	}

	if d, ok := asInt(raw["discount"]); ok && d > 0 {
		p.DiscountPercent = d
	} else {
		p.DiscountPercent = money.DiscountPercent(p.PriceCents, p.OriginalPriceCents)
	}

	p.Features = features(raw)

	if v, ok := pick(raw, "in_stock", "inStock"); ok {
		p.InStock, _ = v.(bool)
	}
	if v, ok := pick(raw, "stock_quantity", "stockQuantity"); ok {
		p.StockQuantity, _ = asInt(v)
	}
	if v, ok := raw["featured"]; ok {
		p.Featured, _ = v.(bool)
	}
	p.ImageURL = imageURL(raw)

	p.FormattedPrice = money.FormatBRL(p.PriceCents)
	if p.OriginalPriceCents > 0 {
		p.FormattedOriginal = money.FormatBRL(p.OriginalPriceCents)
	}
	return p
}

// FromCatalog is the typed path for provider-owned records.
func FromCatalog(cp catalog.Product) Product {
	p := Product{
		ID:                 cp.ID,
		Name:               cp.Name,
		Description:        cp.Description,
		PriceCents:         cp.PriceCents,
		OriginalPriceCents: cp.OriginalPriceCents,
		Features:           cp.Features,
		InStock:            cp.InStock,
		StockQuantity:      cp.StockQuantity,
		Featured:           cp.Featured,
	}
	if p.Name == "" {
		p.Name = PlaceholderName
	}
	if p.Description == "" {
		p.Description = PlaceholderDescription
	}
	if len(p.Features) == 0 && len(cp.Attributes) > 0 {
		p.Features = make([]string, 0, len(cp.Attributes))
		for _, a := range cp.Attributes {
			p.Features = append(p.Features, a.Value)
		}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	for _, img := range cp.Images {
		if img.Primary || p.ImageURL == "" {
			p.ImageURL = img.URL
		}
	}
	p.DiscountPercent = money.DiscountPercent(p.PriceCents, p.OriginalPriceCents)
	p.FormattedPrice = money.FormatBRL(p.PriceCents)
	if p.OriginalPriceCents > 0 {
		p.FormattedOriginal = money.FormatBRL(p.OriginalPriceCents)
	}
	return p
}

func features(raw map[string]any) []string {
	if fs, ok := raw["features"].([]any); ok && len(fs) > 0 {
		out := make([]string, 0, len(fs))
		for _, f := range fs {
			if s, ok := f.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	if fs, ok := raw["features"].([]string); ok && len(fs) > 0 {
		return fs
	}
	// Fall back to the attribute records' values.
	if attrs, ok := raw["attributes"].([]any); ok {
		out := make([]string, 0, len(attrs))
		for _, a := range attrs {
			m, ok := a.(map[string]any)
			if !ok {
				continue
			}
			if v, ok := pick(m, "attribute_value", "value"); ok {
				if s, ok := v.(string); ok {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return []string{}
}

func imageURL(raw map[string]any) string {
	if s, ok := raw["image"].(string); ok {
		return s
	}
	if imgs, ok := raw["images"].([]any); ok {
		for _, i := range imgs {
			switch img := i.(type) {
			case string:
				return img
			case map[string]any:
				if u, ok := pick(img, "image_url", "url"); ok {
					if s, ok := u.(string); ok {
						return s
					}
				}
			}
		}
	}
	return ""
}

func pick(raw map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func asID(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.Itoa(int(x))
	default:
		return ""
	}
}

func asText(v any, placeholder string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return placeholder
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}
