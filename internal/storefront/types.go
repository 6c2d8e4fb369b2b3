package storefront

// Wire types for the backend's GraphQL connection shapes, plus conversion
// into the catalog's raw record model. Nodes and metafield entries may be
// null; conversion tolerates both.

import (
	"strconv"

	"github.com/visaportapp/visaport/internal/catalog"
)

type money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func (m money) amountFloat() float64 {
	value, err := strconv.ParseFloat(m.Amount, 64)
	if err != nil {
		return 0
	}
	return value
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type variantNode struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	SKU              string `json:"sku"`
	AvailableForSale bool   `json:"availableForSale"`
	Price            money  `json:"price"`
}

type imageNode struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type metafieldNode struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

type productNode struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Handle          string   `json:"handle"`
	ProductType     string   `json:"productType"`
	Tags            []string `json:"tags"`
	Description     string   `json:"description"`
	DescriptionHTML string   `json:"descriptionHtml"`
	PriceRange      struct {
		MinVariantPrice money `json:"minVariantPrice"`
		MaxVariantPrice money `json:"maxVariantPrice"`
	} `json:"priceRange"`
	Variants struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	Images struct {
		Edges []struct {
			Node imageNode `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	// The identifiers form returns a flat list with nulls for absent keys.
	Metafields []*metafieldNode `json:"metafields"`
}

func (p *productNode) toRaw() *catalog.RawProduct {
	if p == nil {
		return nil
	}

	raw := &catalog.RawProduct{
		ID:              p.ID,
		Title:           p.Title,
		Handle:          p.Handle,
		ProductType:     p.ProductType,
		Tags:            p.Tags,
		Description:     p.Description,
		DescriptionHTML: p.DescriptionHTML,
		MinPrice:        p.PriceRange.MinVariantPrice.amountFloat(),
		MaxPrice:        p.PriceRange.MaxVariantPrice.amountFloat(),
	}

	for _, edge := range p.Variants.Edges {
		raw.Variants = append(raw.Variants, catalog.RawVariant{
			ID:        edge.Node.ID,
			Title:     edge.Node.Title,
			Price:     edge.Node.Price.amountFloat(),
			Available: edge.Node.AvailableForSale,
			SKU:       edge.Node.SKU,
		})
	}
	for _, edge := range p.Images.Edges {
		raw.Images = append(raw.Images, catalog.RawImage{
			URL:     edge.Node.URL,
			AltText: edge.Node.AltText,
			Width:   edge.Node.Width,
			Height:  edge.Node.Height,
		})
	}
	for _, field := range p.Metafields {
		if field == nil {
			continue
		}
		raw.Metafields = append(raw.Metafields, catalog.RawMetafield{
			Namespace: field.Namespace,
			Key:       field.Key,
			Value:     field.Value,
			Type:      field.Type,
		})
	}

	return raw
}

// Customer is the authenticated customer profile.
type Customer struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

// OrderLineItem is one purchased line on a historical order.
type OrderLineItem struct {
	Title        string  `json:"title"`
	VariantTitle string  `json:"variantTitle,omitempty"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
}

// Order is one entry in a customer's order history.
type Order struct {
	ID                string          `json:"id"`
	OrderNumber       int             `json:"orderNumber"`
	ProcessedAt       string          `json:"processedAt"`
	FinancialStatus   string          `json:"financialStatus"`
	FulfillmentStatus string          `json:"fulfillmentStatus"`
	TotalPrice        float64         `json:"totalPrice"`
	Currency          string          `json:"currency"`
	LineItems         []OrderLineItem `json:"lineItems"`
}

// CheckoutAttribute is a custom key/value pair attached to a checkout,
// used for the per-applicant traveler details.
type CheckoutAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CheckoutLine is one line item submitted to checkout creation.
type CheckoutLine struct {
	VariantID  string
	Quantity   int
	Attributes []CheckoutAttribute
}

// CheckoutInput is the full checkout-creation request.
type CheckoutInput struct {
	Email      string
	Lines      []CheckoutLine
	Attributes []CheckoutAttribute
	Note       string
}
