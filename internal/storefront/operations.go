package storefront

import (
	"context"
	"fmt"

	"github.com/visaportapp/visaport/internal/catalog"
)

const productPageSize = 100

// ListProducts fetches the whole catalog, following pagination cursors until
// the backend reports no further pages. queryFilter is the backend's own
// query syntax (empty for everything).
func (c *Client) ListProducts(ctx context.Context, queryFilter string) ([]*catalog.RawProduct, error) {
	var (
		records []*catalog.RawProduct
		after   *string
	)

	for {
		variables := map[string]any{
			"first": productPageSize,
		}
		if queryFilter != "" {
			variables["query"] = queryFilter
		}
		if after != nil {
			variables["after"] = *after
		}

		var out struct {
			Products struct {
				PageInfo pageInfo `json:"pageInfo"`
				Edges    []struct {
					Node productNode `json:"node"`
				} `json:"edges"`
			} `json:"products"`
		}
		if err := c.do(ctx, "list products", listProductsQuery, variables, &out); err != nil {
			return nil, err
		}

		for i := range out.Products.Edges {
			node := out.Products.Edges[i].Node
			records = append(records, node.toRaw())
		}

		if !out.Products.PageInfo.HasNextPage {
			return records, nil
		}
		cursor := out.Products.PageInfo.EndCursor
		after = &cursor
	}
}

// ProductByHandle fetches one product. An unknown handle returns (nil, nil):
// the caller feeds the nil record to the normalizer, which reports the
// distinct not-found state.
func (c *Client) ProductByHandle(ctx context.Context, handle string) (*catalog.RawProduct, error) {
	var out struct {
		Product *productNode `json:"product"`
	}
	if err := c.do(ctx, "product by handle", productByHandleQuery, map[string]any{"handle": handle}, &out); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, nil
	}
	return out.Product.toRaw(), nil
}

// CustomerCreate registers a new customer account.
func (c *Client) CustomerCreate(ctx context.Context, email, password, firstName, lastName string) (*Customer, error) {
	variables := map[string]any{
		"input": map[string]any{
			"email":     email,
			"password":  password,
			"firstName": firstName,
			"lastName":  lastName,
		},
	}

	var out struct {
		CustomerCreate struct {
			Customer           *Customer   `json:"customer"`
			CustomerUserErrors []UserError `json:"customerUserErrors"`
		} `json:"customerCreate"`
	}
	if err := c.do(ctx, "customer create", customerCreateMutation, variables, &out); err != nil {
		return nil, err
	}
	if len(out.CustomerCreate.CustomerUserErrors) > 0 {
		return nil, fmt.Errorf("registration failed: %s", userErrorMessage(out.CustomerCreate.CustomerUserErrors))
	}
	if out.CustomerCreate.Customer == nil {
		return nil, fmt.Errorf("registration failed: no customer returned")
	}
	return out.CustomerCreate.Customer, nil
}

// AccessToken is a backend-issued opaque customer token.
type AccessToken struct {
	Token     string `json:"accessToken"`
	ExpiresAt string `json:"expiresAt"`
}

// AccessTokenCreate logs a customer in and returns the opaque access token.
func (c *Client) AccessTokenCreate(ctx context.Context, email, password string) (*AccessToken, error) {
	variables := map[string]any{
		"input": map[string]any{
			"email":    email,
			"password": password,
		},
	}

	var out struct {
		CustomerAccessTokenCreate struct {
			CustomerAccessToken *AccessToken `json:"customerAccessToken"`
			CustomerUserErrors  []UserError  `json:"customerUserErrors"`
		} `json:"customerAccessTokenCreate"`
	}
	if err := c.do(ctx, "access token create", accessTokenCreateMutation, variables, &out); err != nil {
		return nil, err
	}
	if out.CustomerAccessTokenCreate.CustomerAccessToken == nil {
		message := userErrorMessage(out.CustomerAccessTokenCreate.CustomerUserErrors)
		if message == "" {
			message = "invalid credentials"
		}
		return nil, fmt.Errorf("login failed: %s", message)
	}
	return out.CustomerAccessTokenCreate.CustomerAccessToken, nil
}

// AccessTokenDelete invalidates a customer access token on logout.
func (c *Client) AccessTokenDelete(ctx context.Context, token string) error {
	variables := map[string]any{"customerAccessToken": token}

	var out struct {
		CustomerAccessTokenDelete struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"customerAccessTokenDelete"`
	}
	if err := c.do(ctx, "access token delete", accessTokenDeleteMutation, variables, &out); err != nil {
		return err
	}
	if len(out.CustomerAccessTokenDelete.UserErrors) > 0 {
		return fmt.Errorf("logout failed: %s", userErrorMessage(out.CustomerAccessTokenDelete.UserErrors))
	}
	return nil
}

// CustomerByToken fetches the profile for an access token. An expired or
// revoked token returns (nil, nil).
func (c *Client) CustomerByToken(ctx context.Context, token string) (*Customer, error) {
	var out struct {
		Customer *Customer `json:"customer"`
	}
	if err := c.do(ctx, "customer", customerQuery, map[string]any{"customerAccessToken": token}, &out); err != nil {
		return nil, err
	}
	return out.Customer, nil
}

// CustomerOrders fetches the customer's most recent orders.
func (c *Client) CustomerOrders(ctx context.Context, token string, first int) ([]Order, error) {
	variables := map[string]any{
		"customerAccessToken": token,
		"first":               first,
	}

	var out struct {
		Customer *struct {
			Orders struct {
				Edges []struct {
					Node struct {
						ID                string `json:"id"`
						OrderNumber       int    `json:"orderNumber"`
						ProcessedAt       string `json:"processedAt"`
						FinancialStatus   string `json:"financialStatus"`
						FulfillmentStatus string `json:"fulfillmentStatus"`
						TotalPrice        money  `json:"totalPrice"`
						LineItems         struct {
							Edges []struct {
								Node struct {
									Title    string `json:"title"`
									Quantity int    `json:"quantity"`
									Variant  *struct {
										Title string `json:"title"`
										Price money  `json:"price"`
									} `json:"variant"`
								} `json:"node"`
							} `json:"edges"`
						} `json:"lineItems"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"orders"`
		} `json:"customer"`
	}
	if err := c.do(ctx, "customer orders", customerOrdersQuery, variables, &out); err != nil {
		return nil, err
	}
	if out.Customer == nil {
		return nil, fmt.Errorf("customer orders failed: token expired or invalid")
	}

	orders := make([]Order, 0, len(out.Customer.Orders.Edges))
	for _, edge := range out.Customer.Orders.Edges {
		node := edge.Node
		order := Order{
			ID:                node.ID,
			OrderNumber:       node.OrderNumber,
			ProcessedAt:       node.ProcessedAt,
			FinancialStatus:   node.FinancialStatus,
			FulfillmentStatus: node.FulfillmentStatus,
			TotalPrice:        node.TotalPrice.amountFloat(),
			Currency:          node.TotalPrice.CurrencyCode,
		}
		for _, itemEdge := range node.LineItems.Edges {
			item := OrderLineItem{
				Title:    itemEdge.Node.Title,
				Quantity: itemEdge.Node.Quantity,
			}
			if itemEdge.Node.Variant != nil {
				item.VariantTitle = itemEdge.Node.Variant.Title
				item.UnitPrice = itemEdge.Node.Variant.Price.amountFloat()
			}
			order.LineItems = append(order.LineItems, item)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// CheckoutCreate builds a hosted checkout for the given lines and returns
// its URL. The backend derives its own charge from the line items; no
// locally computed total is transmitted.
func (c *Client) CheckoutCreate(ctx context.Context, input CheckoutInput) (string, error) {
	lineItems := make([]map[string]any, 0, len(input.Lines))
	for _, line := range input.Lines {
		item := map[string]any{
			"variantId": line.VariantID,
			"quantity":  line.Quantity,
		}
		if len(line.Attributes) > 0 {
			item["customAttributes"] = attributeMaps(line.Attributes)
		}
		lineItems = append(lineItems, item)
	}

	checkoutInput := map[string]any{
		"lineItems": lineItems,
	}
	if input.Email != "" {
		checkoutInput["email"] = input.Email
	}
	if len(input.Attributes) > 0 {
		checkoutInput["customAttributes"] = attributeMaps(input.Attributes)
	}
	if input.Note != "" {
		checkoutInput["note"] = input.Note
	}

	var out struct {
		CheckoutCreate struct {
			Checkout *struct {
				ID     string `json:"id"`
				WebURL string `json:"webUrl"`
			} `json:"checkout"`
			CheckoutUserErrors []UserError `json:"checkoutUserErrors"`
		} `json:"checkoutCreate"`
	}
	if err := c.do(ctx, "checkout create", checkoutCreateMutation, map[string]any{"input": checkoutInput}, &out); err != nil {
		return "", err
	}
	if len(out.CheckoutCreate.CheckoutUserErrors) > 0 {
		return "", fmt.Errorf("checkout failed: %s", userErrorMessage(out.CheckoutCreate.CheckoutUserErrors))
	}
	if out.CheckoutCreate.Checkout == nil || out.CheckoutCreate.Checkout.WebURL == "" {
		return "", fmt.Errorf("checkout failed: no checkout URL returned")
	}
	return out.CheckoutCreate.Checkout.WebURL, nil
}

func attributeMaps(attributes []CheckoutAttribute) []map[string]any {
	out := make([]map[string]any, 0, len(attributes))
	for _, attr := range attributes {
		out = append(out, map[string]any{"key": attr.Key, "value": attr.Value})
	}
	return out
}
