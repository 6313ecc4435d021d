// Package whatsapp builds the outbound "Buy on WhatsApp" deep links. There
// is no real checkout flow; an order is a prefilled WhatsApp message to the
// store's contact number.
package whatsapp

import (
	"fmt"
	"net/url"

	"buyxtra/pkg/storetypes"
)

// Order describes one product configuration the customer wants to buy.
type Order struct {
	Model   string
	RAM     string
	Storage string
	Price   int
}

// Link returns a wa.me URL that opens a chat with the given number and the
// order details prefilled.
func Link(number string, order Order) string {
	message := fmt.Sprintf(
		"Hello Buy Xtra,\nI want to buy:\nModel: %s\nRAM: %s\nStorage: %s\nPrice: ₹%s",
		order.Model, order.RAM, order.Storage, storetypes.FormatINR(order.Price),
	)
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(message))
}

// ProductLink builds an order link for a specific variant of a product.
func ProductLink(number string, p storetypes.Product, v storetypes.Variant) string {
	return Link(number, Order{
		Model:   p.Model,
		RAM:     v.RAM,
		Storage: v.Storage,
		Price:   v.Price,
	})
}
