package chat

import (
	"fmt"
	"strings"

	"buyxtra/pkg/storetypes"
)

// SerializeInventory renders the catalog as the compact text block embedded
// in the system prompt. One record per product: id, name, brand, category,
// and the lowest-priced variant's price on the first line, specs as
// comma-separated key:value pairs on the second, records separated by a
// "---" line. Deterministic for a given catalog; output order is catalog
// order and spec order is the fixture's key order. Images, highlights, and
// merchandising flags are internal-only and never serialized.
func SerializeInventory(products []storetypes.Product) string {
	records := make([]string, len(products))
	for i, p := range products {
		specs := make([]string, len(p.Specs))
		for j, s := range p.Specs {
			specs[j] = s.Key + ":" + strings.TrimSpace(s.Value)
		}
		records[i] = fmt.Sprintf(
			"ID: %s | Name: %s | Brand: %s | Category: %s | Price: ₹%d\nSpecs: %s",
			p.ID, p.Name, p.Brand, p.Category, p.StartingPrice(),
			strings.Join(specs, ", "),
		)
	}
	return strings.Join(records, "\n---\n")
}

// SystemPrompt builds the fixed instruction block for a new session:
// assistant role, language auto-detection across the store's supported
// languages, inventory-only answering, WhatsApp routing for purchases, and
// a brevity directive. The contact number is in international format
// without a plus sign, e.g. "917797037684".
func SystemPrompt(products []storetypes.Product, contactNumber string) string {
	display := displayNumber(contactNumber)
	return fmt.Sprintf(`Role: Buy Xtra Assistant for mobile/electronics.
Goal: Provide FAST product info and drive to WhatsApp (%s).

Lang: Eng, Ben (বাংলা), Hin (हिंदी). Detect user lang and reply same. Be extremely concise.

Data: ONLY use this inventory:
%s

Buying: ONLY via WhatsApp %s. "Click Buy on WhatsApp button to order."
Rules: Keep answers VERY FAST and SHORT.`,
		display, SerializeInventory(products), display)
}

// displayNumber formats "917797037684" as "+91 7797037684" for prompt text.
func displayNumber(number string) string {
	if len(number) > 10 {
		return "+" + number[:len(number)-10] + " " + number[len(number)-10:]
	}
	return "+" + number
}
