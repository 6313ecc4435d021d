package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buyxtra/pkg/storetypes"
)

func TestLink(t *testing.T) {
	got := Link("917797037684", Order{
		Model:   "Galaxy S24 Ultra",
		RAM:     "12GB",
		Storage: "256GB",
		Price:   129999,
	})

	require.True(t, strings.HasPrefix(got, "https://wa.me/917797037684?text="))

	parsed, err := url.Parse(got)
	require.NoError(t, err)

	text := parsed.Query().Get("text")
	assert.Contains(t, text, "Hello Buy Xtra,")
	assert.Contains(t, text, "Model: Galaxy S24 Ultra")
	assert.Contains(t, text, "RAM: 12GB")
	assert.Contains(t, text, "Storage: 256GB")
	assert.Contains(t, text, "Price: ₹1,29,999")
}

func TestLinkIsDeterministic(t *testing.T) {
	order := Order{Model: "Pixel 8", RAM: "8GB", Storage: "128GB", Price: 65999}
	assert.Equal(t, Link("917797037684", order), Link("917797037684", order))
}

func TestProductLink(t *testing.T) {
	p := storetypes.Product{
		Model: "vivo V60",
		Variants: []storetypes.Variant{
			{RAM: "8GB", Storage: "128GB", Price: 34999, OriginalPrice: 41999},
		},
	}

	got := ProductLink("917797037684", p, p.Variants[0])
	parsed, err := url.Parse(got)
	require.NoError(t, err)

	text := parsed.Query().Get("text")
	assert.Contains(t, text, "Model: vivo V60")
	assert.Contains(t, text, "Price: ₹34,999")
}
