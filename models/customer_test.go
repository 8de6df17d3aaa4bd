package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestResolveShippingAddressDefaults(t *testing.T) {
	billing := Address{AddressLine1: "12 MG Road", City: "Pune", State: "Maharashtra"}
	shipping := Address{AddressLine1: "Warehouse 4", City: "Nashik", State: "Maharashtra"}

	cust := Customer{
		BillingAddress:  datatypes.NewJSONType(billing),
		ShippingAddress: datatypes.NewJSONType(ShippingAddress{Address: shipping}),
	}
	assert.Equal(t, shipping, cust.ResolveShippingAddress(""))
}

func TestResolveShippingAddressSameAsBilling(t *testing.T) {
	billing := Address{AddressLine1: "12 MG Road", City: "Pune", State: "Maharashtra"}

	cust := Customer{
		BillingAddress:  datatypes.NewJSONType(billing),
		ShippingAddress: datatypes.NewJSONType(ShippingAddress{SameAsBilling: true}),
	}
	assert.Equal(t, billing, cust.ResolveShippingAddress(""))

	// An empty shipping address falls back to billing too.
	cust.ShippingAddress = datatypes.NewJSONType(ShippingAddress{})
	assert.Equal(t, billing, cust.ResolveShippingAddress(""))
}

func TestResolveShippingAddressAlternate(t *testing.T) {
	billing := Address{AddressLine1: "12 MG Road", City: "Pune", State: "Maharashtra"}
	alt := Address{AddressLine1: "Plot 9, MIDC", City: "Aurangabad", State: "Maharashtra"}

	cust := Customer{
		BillingAddress: datatypes.NewJSONType(billing),
		ShippingAddresses: datatypes.NewJSONType([]AltShippingAddress{
			{ID: "alt-1", Address: alt},
		}),
	}
	assert.Equal(t, alt, cust.ResolveShippingAddress("alt-1"))
	// Unknown id falls through to the default resolution.
	assert.Equal(t, billing, cust.ResolveShippingAddress("alt-9"))
}
