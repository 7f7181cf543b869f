package customer

import "context"

// AddressLookup resolves a postal code into a full address using an external
// service. Implementations never persist what they return.
type AddressLookup interface {
	Lookup(ctx context.Context, postalCode string) (*Address, error)
}
