package endpoints

import "errors"

var errInvalidType = errors.New("invalid type")

// Endpoints collects the go-kit endpoints served over HTTP.
type Endpoints struct {
	Offer    OfferEndpoint
	Place    PlaceEndpoint
	Chat     ChatEndpoint
	Policy   PolicyEndpoint
	Billing  BillingEndpoint
	Document DocumentEndpoint
	Tool     ToolEndpoint
}
