package checkout

import "errors"

var ErrIllegalTransition = errors.New("illegal transition of checkout state")

// Reason classifies why a checkout attempt failed.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonValidation     Reason = "ValidationError"
	ReasonCustomerLookup Reason = "CustomerLookupError"
	ReasonCustomerCreate Reason = "CustomerCreateError"
	ReasonOrderCreate    Reason = "OrderCreateError"
	ReasonItemInsert     Reason = "ItemInsertError"
	ReasonInternal       Reason = "InternalError"
)

var failureMessages = map[Reason]string{
	ReasonCustomerLookup: "Unable to verify your customer details. Please try again.",
	ReasonCustomerCreate: "We could not create your customer record. Please try again.",
	ReasonOrderCreate:    "Unable to create your order. Please try again.",
	ReasonItemInsert:     "Unable to save the items in your order. Please try again.",
	ReasonInternal:       "Something went wrong while placing your order. Please try again.",
}

// Message is the text shown to the customer for a failure reason.
func (r Reason) Message() string {
	return failureMessages[r]
}
