package billing

// CheckoutRequest starts a hosted checkout for a tier. OriginURL is the
// frontend origin the gateway redirects back to.
type CheckoutRequest struct {
	TierID    string `json:"tier_id" validate:"required"`
	OriginURL string `json:"origin_url" validate:"required,url"`
}

// CheckoutResponse carries the hosted checkout handoff.
type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

// ReconcileResult reports the gateway's view of a checkout session after a
// reconciliation pass.
type ReconcileResult struct {
	Status              string `json:"status"`
	PaymentStatus       string `json:"payment_status"`
	Amount              string `json:"amount,omitempty"`
	Currency            string `json:"currency,omitempty"`
	Message             string `json:"message,omitempty"`
	SubscriptionCreated bool   `json:"-"`
}
