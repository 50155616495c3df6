// Package payment wraps the checkout-session collaborator. The rest of the
// app only sees CheckoutParams in and a session handle out.
package payment

import (
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// CheckoutParams describes a single-item checkout.
type CheckoutParams struct {
	CustomerEmail     string
	ClientReferenceID string
	SuccessURL        string
	CancelURL         string
	ItemName          string
	ItemDescription   string
	ItemImageURL      string
	// AmountCents is the unit price in the smallest currency unit.
	AmountCents int64
	Currency    string
}

// Session is the handle a client-side redirect consumes.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Provider creates checkout sessions.
type Provider interface {
	CreateCheckoutSession(params CheckoutParams) (*Session, error)
}

// StripeProvider implements Provider against the Stripe API.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateCheckoutSession(params CheckoutParams) (*Session, error) {
	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
		CustomerEmail:      stripe.String(params.CustomerEmail),
		ClientReferenceID:  stripe.String(params.ClientReferenceID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(params.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(params.ItemName),
						Description: stripe.String(params.ItemDescription),
						Images:      stripe.StringSlice([]string{params.ItemImageURL}),
					},
				},
			},
		},
	}

	sess, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &Session{ID: sess.ID, URL: sess.URL}, nil
}
