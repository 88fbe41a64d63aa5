// Package payment charges checkout totals through a payment gateway.
package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/charge"
)

// Gateway submits a one-shot charge and returns the gateway's charge
// id. Amount is in integer minor units; token is the opaque payment
// source supplied by the client.
type Gateway interface {
	Charge(ctx context.Context, amount int, currency, token string) (string, error)
}

// StripeGateway charges through Stripe.
type StripeGateway struct{}

// NewStripeGateway configures the Stripe client with the secret key and
// returns the gateway.
func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

// Charge submits a single charge. There is no retry and no refund path
// here; a failure surfaces to the caller as a failed mutation.
func (g *StripeGateway) Charge(ctx context.Context, amount int, currency, token string) (string, error) {
	params := &stripe.ChargeParams{
		Amount:   stripe.Int64(int64(amount)),
		Currency: stripe.String(currency),
		Source:   &stripe.PaymentSourceSourceParams{Token: stripe.String(token)},
	}
	params.Context = ctx

	ch, err := charge.New(params)
	if err != nil {
		return "", fmt.Errorf("charging card: %w", err)
	}
	return ch.ID, nil
}
