// Package payments starts hosted checkouts for online donations.
package payments

import (
	"context"
	"errors"
	"fmt"
	"math"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/hayatfoundation/site/internal/config"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// CheckoutRequest carries the donation data the gateway needs.
type CheckoutRequest struct {
	OrderID     string
	Amount      float64
	Currency    string
	DonorName   string
	Email       string
	Phone       string
	Description string
	FinishURL   string
}

// Checkout is the hosted payment page created for a donation.
type Checkout struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}

// Gateway creates hosted checkouts.
type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
}

// SnapGateway creates checkouts through the Snap API.
type SnapGateway struct {
	client snap.Client
}

// NewGateway returns nil when no secret key is configured; online donations
// are then recorded as pending without a checkout.
func NewGateway(cfg config.Payment) Gateway {
	if cfg.SecretKey == "" {
		return nil
	}
	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}
	g := &SnapGateway{}
	g.client.New(cfg.SecretKey, env)
	return g
}

func (g *SnapGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gross := int64(math.Round(req.Amount))
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.DonorName,
			Email: req.Email,
			Phone: req.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    req.OrderID,
			Name:  truncate(req.Description, 50),
			Price: gross,
			Qty:   1,
		}},
	}
	if req.FinishURL != "" {
		snapReq.Callbacks = &snap.Callbacks{Finish: req.FinishURL}
	}

	resp, mErr := g.client.CreateTransaction(snapReq)
	if mErr != nil {
		return nil, fmt.Errorf("failed to create checkout: %w", mErr)
	}
	return &Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
