package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/entities"
	"github.com/hayatfoundation/site/internal/payments"
	"github.com/hayatfoundation/site/internal/validation"
)

// DonationStore holds the donation queries the generic repository lacks.
type DonationStore interface {
	Create(ctx context.Context, d *entities.Donation) error
	Delete(ctx context.Context, id uint) error
	BankAccountExists(ctx context.Context, id uint) (bool, error)
	SetCheckout(ctx context.Context, id uint, reference, checkoutURL string) error
}

// DonationsController accepts public donations.
type DonationsController struct {
	resource *ResourceController[entities.Donation]
	store    DonationStore
	gateway  payments.Gateway
	currency string
	siteURL  string
}

// NewDonationsController creates the controller. gateway may be nil, in which
// case card donations are recorded as pending without a checkout.
func NewDonationsController(resource *ResourceController[entities.Donation], store DonationStore, gateway payments.Gateway, currency, siteURL string) *DonationsController {
	if currency == "" {
		currency = "USD"
	}
	return &DonationsController{
		resource: resource,
		store:    store,
		gateway:  gateway,
		currency: strings.ToUpper(currency),
		siteURL:  strings.TrimRight(siteURL, "/"),
	}
}

// Create handles POST /api/donations.
//
// Offline methods need their evidence: a transfer receipt for cash_transfer,
// a deposit slip and an existing bank account for bank_deposit. Status is
// always pending on creation. Card donations open a hosted checkout when a
// gateway is configured; if that fails the donation is removed again.
func (dc *DonationsController) Create(c *gin.Context) {
	donation, ok := dc.resource.decodeNew(c, func(d *entities.Donation) {
		d.Status = entities.DonationStatusPending
		d.PaymentReference = ""
		d.CheckoutURL = ""
		if d.Currency == "" {
			d.Currency = dc.currency
		}
		d.Currency = strings.ToUpper(d.Currency)
		if d.Frequency == "" {
			d.Frequency = entities.DonationOnce
		}
		if d.Method != entities.DonationMethodBankDeposit {
			d.BankAccountID = nil
		}
	})
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if donation.Method == entities.DonationMethodBankDeposit {
		exists, err := dc.store.BankAccountExists(ctx, *donation.BankAccountID)
		if err != nil {
			respondUpstream(c, err, "check bank account")
			return
		}
		if !exists {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation failed",
				Details: []validation.FieldError{{Field: "bankAccountId", Rule: "exists"}},
			})
			return
		}
	}

	if err := dc.store.Create(ctx, donation); err != nil {
		respondUpstream(c, err, "create donation")
		return
	}

	if donation.Method == entities.DonationMethodStripe && dc.gateway != nil {
		if err := dc.startCheckout(ctx, donation); err != nil {
			if delErr := dc.store.Delete(context.Background(), donation.ID); delErr != nil {
				log.Error().Err(delErr).Uint("donation_id", donation.ID).Msg("Failed to remove donation after checkout failure")
			}
			respondUpstream(c, err, "initialise payment")
			return
		}
	}

	respondData(c, http.StatusCreated, donation)
}

func (dc *DonationsController) startCheckout(ctx context.Context, d *entities.Donation) error {
	orderID := fmt.Sprintf("donation-%d-%d", d.ID, time.Now().Unix())
	name := d.DonorName
	if d.IsAnonymous || name == "" {
		name = "Anonymous"
	}

	checkout, err := dc.gateway.CreateCheckout(ctx, payments.CheckoutRequest{
		OrderID:     orderID,
		Amount:      d.Amount,
		Currency:    d.Currency,
		DonorName:   name,
		Email:       d.Email,
		Phone:       d.Phone,
		Description: "Donation " + orderID,
		FinishURL:   dc.siteURL + "/donate/thank-you",
	})
	if err != nil {
		return err
	}

	if err := dc.store.SetCheckout(ctx, d.ID, checkout.Token, checkout.RedirectURL); err != nil {
		return err
	}
	d.PaymentReference = checkout.Token
	d.CheckoutURL = checkout.RedirectURL
	return nil
}
