package payments

import (
	"context"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

// MercadoPago is the Gateway backed by the Mercado Pago API.
type MercadoPago struct {
	preferences preference.Client
	payments    payment.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

func (m *MercadoPago) CreatePreference(ctx context.Context, in PreferenceInput) (*Preference, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{{
			ID:          in.Item.ID,
			Title:       in.Item.Title,
			Description: in.Item.Description,
			Quantity:    1,
			CurrencyID:  "ARS",
			UnitPrice:   float64(in.Item.Price),
		}},
		Payer: &preference.PayerRequest{
			Name:  in.PayerName,
			Email: in.PayerEmail,
		},
		ExternalReference: in.ExternalReference,
		NotificationURL:   in.NotificationURL,
	}
	if in.SuccessURL != "" {
		req.BackURLs = &preference.BackURLsRequest{
			Success: in.SuccessURL,
			Failure: in.FailureURL,
			Pending: in.PendingURL,
		}
		req.AutoReturn = "approved"
	}

	res, err := m.preferences.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}
	return &Preference{ID: res.ID, InitPoint: res.InitPoint, SandboxInitPoint: res.SandboxInitPoint}, nil
}

func (m *MercadoPago) Payment(ctx context.Context, id int64) (*PaymentInfo, error) {
	res, err := m.payments.Get(ctx, int(id))
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	return &PaymentInfo{ID: int64(res.ID), Status: res.Status, ExternalReference: res.ExternalReference}, nil
}
