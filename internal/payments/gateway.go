// Package payments sells monthly subscriptions through a checkout gateway.
package payments

import (
	"context"
	"errors"
)

// ErrGatewayDisabled is returned when no gateway credentials are configured.
var ErrGatewayDisabled = errors.New("payments: gateway not configured")

// Item is a single checkout line.
type Item struct {
	ID          string
	Title       string
	Description string
	Price       int
}

// PreferenceInput describes a checkout to create.
type PreferenceInput struct {
	Item              Item
	PayerName         string
	PayerEmail        string
	ExternalReference string
	SuccessURL        string
	FailureURL        string
	PendingURL        string
	NotificationURL   string
}

// Preference is a created checkout.
type Preference struct {
	ID               string
	InitPoint        string
	SandboxInitPoint string
}

// PaymentInfo is the gateway's view of a payment.
type PaymentInfo struct {
	ID                int64
	Status            string
	ExternalReference string
}

// StatusApproved is the gateway status of a settled payment.
const StatusApproved = "approved"

// Gateway creates checkouts and looks up payments.
type Gateway interface {
	CreatePreference(ctx context.Context, in PreferenceInput) (*Preference, error)
	Payment(ctx context.Context, id int64) (*PaymentInfo, error)
}

// DisabledGateway rejects every call.
type DisabledGateway struct{}

func (DisabledGateway) CreatePreference(context.Context, PreferenceInput) (*Preference, error) {
	return nil, ErrGatewayDisabled
}

func (DisabledGateway) Payment(context.Context, int64) (*PaymentInfo, error) {
	return nil, ErrGatewayDisabled
}
