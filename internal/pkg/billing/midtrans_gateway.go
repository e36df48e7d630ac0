package billing

import (
	"context"

	"tapcard-be/internal/pkg/logger"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

// Gateway is the write-through boundary to the Billing Provider. Its
// response is never required for the local state transition to be
// authoritative; failures are logged and reported, not swallowed and not
// blocking.
type Gateway interface {
	NotifyCancellation(ctx context.Context, providerRef string) error
	NotifyReactivation(ctx context.Context, providerRef string) error
}

type midtransGateway struct {
	client coreapi.Client
	logger logger.ILogger
}

func NewMidtransGateway(serverKey string, production bool, log logger.ILogger) Gateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	var client coreapi.Client
	client.New(serverKey, env)
	return &midtransGateway{client: client, logger: log}
}

func (g *midtransGateway) NotifyCancellation(ctx context.Context, providerRef string) error {
	if providerRef == "" {
		return nil
	}
	_, midErr := g.client.CancelTransaction(providerRef)
	if midErr != nil {
		g.logger.Error("BILLING", "Failed to notify billing provider of cancellation", map[string]interface{}{
			"provider_ref": providerRef,
			"error":        midErr.GetMessage(),
		})
		return midErr
	}
	g.logger.Info("BILLING", "Billing provider notified of cancellation", map[string]interface{}{
		"provider_ref": providerRef,
	})
	return nil
}

func (g *midtransGateway) NotifyReactivation(ctx context.Context, providerRef string) error {
	if providerRef == "" {
		return nil
	}
	// Midtrans has no first-class reactivation; checking the transaction
	// status is the provider-side acknowledgement that the reference is
	// still valid after local reactivation.
	_, midErr := g.client.CheckTransaction(providerRef)
	if midErr != nil {
		g.logger.Error("BILLING", "Failed to verify billing reference on reactivation", map[string]interface{}{
			"provider_ref": providerRef,
			"error":        midErr.GetMessage(),
		})
		return midErr
	}
	g.logger.Info("BILLING", "Billing provider acknowledged reactivation", map[string]interface{}{
		"provider_ref": providerRef,
	})
	return nil
}
