package handlers

import (
	"context"
	"errors"

	"github.com/dakka24/dakka/internal/client"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Action outcomes recorded in metrics.
const (
	outcomeOK      = "ok"
	outcomeGuard   = "guard"
	outcomeGateway = "gateway"
	outcomePartial = "partial"
	outcomeError   = "error"
)

func outcome(err error) string {
	var (
		guard   *client.GuardViolation
		gateway *client.GatewayError
		partial *client.PartialFailure
	)
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &guard):
		return outcomeGuard
	case errors.As(err, &partial):
		return outcomePartial
	case errors.As(err, &gateway):
		return outcomeGateway
	default:
		return outcomeError
	}
}
