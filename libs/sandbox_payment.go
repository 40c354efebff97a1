package libs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"bookstore/models"

	"github.com/google/uuid"
)

// SandboxGateway settles every payment intent immediately. It is only wired
// outside production when no processor secret key is configured.
type SandboxGateway struct {
	mu      sync.Mutex
	intents map[string]*models.PaymentIntent
	byKey   map[string]string
}

func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{
		intents: make(map[string]*models.PaymentIntent),
		byKey:   make(map[string]string),
	}
}

func (g *SandboxGateway) CreatePaymentIntent(_ context.Context, params models.CreatePaymentIntentParams) (*models.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.byKey[params.IdempotencyKey]; ok && params.IdempotencyKey != "" {
		intent := *g.intents[id]
		return &intent, nil
	}

	id := "pi_sandbox_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	intent := &models.PaymentIntent{
		ID:           id,
		Amount:       params.Amount,
		Currency:     strings.ToLower(params.Currency),
		Status:       models.IntentSucceeded,
		ClientSecret: id + "_secret",
		Metadata:     params.Metadata,
	}
	g.intents[id] = intent
	if params.IdempotencyKey != "" {
		g.byKey[params.IdempotencyKey] = id
	}

	out := *intent
	return &out, nil
}

func (g *SandboxGateway) GetPaymentIntent(_ context.Context, id string) (*models.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("%w: no such payment intent %s", models.ErrPaymentGateway, id)
	}
	out := *intent
	return &out, nil
}

func (g *SandboxGateway) CancelPaymentIntent(_ context.Context, id string) (*models.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("%w: no such payment intent %s", models.ErrPaymentGateway, id)
	}
	intent.Status = models.IntentCanceled
	out := *intent
	return &out, nil
}
