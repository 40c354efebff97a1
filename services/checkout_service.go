package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"bookstore/config"
	"bookstore/models"
	"bookstore/storage"

	"github.com/google/uuid"
)

const checkoutPrefix = "checkout:"

// CheckoutService drives a user through
// address -> payment_method -> review -> payment_pending -> completed.
// The session lives in the KV store and expires after CheckoutTTL.
type CheckoutService struct {
	kv      storage.KV
	carts   *CartService
	users   UserRepository
	methods PaymentMethodRepository
	orders  OrderRepository
	gateway PaymentGateway
	mailer  Mailer
	cfg     *config.Config
	now     func() time.Time
}

func NewCheckoutService(
	kv storage.KV,
	carts *CartService,
	users UserRepository,
	methods PaymentMethodRepository,
	orders OrderRepository,
	gateway PaymentGateway,
	mailer Mailer,
	cfg *config.Config,
) *CheckoutService {
	return &CheckoutService{
		kv:      kv,
		carts:   carts,
		users:   users,
		methods: methods,
		orders:  orders,
		gateway: gateway,
		mailer:  mailer,
		cfg:     cfg,
		now:     time.Now,
	}
}

func checkoutKey(userID int) string {
	return checkoutPrefix + strconv.Itoa(userID)
}

func (s *CheckoutService) load(ctx context.Context, userID int) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	err := storage.GetJSON(ctx, s.kv, checkoutKey(userID), &session)
	if errors.Is(err, storage.ErrMiss) {
		return nil, fmt.Errorf("checkout session: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *CheckoutService) save(ctx context.Context, session *models.CheckoutSession) error {
	session.UpdatedAt = s.now()
	return storage.SetJSON(ctx, s.kv, checkoutKey(session.UserID), session, s.cfg.CheckoutTTL)
}

// Start replaces any previous session. The address is prefilled from the profile.
func (s *CheckoutService) Start(ctx context.Context, userID int) (*models.CheckoutSession, error) {
	if existing, err := s.load(ctx, userID); err == nil && existing.Step == models.StepPaymentPending {
		return nil, fmt.Errorf("%w: a payment is already pending", models.ErrCheckoutStep)
	}

	cart, err := s.carts.GetCart(ctx, models.CartOwner{UserID: userID})
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, models.ErrCartEmpty
	}

	now := s.now()
	session := &models.CheckoutSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Step:      models.StepAddress,
		Currency:  s.cfg.PaymentCurrency,
		CreatedAt: now,
	}
	if profile, err := s.users.GetProfile(ctx, userID); err == nil {
		if addr := profile.Address(); addr.IsComplete() {
			session.Address = &addr
		}
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *CheckoutService) Get(ctx context.Context, userID int) (*models.CheckoutSession, error) {
	return s.load(ctx, userID)
}

// SetAddress may be repeated until payment is pending; it resets later steps.
func (s *CheckoutService) SetAddress(ctx context.Context, userID int, addr models.ShippingAddress) (*models.CheckoutSession, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Step.Reached(models.StepPaymentPending) {
		return nil, models.ErrCheckoutStep
	}
	if !addr.IsComplete() {
		return nil, models.NewValidationError("shipping address is incomplete")
	}

	session.Address = &addr
	session.PaymentMethodID = 0
	session.Step = models.StepPaymentMethod
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *CheckoutService) SetPaymentMethod(ctx context.Context, userID, paymentMethodID int) (*models.CheckoutSession, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !session.Step.Reached(models.StepPaymentMethod) || session.Step.Reached(models.StepPaymentPending) {
		return nil, models.ErrCheckoutStep
	}
	if _, err := s.methods.GetForUser(ctx, userID, paymentMethodID); err != nil {
		return nil, err
	}

	session.PaymentMethodID = paymentMethodID
	session.Step = models.StepReview
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *CheckoutService) Review(ctx context.Context, userID int) (*models.CheckoutReview, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !session.Step.Reached(models.StepReview) {
		return nil, models.ErrCheckoutStep
	}
	method, err := s.methods.GetForUser(ctx, userID, session.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.GetCart(ctx, models.CartOwner{UserID: userID})
	if err != nil {
		return nil, err
	}
	return &models.CheckoutReview{Session: session, PaymentMethod: method, Cart: cart}, nil
}

// Confirm creates the payment intent for the cart total and returns the
// client secret the storefront hands to the hosted payment element. The priced
// lines are kept on the session; the cart is locked until the session ends.
func (s *CheckoutService) Confirm(ctx context.Context, userID int) (*models.CheckoutConfirmation, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Step == models.StepPaymentPending {
		return confirmation(session), nil
	}
	if session.Step != models.StepReview {
		return nil, models.ErrCheckoutStep
	}

	cart, err := s.carts.GetCart(ctx, models.CartOwner{UserID: userID})
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, models.ErrCartEmpty
	}
	lines := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if !item.Book.IsActive {
			return nil, fmt.Errorf("%w: %s", models.ErrBookUnavailable, item.Book.Title)
		}
		if item.Quantity > item.Book.Stock {
			return nil, fmt.Errorf("%w: %s", models.ErrInsufficientStock, item.Book.Title)
		}
		lines = append(lines, models.OrderItem{
			BookID:    item.BookID,
			Title:     item.Book.Title,
			Quantity:  item.Quantity,
			ListPrice: item.Book.Price,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}

	method, err := s.methods.GetForUser(ctx, userID, session.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, models.CreatePaymentIntentParams{
		Amount:         cart.Totals.Total,
		Currency:       session.Currency,
		PaymentMethod:  method.ProcessorToken,
		CustomerEmail:  user.Email,
		IdempotencyKey: session.ID,
		Metadata: map[string]string{
			"user_id":          strconv.Itoa(userID),
			"checkout_session": session.ID,
		},
	})
	if err != nil {
		log.Printf("checkout: create payment intent for user %d: %v", userID, err)
		return nil, err
	}

	session.PaymentIntentID = intent.ID
	session.ClientSecret = intent.ClientSecret
	session.Amount = intent.Amount
	session.Lines = lines
	totals := cart.Totals
	session.Totals = &totals
	session.Step = models.StepPaymentPending
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return confirmation(session), nil
}

func confirmation(session *models.CheckoutSession) *models.CheckoutConfirmation {
	return &models.CheckoutConfirmation{
		Session:         session,
		PaymentIntentID: session.PaymentIntentID,
		ClientSecret:    session.ClientSecret,
		Amount:          session.Amount,
		Currency:        session.Currency,
	}
}

// Finalize records the order once the processor reports the intent as
// succeeded. Repeating it for the same intent returns the same order.
func (s *CheckoutService) Finalize(ctx context.Context, userID int, intentID string) (*models.Order, error) {
	existing, err := s.orders.FindByPaymentIntent(ctx, intentID)
	if err == nil {
		if existing.UserID == nil || *existing.UserID != userID {
			return nil, models.ErrForbidden
		}
		return existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepPaymentPending {
		return nil, models.ErrCheckoutStep
	}
	if session.Totals == nil || len(session.Lines) == 0 {
		return nil, fmt.Errorf("%w: checkout was not confirmed", models.ErrCheckoutStep)
	}
	if session.PaymentIntentID != intentID {
		return nil, fmt.Errorf("%w: unknown payment intent", models.ErrPaymentMismatch)
	}

	intent, err := s.gateway.GetPaymentIntent(ctx, intentID)
	if err != nil {
		log.Printf("checkout: retrieve payment intent %s: %v", intentID, err)
		return nil, err
	}
	if intent.Status != models.IntentSucceeded {
		return nil, fmt.Errorf("%w: status %s", models.ErrPaymentNotCompleted, intent.Status)
	}
	if intent.Amount != session.Amount {
		return nil, fmt.Errorf("%w: intent amount %d, session amount %d", models.ErrPaymentMismatch, intent.Amount, session.Amount)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FinalizeCheckout(ctx, models.FinalizeCheckoutParams{
		UserID:          userID,
		CustomerEmail:   user.Email,
		OrderNumber:     newOrderNumber("BK", s.now()),
		PaymentIntentID: intentID,
		PaymentMethodID: session.PaymentMethodID,
		Shipping:        *session.Address,
		Lines:           session.Lines,
		Totals:          *session.Totals,
		ExpectedTotal:   intent.Amount,
	})
	if err != nil {
		return nil, err
	}

	if err := s.kv.Delete(ctx, checkoutKey(userID)); err != nil {
		log.Printf("checkout: failed to drop session for user %d: %v", userID, err)
	}
	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(user.Email, order); err != nil {
			log.Printf("checkout: failed to send confirmation for %s: %v", order.OrderNumber, err)
		}
	}
	return order, nil
}

// Cancel abandons the session, cancelling a pending payment intent first.
func (s *CheckoutService) Cancel(ctx context.Context, userID int) error {
	session, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if session.Step == models.StepPaymentPending && session.PaymentIntentID != "" {
		if _, err := s.gateway.CancelPaymentIntent(ctx, session.PaymentIntentID); err != nil {
			log.Printf("checkout: cancel payment intent %s: %v", session.PaymentIntentID, err)
			return err
		}
	}
	return s.kv.Delete(ctx, checkoutKey(userID))
}
