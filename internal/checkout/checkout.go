// Package checkout validates billing details, assembles the order document
// from the cart, and submits it to the CMS as a single create.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/stores/kafka"
	"storefront-service/pkg/logkey"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation signals that required billing fields are missing; the
	// accompanying field map names exactly which ones.
	ErrValidation = errors.New("billing details are incomplete")

	// ErrEmptyCart rejects checkout before any write is attempted.
	ErrEmptyCart = errors.New("cart is empty")
)

// Creator is the CMS write port, satisfied by the sanity client.
type Creator interface {
	Create(ctx context.Context, doc any) (string, error)
}

type Conf struct {
	cart     cart.Conf
	creator  Creator
	producer *kafka.Conf // optional, nil disables order events
	validate *validator.Validate
	now      func() time.Time
}

func NewConf(cartConf cart.Conf, creator Creator, producer *kafka.Conf) (*Conf, error) {
	if creator == nil {
		return nil, fmt.Errorf("creator is nil")
	}

	validate := validator.New()
	// Error map keys must match the form's field names, not Go names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Conf{
		cart:     cartConf,
		creator:  creator,
		producer: producer,
		validate: validate,
		now:      time.Now,
	}, nil
}

// ValidateBilling checks the required billing fields and returns a map
// flagging each failing field. An empty map means the details are valid.
// No network call is ever made here.
func (c *Conf) ValidateBilling(billing BillingDetails) map[string]bool {
	fieldErrs := map[string]bool{}
	err := c.validate.Struct(billing)
	if err == nil {
		return fieldErrs
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		for _, vErr := range vErrs {
			fieldErrs[vErr.Field()] = true
		}
		return fieldErrs
	}

	// Not a field-level failure; reject the whole payload.
	fieldErrs["_payload"] = true
	return fieldErrs
}

// PlaceOrder validates billing details, assembles the order from the
// current cart and submits it to the CMS. On success the cart and the
// applied discount are cleared and the form can be reset by the caller.
// On any failure the cart and discount are left untouched so the shopper
// can resubmit; nothing is retried automatically.
func (c *Conf) PlaceOrder(ctx context.Context, cartID string, billing BillingDetails) (Order, map[string]bool, error) {
	if fieldErrs := c.ValidateBilling(billing); len(fieldErrs) > 0 {
		return Order{}, fieldErrs, ErrValidation
	}

	lines, err := c.cart.Items(ctx, cartID)
	if err != nil {
		return Order{}, nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(lines) == 0 {
		return Order{}, nil, ErrEmptyCart
	}

	var subTotal float64
	references := make([]Reference, 0, len(lines))
	for _, line := range lines {
		subTotal += line.Price * float64(line.Quantity)
		references = append(references, Reference{Type: "reference", Ref: line.ProductID})
	}

	discount, err := c.cart.Discount(ctx, cartID)
	if err != nil {
		return Order{}, nil, fmt.Errorf("failed to read discount: %w", err)
	}

	order := Order{
		Type:           "order",
		FirstName:      billing.FirstName,
		LastName:       billing.LastName,
		CompanyName:    billing.CompanyName,
		Region:         billing.Region,
		Address:        billing.Address,
		City:           billing.City,
		Province:       billing.Province,
		ZipCode:        billing.ZipCode,
		Contact:        billing.Contact,
		Email:          billing.Email,
		AdditionalInfo: billing.AdditionalInfo,
		CartItems:      references,
		SubTotal:       subTotal,
		Discount:       discount,
		Total:          subTotal - discount,
		PaymentMethod:  billing.PaymentMethod,
		OrderStatus:    StatusPending,
		CreatedAt:      c.now().UTC(),
	}

	orderID, err := c.creator.Create(ctx, order)
	if err != nil {
		// Cart and discount stay as they were so resubmission works.
		return Order{}, nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := c.cart.Clear(ctx, cartID); err != nil {
		slog.Error("order created but cart not cleared",
			slog.String(logkey.OrderID, orderID), slog.String(logkey.CartID, cartID),
			slog.String(logkey.ERROR, err.Error()))
	}
	if err := c.cart.ClearDiscount(ctx, cartID); err != nil {
		slog.Error("order created but discount not cleared",
			slog.String(logkey.OrderID, orderID), slog.String(logkey.CartID, cartID),
			slog.String(logkey.ERROR, err.Error()))
	}

	c.publishOrderPlaced(orderID, order, len(lines))

	return order, nil, nil
}

// publishOrderPlaced emits the order event in the background; event
// delivery never affects the checkout response.
func (c *Conf) publishOrderPlaced(orderID string, order Order, itemCount int) {
	if c.producer == nil {
		return
	}
	go func() {
		event := kafka.OrderPlacedEvent{
			OrderID:   orderID,
			Email:     order.Email,
			Total:     order.Total,
			ItemCount: itemCount,
			CreatedAt: order.CreatedAt,
		}
		jsonData, err := json.Marshal(event)
		if err != nil {
			slog.Error("failed to marshal order event", slog.String(logkey.ERROR, err.Error()))
			return
		}
		if err := c.producer.ProduceMessage(kafka.TopicOrderPlaced, []byte(orderID), jsonData); err != nil {
			slog.Error("failed to produce order event",
				slog.String(logkey.OrderID, orderID), slog.String(logkey.ERROR, err.Error()))
			return
		}
		slog.Info("order event produced", slog.String(logkey.OrderID, orderID))
	}()
}
