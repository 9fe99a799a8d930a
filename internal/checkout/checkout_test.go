package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-service/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCartID = "cart-1"

type fakeCreator struct {
	calls   int
	fail    bool
	lastDoc any
}

func (f *fakeCreator) Create(_ context.Context, doc any) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("cms write failed")
	}
	f.lastDoc = doc
	return "order-abc", nil
}

func validBilling() BillingDetails {
	return BillingDetails{
		FirstName:     "Ada",
		Address:       "1 Main St",
		City:          "Karachi",
		Province:      "Sindh",
		ZipCode:       "74000",
		Contact:       "0300-0000000",
		Email:         "ada@example.com",
		PaymentMethod: PaymentCashOnDelivery,
	}
}

func newTestConf(t *testing.T, creator Creator) (*Conf, cart.Conf) {
	t.Helper()
	cartConf, err := cart.NewConf(cart.NewMemoryStore())
	require.NoError(t, err)
	conf, err := NewConf(cartConf, creator, nil)
	require.NoError(t, err)
	return conf, cartConf
}

func fillCart(t *testing.T, cartConf cart.Conf) {
	t.Helper()
	ctx := context.Background()
	productA := cart.AddedProduct{ID: "p-a", Title: "Armchair", Price: 100}
	productB := cart.AddedProduct{ID: "p-b", Title: "Side Table", Price: 50}
	require.NoError(t, cartConf.Add(ctx, testCartID, productA))
	require.NoError(t, cartConf.Add(ctx, testCartID, productA))
	require.NoError(t, cartConf.Add(ctx, testCartID, productB))
	require.NoError(t, cartConf.ApplyDiscount(ctx, testCartID, 20))
}

func TestValidateBillingFlagsExactlyBlankFields(t *testing.T) {
	conf, _ := newTestConf(t, &fakeCreator{})

	fieldErrs := conf.ValidateBilling(BillingDetails{})
	expected := map[string]bool{
		"firstName":     true,
		"address":       true,
		"city":          true,
		"province":      true,
		"zipCode":       true,
		"contact":       true,
		"email":         true,
		"paymentMethod": true,
	}
	assert.Equal(t, expected, fieldErrs)

	billing := validBilling()
	billing.City = ""
	billing.Email = ""
	fieldErrs = conf.ValidateBilling(billing)
	assert.Equal(t, map[string]bool{"city": true, "email": true}, fieldErrs)

	assert.Empty(t, conf.ValidateBilling(validBilling()))
}

func TestValidateBillingRejectsUnknownPaymentMethod(t *testing.T) {
	conf, _ := newTestConf(t, &fakeCreator{})

	billing := validBilling()
	billing.PaymentMethod = "credit_card"
	fieldErrs := conf.ValidateBilling(billing)
	assert.Equal(t, map[string]bool{"paymentMethod": true}, fieldErrs)
}

func TestPlaceOrderRejectsInvalidBillingWithoutWrite(t *testing.T) {
	creator := &fakeCreator{}
	conf, cartConf := newTestConf(t, creator)
	fillCart(t, cartConf)

	billing := validBilling()
	billing.ZipCode = ""
	_, fieldErrs, err := conf.PlaceOrder(context.Background(), testCartID, billing)

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, map[string]bool{"zipCode": true}, fieldErrs)
	assert.Zero(t, creator.calls, "no network call may happen on validation failure")
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	creator := &fakeCreator{}
	conf, _ := newTestConf(t, creator)

	_, _, err := conf.PlaceOrder(context.Background(), testCartID, validBilling())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, creator.calls)
}

func TestPlaceOrderComputesTotals(t *testing.T) {
	creator := &fakeCreator{}
	conf, cartConf := newTestConf(t, creator)
	fillCart(t, cartConf)

	// {ProductA: qty 2 @ 100, ProductB: qty 1 @ 50}, discount 20.
	order, fieldErrs, err := conf.PlaceOrder(context.Background(), testCartID, validBilling())
	require.NoError(t, err)
	assert.Empty(t, fieldErrs)

	assert.Equal(t, 250.0, order.SubTotal)
	assert.Equal(t, 20.0, order.Discount)
	assert.Equal(t, 230.0, order.Total)
	assert.Equal(t, "order", order.Type)
	assert.Equal(t, StatusPending, order.OrderStatus)
	assert.WithinDuration(t, time.Now().UTC(), order.CreatedAt, time.Minute)

	require.Len(t, order.CartItems, 2)
	assert.Equal(t, Reference{Type: "reference", Ref: "p-a"}, order.CartItems[0])
	assert.Equal(t, Reference{Type: "reference", Ref: "p-b"}, order.CartItems[1])

	require.Equal(t, 1, creator.calls)
	submitted, ok := creator.lastDoc.(Order)
	require.True(t, ok)
	assert.Equal(t, order, submitted)
}

func TestPlaceOrderSuccessClearsCartAndDiscount(t *testing.T) {
	conf, cartConf := newTestConf(t, &fakeCreator{})
	fillCart(t, cartConf)
	ctx := context.Background()

	_, _, err := conf.PlaceOrder(ctx, testCartID, validBilling())
	require.NoError(t, err)

	lines, err := cartConf.Items(ctx, testCartID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	discount, err := cartConf.Discount(ctx, testCartID)
	require.NoError(t, err)
	assert.Zero(t, discount)
}

func TestPlaceOrderWriteFailurePreservesCart(t *testing.T) {
	conf, cartConf := newTestConf(t, &fakeCreator{fail: true})
	fillCart(t, cartConf)
	ctx := context.Background()

	before, err := cartConf.Items(ctx, testCartID)
	require.NoError(t, err)

	_, _, err = conf.PlaceOrder(ctx, testCartID, validBilling())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)

	after, err := cartConf.Items(ctx, testCartID)
	require.NoError(t, err)
	assert.Equal(t, before, after, "cart must be unchanged after a write failure")

	discount, err := cartConf.Discount(ctx, testCartID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, discount, "discount must survive a write failure")
}
