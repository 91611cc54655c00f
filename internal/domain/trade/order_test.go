package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newDeliveryOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(uuid.New(), uuid.New(), Customer{Name: "Ana", Phone: "1155550000", Address: "Av. Siempre Viva 742"}, OrderTypeDelivery, PaymentMethodCash)
	require.NoError(t, err)
	return o
}

func assertTotalInvariant(t *testing.T, o *Order) {
	t.Helper()
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.Subtotal)
	}
	assert.True(t, sum.Add(o.Tax).Add(o.DeliveryFee).Sub(o.Discount).Equal(o.Total),
		"subtotal %s + tax %s + fee %s - discount %s != total %s", sum, o.Tax, o.DeliveryFee, o.Discount, o.Total)
	assert.NoError(t, o.VerifyTotals())
}

func TestStatusTable(t *testing.T) {
	for _, s := range AllOrderStatuses() {
		assert.True(t, s.IsValid(), s)
	}
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusDelivered.IsTerminal())
	assert.False(t, OrderStatus("lost").IsTerminal())

	assert.ElementsMatch(t, []OrderStatus{OrderStatusInTransit, OrderStatusCompleted, OrderStatusCancelled}, OrderStatusReady.AllowedNext())
	assert.Equal(t, []OrderStatus{OrderStatusCompleted}, OrderStatusDelivered.AllowedNext())
	assert.Empty(t, OrderStatusCompleted.AllowedNext())
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusNew.CanTransitionTo(OrderStatusReceived))
	assert.False(t, OrderStatusNew.CanTransitionTo(OrderStatusReady))
}

func TestNewOrder(t *testing.T) {
	tenantID, branchID := uuid.New(), uuid.New()

	t.Run("delivery requires address", func(t *testing.T) {
		_, err := NewOrder(tenantID, branchID, Customer{Name: "Ana", Phone: "1"}, OrderTypeDelivery, PaymentMethodCash)
		require.Error(t, err)
		assert.Equal(t, "La dirección es obligatoria para envíos", err.Error())
	})

	t.Run("pickup does not require address", func(t *testing.T) {
		o, err := NewOrder(tenantID, branchID, Customer{Name: "Ana", Phone: "1"}, OrderTypePickup, PaymentMethodCard)
		require.NoError(t, err)
		assert.Equal(t, OrderStatusNew, o.Status)
		assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		_, err := NewOrder(tenantID, branchID, Customer{Phone: "1"}, OrderTypePickup, PaymentMethodCash)
		assert.Error(t, err)
		_, err = NewOrder(tenantID, branchID, Customer{Name: "Ana"}, OrderTypePickup, PaymentMethodCash)
		assert.Error(t, err)
		_, err = NewOrder(tenantID, branchID, Customer{Name: "Ana", Phone: "1"}, OrderType("drone"), PaymentMethodCash)
		assert.Error(t, err)
		_, err = NewOrder(tenantID, branchID, Customer{Name: "Ana", Phone: "1"}, OrderTypePickup, PaymentMethod("crypto"))
		assert.Error(t, err)
		_, err = NewOrder(tenantID, uuid.Nil, Customer{Name: "Ana", Phone: "1"}, OrderTypePickup, PaymentMethodCash)
		assert.Error(t, err)
	})
}

func TestOrder_Totals(t *testing.T) {
	o := newDeliveryOrder(t)

	item, err := o.AddItem(uuid.New(), "Muzzarella", d("8500"), 2, []ItemExtra{{Name: "Doble queso", Price: d("1200")}}, "")
	require.NoError(t, err)
	assert.True(t, item.Subtotal.Equal(d("19400")))

	_, err = o.AddItem(uuid.New(), "Cola", d("1500"), 1, nil, "bien fría")
	require.NoError(t, err)

	require.NoError(t, o.SetCharges(d("10.5"), d("800")))
	require.NoError(t, o.ApplyDiscount(d("1000")))

	assert.True(t, o.Subtotal.Equal(d("20900")))
	assert.True(t, o.Tax.Equal(d("2194.5")))
	assert.True(t, o.DeliveryFee.Equal(d("800")))
	assert.True(t, o.Total.Equal(d("22894.5")))
	assertTotalInvariant(t, o)
	assert.Equal(t, 3, o.ItemCount())
}

func TestOrder_TotalsAfterEdits(t *testing.T) {
	o := newDeliveryOrder(t)
	require.NoError(t, o.SetCharges(d("21"), d("500")))
	a, _ := o.AddItem(uuid.New(), "Empanada", d("900.333"), 6, nil, "")
	aID := a.ID
	b, _ := o.AddItem(uuid.New(), "Flan", d("2500"), 1, []ItemExtra{{Name: "Dulce de leche", Price: d("300")}}, "")
	bID := b.ID
	assertTotalInvariant(t, o)

	require.NoError(t, o.UpdateItemQuantity(aID, 12))
	assertTotalInvariant(t, o)

	require.NoError(t, o.RemoveItem(bID))
	assertTotalInvariant(t, o)
	assert.Len(t, o.Items, 1)

	assert.Error(t, o.RemoveItem(bID))
	assert.Error(t, o.UpdateItemQuantity(aID, 0))
	assert.Error(t, o.UpdateItemQuantity(aID, 100))
}

func TestOrder_DeliveryFeeOnlyForDelivery(t *testing.T) {
	o, err := NewOrder(uuid.New(), uuid.New(), Customer{Name: "Ana", Phone: "1"}, OrderTypePickup, PaymentMethodCash)
	require.NoError(t, err)
	_, _ = o.AddItem(uuid.New(), "Muzzarella", d("8500"), 1, nil, "")
	require.NoError(t, o.SetCharges(decimal.Zero, d("800")))
	assert.True(t, o.DeliveryFee.IsZero())
	assert.True(t, o.Total.Equal(d("8500")))
}

func TestOrder_DiscountCannotExceedTotal(t *testing.T) {
	o := newDeliveryOrder(t)
	_, _ = o.AddItem(uuid.New(), "Cola", d("1500"), 1, nil, "")
	require.NoError(t, o.SetCharges(decimal.Zero, d("500")))

	require.NoError(t, o.ApplyDiscount(d("2000")))
	assert.True(t, o.Total.IsZero())

	err := o.ApplyDiscount(d("2000.01"))
	require.Error(t, err)
	assert.True(t, o.Discount.Equal(d("2000")))
	assertTotalInvariant(t, o)

	assert.Error(t, o.ApplyDiscount(d("-1")))
}

func TestOrder_Place(t *testing.T) {
	o := newDeliveryOrder(t)
	assert.Error(t, o.Place(1, decimal.Zero), "empty order")

	_, _ = o.AddItem(uuid.New(), "Cola", d("1500"), 1, nil, "")
	err := o.Place(1, d("5000"))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "BELOW_MINIMUM_ORDER", domainErr.Code)

	require.NoError(t, o.Place(7, d("1000")))
	assert.Equal(t, "#0007", o.Number)
	assert.Equal(t, 7, o.Sequence)
	require.Len(t, o.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeOrderPlaced, o.GetDomainEvents()[0].EventType())

	assert.Error(t, o.Place(8, decimal.Zero))
}

func TestOrder_CheckPlaceable(t *testing.T) {
	o := newDeliveryOrder(t)
	_, _ = o.AddItem(uuid.New(), "Cola", d("1500"), 1, nil, "")

	assert.Error(t, o.CheckPlaceable(d("5000")))
	require.NoError(t, o.CheckPlaceable(d("1500")))
	assert.Empty(t, o.Number, "checking does not number the order")
	assert.Empty(t, o.GetDomainEvents())

	assert.Error(t, o.Place(0, decimal.Zero))
	assert.Empty(t, o.Number)
}

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "#0001", FormatOrderNumber(1))
	assert.Equal(t, "#0042", FormatOrderNumber(42))
	assert.Equal(t, "#12345", FormatOrderNumber(12345))
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("delivery happy path", func(t *testing.T) {
		o := newDeliveryOrder(t)
		for _, s := range []OrderStatus{OrderStatusReceived, OrderStatusPreparing, OrderStatusReady, OrderStatusInTransit, OrderStatusDelivered, OrderStatusCompleted} {
			require.NoError(t, o.TransitionTo(s, ""), s)
		}
		assert.False(t, o.IsActive())
		assert.Error(t, o.Cancel("tarde"))
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		o := newDeliveryOrder(t)
		err := o.TransitionTo(OrderStatusReady, "")
		require.Error(t, err)
		assert.Equal(t, "No se puede pasar de Nuevo a Listo", err.Error())
		assert.Equal(t, OrderStatusNew, o.Status)
	})

	t.Run("pickup cannot go in transit", func(t *testing.T) {
		o, _ := NewOrder(uuid.New(), uuid.New(), Customer{Name: "Ana", Phone: "1"}, OrderTypePickup, PaymentMethodCash)
		require.NoError(t, o.TransitionTo(OrderStatusReceived, ""))
		require.NoError(t, o.TransitionTo(OrderStatusPreparing, ""))
		require.NoError(t, o.TransitionTo(OrderStatusReady, ""))
		assert.Equal(t, []OrderStatus{OrderStatusCompleted, OrderStatusCancelled}, o.AllowedNextStatuses())
		assert.Error(t, o.TransitionTo(OrderStatusInTransit, ""))
		require.NoError(t, o.TransitionTo(OrderStatusCompleted, ""))
	})

	t.Run("cancel records reason and bumps version", func(t *testing.T) {
		o := newDeliveryOrder(t)
		v := o.Version
		require.NoError(t, o.Cancel(" sin stock "))
		assert.Equal(t, OrderStatusCancelled, o.Status)
		assert.Equal(t, "sin stock", o.CancelReason)
		assert.Equal(t, v+1, o.Version)
		ev := o.GetDomainEvents()[len(o.GetDomainEvents())-1].(*OrderStatusChangedEvent)
		assert.Equal(t, OrderStatusNew, ev.OldStatus)
		assert.Equal(t, OrderStatusCancelled, ev.NewStatus)
	})

	t.Run("items are frozen after new", func(t *testing.T) {
		o := newDeliveryOrder(t)
		require.NoError(t, o.TransitionTo(OrderStatusReceived, ""))
		_, err := o.AddItem(uuid.New(), "Cola", d("1500"), 1, nil, "")
		assert.Error(t, err)
	})
}

func TestOrder_UpdatePaymentStatus(t *testing.T) {
	o := newDeliveryOrder(t)

	paid, err := o.UpdatePaymentStatus(PaymentStatusPaid)
	require.NoError(t, err)
	assert.True(t, paid)
	assert.NotNil(t, o.PaidAt)
	assert.True(t, o.IsPaid())

	paid, err = o.UpdatePaymentStatus(PaymentStatusPaid)
	require.NoError(t, err)
	assert.False(t, paid)

	_, err = o.UpdatePaymentStatus(PaymentStatusPending)
	assert.Error(t, err)

	paid, err = o.UpdatePaymentStatus(PaymentStatusRefunded)
	require.NoError(t, err)
	assert.False(t, paid)

	cancelled := newDeliveryOrder(t)
	require.NoError(t, cancelled.Cancel(""))
	_, err = cancelled.UpdatePaymentStatus(PaymentStatusPaid)
	assert.Error(t, err)
}
