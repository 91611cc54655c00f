package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MaxItemQuantity caps the quantity of a single order line
const MaxItemQuantity = 99

// Customer is the contact snapshot captured when the order is placed
type Customer struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Notes   string
}

// ItemExtra is the snapshot of a product extra chosen for an order line
type ItemExtra struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// OrderItem is one line of an order. Name and prices are copied from the catalog
// at placement time so later menu edits do not change past orders.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Extras    []ItemExtra
	Notes     string
	Subtotal  decimal.Decimal
}

// ExtrasTotal is the sum of the extra prices for one unit
func (i *OrderItem) ExtrasTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range i.Extras {
		total = total.Add(e.Price)
	}
	return total
}

// calculateSubtotal sets Subtotal = (unit price + Σ extras) × quantity
func (i *OrderItem) calculateSubtotal() {
	i.Subtotal = valueobject.RoundMoney(i.UnitPrice.Add(i.ExtrasTotal()).Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// Order is a customer order for one branch
type Order struct {
	shared.TenantAggregateRoot
	BranchID        uuid.UUID
	Sequence        int
	Number          string
	Customer        Customer
	Type            OrderType
	Items           []OrderItem
	TaxRate         decimal.Decimal
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	DeliveryFee     decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	Status          OrderStatus
	StatusChangedAt time.Time
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	PaidAt          *time.Time
	UserID          *uuid.UUID
	CancelReason    string
}

// NewOrder creates an empty order in status new with payment pending
func NewOrder(tenantID, branchID uuid.UUID, customer Customer, orderType OrderType, method PaymentMethod) (*Order, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("BRANCH_REQUIRED", "La sucursal es obligatoria")
	}
	if !orderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_TYPE", "Tipo de pedido inválido")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Método de pago inválido")
	}
	customer = normalizeCustomer(customer)
	if customer.Name == "" {
		return nil, shared.NewDomainError("CUSTOMER_NAME_REQUIRED", "El nombre del cliente es obligatorio")
	}
	if customer.Phone == "" {
		return nil, shared.NewDomainError("CUSTOMER_PHONE_REQUIRED", "El teléfono del cliente es obligatorio")
	}
	if orderType == OrderTypeDelivery && customer.Address == "" {
		return nil, shared.NewDomainError("ADDRESS_REQUIRED", "La dirección es obligatoria para envíos")
	}

	now := time.Now()
	return &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BranchID:            branchID,
		Customer:            customer,
		Type:                orderType,
		Items:               make([]OrderItem, 0),
		TaxRate:             decimal.Zero,
		Subtotal:            decimal.Zero,
		Tax:                 decimal.Zero,
		DeliveryFee:         decimal.Zero,
		Discount:            decimal.Zero,
		Total:               decimal.Zero,
		Status:              OrderStatusNew,
		StatusChangedAt:     now,
		PaymentMethod:       method,
		PaymentStatus:       PaymentStatusPending,
	}, nil
}

func normalizeCustomer(c Customer) Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Address = strings.TrimSpace(c.Address)
	c.Notes = strings.TrimSpace(c.Notes)
	return c
}

// AssignUser links the order to a signed-in customer
func (o *Order) AssignUser(userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}
	o.UserID = &userID
}

// AddItem appends a line and recalculates totals
func (o *Order) AddItem(productID uuid.UUID, name string, unitPrice decimal.Decimal, quantity int, extras []ItemExtra, notes string) (*OrderItem, error) {
	if err := o.ensureEditable(); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Producto inválido")
	}
	if quantity < 1 || quantity > MaxItemQuantity {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "La cantidad debe estar entre 1 y 99")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "El precio no puede ser negativo")
	}
	snapshot := make([]ItemExtra, 0, len(extras))
	for _, e := range extras {
		if e.Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_EXTRA_PRICE", "El precio del extra no puede ser negativo")
		}
		snapshot = append(snapshot, ItemExtra{Name: e.Name, Price: valueobject.RoundMoney(e.Price)})
	}

	item := OrderItem{
		ID:        uuid.New(),
		OrderID:   o.ID,
		ProductID: productID,
		Name:      strings.TrimSpace(name),
		UnitPrice: valueobject.RoundMoney(unitPrice),
		Quantity:  quantity,
		Extras:    snapshot,
		Notes:     strings.TrimSpace(notes),
	}
	item.calculateSubtotal()
	o.Items = append(o.Items, item)
	if err := o.RecalculateTotals(); err != nil {
		o.Items = o.Items[:len(o.Items)-1]
		_ = o.RecalculateTotals()
		return nil, err
	}
	return &o.Items[len(o.Items)-1], nil
}

// UpdateItemQuantity changes the quantity of a line
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if quantity < 1 || quantity > MaxItemQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "La cantidad debe estar entre 1 y 99")
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items[i].Quantity = quantity
			o.Items[i].calculateSubtotal()
			return o.RecalculateTotals()
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Producto no encontrado en el pedido")
}

// RemoveItem deletes a line
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			return o.RecalculateTotals()
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Producto no encontrado en el pedido")
}

// SetCharges sets the tax rate (percent) and delivery fee. The fee only applies to delivery orders.
func (o *Order) SetCharges(taxRate, deliveryFee decimal.Decimal) error {
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "La tasa de impuesto debe estar entre 0 y 100")
	}
	if deliveryFee.IsNegative() {
		return shared.NewDomainError("INVALID_DELIVERY_FEE", "El costo de envío no puede ser negativo")
	}
	o.TaxRate = taxRate
	if o.Type == OrderTypeDelivery {
		o.DeliveryFee = valueobject.RoundMoney(deliveryFee)
	} else {
		o.DeliveryFee = decimal.Zero
	}
	return o.RecalculateTotals()
}

// ApplyDiscount sets a fixed discount on the whole order
func (o *Order) ApplyDiscount(amount decimal.Decimal) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "El descuento no puede ser negativo")
	}
	previous := o.Discount
	o.Discount = valueobject.RoundMoney(amount)
	if err := o.RecalculateTotals(); err != nil {
		o.Discount = previous
		_ = o.RecalculateTotals()
		return err
	}
	return nil
}

// RecalculateTotals recomputes subtotal, tax and total from the items so that
// Σ subtotal + tax + delivery fee − discount == total.
func (o *Order) RecalculateTotals() error {
	subtotal := decimal.Zero
	for i := range o.Items {
		subtotal = subtotal.Add(o.Items[i].Subtotal)
	}
	o.Subtotal = subtotal
	o.Tax = valueobject.Percentage(subtotal, o.TaxRate)
	gross := o.Subtotal.Add(o.Tax).Add(o.DeliveryFee)
	if o.Discount.GreaterThan(gross) {
		return shared.NewDomainError("DISCOUNT_EXCEEDS_TOTAL", "El descuento no puede superar el total")
	}
	o.Total = gross.Sub(o.Discount)
	return nil
}

// VerifyTotals checks the total invariant against the stored amounts
func (o *Order) VerifyTotals() error {
	subtotal := decimal.Zero
	for i := range o.Items {
		subtotal = subtotal.Add(o.Items[i].Subtotal)
	}
	expected := subtotal.Add(o.Tax).Add(o.DeliveryFee).Sub(o.Discount)
	if !subtotal.Equal(o.Subtotal) || !expected.Equal(o.Total) {
		return shared.NewDomainError("TOTAL_MISMATCH", "El total del pedido no coincide con sus productos")
	}
	return nil
}

// Place finalizes a new order: it must have items and reach the minimum amount.
// sequence is the per-branch counter used to build the order number.
func (o *Order) Place(sequence int, minimumOrder decimal.Decimal) error {
	if err := o.CheckPlaceable(minimumOrder); err != nil {
		return err
	}
	if sequence < 1 {
		return shared.NewDomainError("INVALID_SEQUENCE", "Número de pedido inválido")
	}
	o.Sequence = sequence
	o.Number = FormatOrderNumber(sequence)
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

// CheckPlaceable validates an unnumbered order against the store's minimum
// and recomputes its totals. Place runs it again before numbering.
func (o *Order) CheckPlaceable(minimumOrder decimal.Decimal) error {
	if o.Number != "" {
		return shared.NewDomainError("ALREADY_PLACED", "El pedido ya fue realizado")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "El pedido no tiene productos")
	}
	if o.Subtotal.LessThan(minimumOrder) {
		return shared.NewDomainError("BELOW_MINIMUM_ORDER",
			fmt.Sprintf("El pedido mínimo es de %s", minimumOrder.StringFixed(2)))
	}
	return o.RecalculateTotals()
}

// FormatOrderNumber renders a branch sequence as #0001
func FormatOrderNumber(sequence int) string {
	return fmt.Sprintf("#%04d", sequence)
}

// TransitionTo moves the order to next following the status table
func (o *Order) TransitionTo(next OrderStatus, reason string) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Estado inválido")
	}
	if !o.Status.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("No se puede pasar de %s a %s", o.Status.Label(), next.Label()))
	}
	if next == OrderStatusInTransit && o.Type != OrderTypeDelivery {
		return shared.NewDomainError("INVALID_TRANSITION", "Solo los envíos pueden estar en camino")
	}
	previous := o.Status
	o.Status = next
	o.StatusChangedAt = time.Now()
	if next == OrderStatusCancelled {
		o.CancelReason = strings.TrimSpace(reason)
	}
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))
	return nil
}

// AllowedNextStatuses returns the statuses this order may move to next
func (o *Order) AllowedNextStatuses() []OrderStatus {
	next := o.Status.AllowedNext()
	if o.Type == OrderTypeDelivery {
		return next
	}
	out := next[:0]
	for _, s := range next {
		if s != OrderStatusInTransit {
			out = append(out, s)
		}
	}
	return out
}

// Cancel moves the order to cancelled
func (o *Order) Cancel(reason string) error {
	return o.TransitionTo(OrderStatusCancelled, reason)
}

// UpdatePaymentStatus changes the payment status. It reports whether the order just became paid.
func (o *Order) UpdatePaymentStatus(status PaymentStatus) (bool, error) {
	if !status.IsValid() {
		return false, shared.NewDomainError("INVALID_PAYMENT_STATUS", "Estado de pago inválido")
	}
	if status == o.PaymentStatus {
		return false, nil
	}
	if !o.PaymentStatus.CanTransitionTo(status) {
		return false, shared.NewDomainError("INVALID_PAYMENT_TRANSITION", "Cambio de estado de pago no permitido")
	}
	if status == PaymentStatusPaid && o.Status == OrderStatusCancelled {
		return false, shared.NewDomainError("ORDER_CANCELLED", "El pedido está cancelado")
	}
	o.PaymentStatus = status
	becamePaid := status == PaymentStatusPaid
	if becamePaid {
		now := time.Now()
		o.PaidAt = &now
	}
	o.IncrementVersion()
	if becamePaid {
		o.AddDomainEvent(NewOrderPaidEvent(o))
	}
	return becamePaid, nil
}

// IsPaid reports whether the payment was collected
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// IsActive reports whether the order is still being worked on
func (o *Order) IsActive() bool {
	return !o.Status.IsTerminal()
}

// ItemCount is the number of units in the order
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

func (o *Order) ensureEditable() error {
	if o.Status != OrderStatusNew {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "El pedido ya no se puede modificar")
	}
	return nil
}
