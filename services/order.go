package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

// ErrEmptyCart is returned when checkout is attempted with no items.
var ErrEmptyCart = errors.New("cart is empty")

// Payment methods accepted at checkout.
const (
	PaymentCOD    = "cod"
	PaymentUPI    = "upi"
	PaymentPaytm  = "paytm"
	PaymentCard   = "card"
	PaymentBorrow = "borrow"
)

// Delivery types offered at checkout.
const (
	DeliveryPickup = "pickup"
	DeliveryHome   = "home"
)

// HomeDeliveryFee is the default fee added to the cart summary for home
// delivery orders. It is shown at checkout and is not part of the GST bill.
const HomeDeliveryFee = 50.0

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// PaymentMethodText returns the label printed in "Mode/Terms of Payment".
func PaymentMethodText(method string) string {
	switch method {
	case PaymentCOD:
		return "Cash on Delivery"
	case PaymentUPI:
		return "UPI"
	case PaymentPaytm:
		return "Paytm / PhonePe"
	case PaymentCard:
		return "Debit / Credit Card"
	case PaymentBorrow:
		return "After Paying"
	default:
		return "N/A"
	}
}

// Customer is the buyer printed in the "Bill to" block.
type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Mobile  string `json:"mobile"`
	Email   string `json:"email,omitempty"`
}

// WithDefaults fills blank fields with the placeholders printed on the bill.
func (c Customer) WithDefaults() Customer {
	if c.Name == "" {
		c.Name = "Customer Name"
	}
	if c.Address == "" {
		c.Address = "Customer Address"
	}
	if c.Mobile == "" {
		c.Mobile = "N/A"
	}
	return c
}

// Payment describes how the customer pays.
type Payment struct {
	Method    string `json:"method"`
	UPIID     string `json:"upiId,omitempty"`
	CardLast4 string `json:"cardLast4,omitempty"`
}

// Order is produced by checkout and handed to a billing session. The billing
// engine reads it but never changes the customer or order number.
type Order struct {
	OrderID      string     `json:"orderId"`
	Customer     Customer   `json:"customer"`
	Items        []LineItem `json:"items"`
	Payment      Payment    `json:"payment"`
	DeliveryType string     `json:"deliveryType,omitempty"`
	PlacedAt     time.Time  `json:"placedAt"`
}

// ShopProfile is the seller block printed on every document.
type ShopProfile struct {
	Name        string
	Address     string
	Phone       string
	GSTIN       string
	FSSAINo     string
	Email       string
	State       string
	StateCode   string
	PAN         string
	BuyerState  string
	BuyerCode   string
	Declaration string
}

// DefaultShopProfile is used when no shop settings are configured.
func DefaultShopProfile() ShopProfile {
	return ShopProfile{
		Name:        "KHANDELWAL RESTRO AND RESTAURANT",
		Address:     "KRISHNA NAGAR MATHURA",
		Phone:       "+91 7500752265",
		GSTIN:       "09ABCDE1234Z5X",
		FSSAINo:     "123456789012345",
		Email:       "khandelwwalrestro@gmail.com",
		State:       "Uttar Pradesh",
		StateCode:   "UP",
		PAN:         "ABCDE1234F",
		BuyerState:  "Uttar Pradesh",
		BuyerCode:   "09",
		Declaration: "We declare that this invoice shows the actual price of the goods described and that all particulars are true and correct.",
	}
}

// CheckoutForm is the customer and payment data collected at checkout.
type CheckoutForm struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Mobile        string `json:"mobile"`
	Email         string `json:"email"`
	DeliveryType  string `json:"deliveryType"`
	PaymentMethod string `json:"paymentMethod"`
	UPIID         string `json:"upiId"`
	CardNumber    string `json:"cardNumber"`
	CardExpiry    string `json:"cardExpiry"`
	CardCVV       string `json:"cardCvv"`
}

// Normalize trims every field and lower-cases the enumerated ones.
func (f CheckoutForm) Normalize() CheckoutForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Address = strings.TrimSpace(f.Address)
	f.Mobile = strings.TrimSpace(f.Mobile)
	f.Email = strings.TrimSpace(f.Email)
	f.DeliveryType = strings.ToLower(strings.TrimSpace(f.DeliveryType))
	f.PaymentMethod = strings.ToLower(strings.TrimSpace(f.PaymentMethod))
	f.UPIID = strings.TrimSpace(f.UPIID)
	f.CardNumber = strings.ReplaceAll(strings.TrimSpace(f.CardNumber), " ", "")
	f.CardExpiry = strings.TrimSpace(f.CardExpiry)
	f.CardCVV = strings.TrimSpace(f.CardCVV)
	if f.DeliveryType == "" {
		f.DeliveryType = DeliveryPickup
	}
	return f
}

// Validate applies the checkout rules. The returned map is keyed by form field
// and is empty when the form is valid.
func (f CheckoutForm) Validate() map[string]string {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required.Error("Customer name is required")),
		validation.Field(&f.Mobile,
			validation.Required.Error("Mobile number is required"),
			validation.Match(mobilePattern).Error("Mobile number must be a 10-digit number")),
		validation.Field(&f.Address, validation.Required.Error("Customer address is required")),
		validation.Field(&f.DeliveryType, validation.In(DeliveryPickup, DeliveryHome).Error("Select a delivery type")),
		validation.Field(&f.PaymentMethod,
			validation.Required.Error("Select payment method"),
			validation.In(PaymentCOD, PaymentUPI, PaymentPaytm, PaymentCard, PaymentBorrow).Error("Select payment method")),
		validation.Field(&f.UPIID,
			validation.When(f.PaymentMethod == PaymentUPI, validation.Required.Error("Enter UPI ID"))),
		validation.Field(&f.CardNumber,
			validation.When(f.PaymentMethod == PaymentCard, validation.Required.Error("Enter card number"))),
		validation.Field(&f.CardExpiry,
			validation.When(f.PaymentMethod == PaymentCard, validation.Required.Error("Enter card expiry"))),
		validation.Field(&f.CardCVV,
			validation.When(f.PaymentMethod == PaymentCard, validation.Required.Error("Enter CVV"))),
	)
	if err == nil {
		return map[string]string{}
	}
	return fieldErrors(err)
}

// DeliveryFee returns homeFee for home delivery and 0 for pickup.
func (f CheckoutForm) DeliveryFee(homeFee float64) float64 {
	if f.DeliveryType == DeliveryHome {
		return homeFee
	}
	return 0
}

// payment keeps only what the bill prints; card expiry and CVV never leave
// checkout.
func (f CheckoutForm) payment() Payment {
	p := Payment{Method: f.PaymentMethod}
	switch f.PaymentMethod {
	case PaymentUPI:
		p.UPIID = f.UPIID
	case PaymentCard:
		if n := len(f.CardNumber); n >= 4 {
			p.CardLast4 = f.CardNumber[n-4:]
		}
	}
	return p
}

// OrderSequence hands out monotonically increasing order numbers. It belongs
// to order intake; the billing engine only ever reads Order.OrderID.
type OrderSequence interface {
	// Next returns the number for a new order and advances the sequence.
	Next() (int, error)
	// Peek returns the number Next would hand out, without advancing.
	Peek() (int, error)
}

// CheckoutValidationError reports the fields that blocked checkout.
type CheckoutValidationError struct {
	Fields map[string]string
}

func (e *CheckoutValidationError) Error() string {
	return "invalid checkout details"
}

// PlaceOrder validates the checkout form and turns the cart into an Order
// stamped with the next order number.
func PlaceOrder(form CheckoutForm, cartItems []CartItem, seq OrderSequence, now time.Time) (Order, error) {
	if len(cartItems) == 0 {
		return Order{}, ErrEmptyCart
	}

	form = form.Normalize()
	if fields := form.Validate(); len(fields) > 0 {
		return Order{}, &CheckoutValidationError{Fields: fields}
	}

	number, err := seq.Next()
	if err != nil {
		return Order{}, errors.Wrap(err, "next order number")
	}

	items := make([]LineItem, 0, len(cartItems))
	for _, ci := range cartItems {
		items = append(items, ci.LineItem())
	}

	return Order{
		OrderID: strconv.Itoa(number),
		Customer: Customer{
			Name:    form.Name,
			Address: form.Address,
			Mobile:  form.Mobile,
			Email:   form.Email,
		},
		Items:        items,
		Payment:      form.payment(),
		DeliveryType: form.DeliveryType,
		PlacedAt:     now,
	}, nil
}
