package models

import (
	"github.com/Renal37/order-integrity/internal/utils"
	"github.com/shopspring/decimal"
)

// OrderStatus статус жизненного цикла заказа.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusReturned   OrderStatus = "RETURNED"
)

// PaymentMethod способ оплаты заказа.
type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "COD"
	PaymentCard       PaymentMethod = "CARD"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentNetBanking PaymentMethod = "NET_BANKING"
	PaymentWallet     PaymentMethod = "WALLET"
)

// OrderItem позиция заказа. Пустой ProductID означает, что ссылка на товар отсутствует.
type OrderItem struct {
	ProductID string          `json:"product_id,omitempty"`
	SKU       string          `json:"sku,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Address адрес доставки заказа.
type Address struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Order заказ вместе с пользователем, адресом и позициями.
// Address и User могут отсутствовать.
type Order struct {
	ID            string            `json:"id"`
	Number        string            `json:"number"`
	UserID        string            `json:"-"`
	Status        OrderStatus       `json:"status"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     utils.RFC3339Date `json:"created_at"`
	Items         []OrderItem       `json:"items"`
	Address       *Address          `json:"address,omitempty"`
	User          *User             `json:"-"`
}
