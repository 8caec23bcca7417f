package models

// PaymentMethodType identifies the processor family of a payment channel.
type PaymentMethodType string

const (
	PaymentCreditCard   PaymentMethodType = "Credit Card"
	PaymentPayPal       PaymentMethodType = "PayPal"
	PaymentBankTransfer PaymentMethodType = "Bank Transfer"
	PaymentCrypto       PaymentMethodType = "Crypto"
)

// PaymentMethodModel is a seeded payment channel. Admins only ever toggle
// IsActive; methods are never created or deleted at runtime.
type PaymentMethodModel struct {
	Base
	Name     string            `json:"name"     gorm:"uniqueIndex;not null"`
	Type     PaymentMethodType `json:"type"     gorm:"not null"`
	IsActive bool              `json:"isActive" gorm:"not null;default:true"`
}

func (PaymentMethodModel) TableName() string { return "payment_methods" }
