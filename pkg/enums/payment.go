package enums

// TransactionStatus is the local lifecycle of a checkout transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
)

// String implements fmt.Stringer.
func (s TransactionStatus) String() string {
	return string(s)
}

// PaymentStatus mirrors the gateway's payment state for a checkout session.
type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusPaid      PaymentStatus = "paid"
)

// String implements fmt.Stringer.
func (s PaymentStatus) String() string {
	return string(s)
}
