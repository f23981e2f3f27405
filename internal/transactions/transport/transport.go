// Package transport holds the wire types of the transactions API and of the
// record store it fronts.
package transport

// TimestampLayout is the datetime layout accepted for transaction timestamps.
const TimestampLayout = "2006-01-02T15:04:05Z07:00"

// Merchant identifies the merchant of a transaction.
type Merchant struct {
	Name string `json:"name" validate:"required,max=200"`
	ID   string `json:"id" validate:"required,max=100"`
}

// PaymentMethod describes how a transaction was paid. Wallet methods carry
// no card number, so Last4 and Brand may be empty.
type PaymentMethod struct {
	Type  string `json:"type" validate:"required,max=50"`
	Last4 string `json:"last4" validate:"omitempty,len=4,numeric"`
	Brand string `json:"brand" validate:"max=50"`
}

// Party is the sender or receiver of a transaction.
type Party struct {
	Name      string `json:"name" validate:"required,max=200"`
	AccountID string `json:"account_id" validate:"required,max=100"`
}

// Fees holds the processing fee charged on a transaction.
type Fees struct {
	ProcessingFee float64 `json:"processing_fee" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"required,currency"`
}

// Metadata links a transaction to order and customer records.
type Metadata struct {
	OrderID    string `json:"order_id" validate:"max=100"`
	CustomerID string `json:"customer_id" validate:"max=100"`
}

// Transaction is one record of the transactions collection.
type Transaction struct {
	ID            string        `json:"id" validate:"required,max=64"`
	Amount        float64       `json:"amount" validate:"gt=0"`
	Currency      string        `json:"currency" validate:"required,currency"`
	Status        string        `json:"status" validate:"required,oneof=completed pending failed"`
	Timestamp     string        `json:"timestamp" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Description   string        `json:"description" validate:"max=500"`
	Merchant      Merchant      `json:"merchant"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Sender        Party         `json:"sender"`
	Receiver      Party         `json:"receiver"`
	Fees          Fees          `json:"fees"`
	Metadata      Metadata      `json:"metadata"`
}

// CreateTransactionRequest is a transaction without its id; the id is
// assigned on creation.
type CreateTransactionRequest struct {
	Amount        float64       `json:"amount" validate:"gt=0"`
	Currency      string        `json:"currency" validate:"required,currency"`
	Status        string        `json:"status" validate:"required,oneof=completed pending failed"`
	Timestamp     string        `json:"timestamp" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Description   string        `json:"description" validate:"max=500"`
	Merchant      Merchant      `json:"merchant"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Sender        Party         `json:"sender"`
	Receiver      Party         `json:"receiver"`
	Fees          Fees          `json:"fees"`
	Metadata      Metadata      `json:"metadata"`
}

// UpdateTransactionRequest carries the fields to change. Nested objects
// replace the stored object as a whole.
type UpdateTransactionRequest struct {
	Amount        *float64       `json:"amount,omitempty"`
	Currency      *string        `json:"currency,omitempty"`
	Status        *string        `json:"status,omitempty"`
	Timestamp     *string        `json:"timestamp,omitempty"`
	Description   *string        `json:"description,omitempty"`
	Merchant      *Merchant      `json:"merchant,omitempty"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	Sender        *Party         `json:"sender,omitempty"`
	Receiver      *Party         `json:"receiver,omitempty"`
	Fees          *Fees          `json:"fees,omitempty"`
	Metadata      *Metadata      `json:"metadata,omitempty"`
}

// DeleteTransactionsRequest lists the transactions to delete.
type DeleteTransactionsRequest struct {
	IDs []string `json:"ids" validate:"dive,required,max=64"`
}

// ListResponse is one page of transactions with its pagination metadata.
type ListResponse struct {
	Data    []Transaction `json:"data"`
	Total   int           `json:"total"`
	MaxPage int           `json:"maxPage"`
}

// NumericRange is the min/max of a numeric field.
type NumericRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TemporalRange is the min/max of a timestamp field.
type TemporalRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// MetadataResponse holds the facets of the whole collection.
type MetadataResponse struct {
	Amount        NumericRange  `json:"amount"`
	Timestamp     TemporalRange `json:"timestamp"`
	MerchantName  []string      `json:"merchant_name"`
	PaymentMethod []string      `json:"payment_method"`
}

// DeleteTransactionsResponse acknowledges a fully applied batch delete.
type DeleteTransactionsResponse struct {
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}

// FailedDeletion reports one id of a batch whose deletion failed.
type FailedDeletion struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}
