package domain

import "context"

// Slot is a durable string-keyed store holding one serialized snapshot per
// key. Reads return ok=false for a key that was never written. Writes replace
// the whole value; there is no partial update or transaction.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Slot keys used for each persisted collection. The prefix namespaces the
// application inside a shared backend.
const (
	KeyAuth             = "myers-admin-auth"
	KeyUsers            = "myers-admin-users"
	KeyDispensaries     = "myers-admin-dispensaries"
	KeyTheme            = "myers-admin-theme"
	KeyServiceRequests  = "myers-admin-service-requests"
	KeyInvoices         = "myers-admin-invoices"
	KeyPayments         = "myers-admin-payments"
	KeyServiceAgreement = "myers-admin-service-agreements"
	KeyKnowledgeBase    = "myers-admin-knowledge-base"
)
