// Package finance holds the raw transactional records the exposure and
// risk engines consume. The records mirror documents stored per tenant in
// independently edited collections; the engine only ever reads them.
package finance

import "time"

// StatusCompleted is the only transaction status treated as realized for
// receivables. The comparison is deliberately exact: the source screens
// write the literal "Completada" and nothing normalizes other spellings.
const StatusCompleted = "Completada"

// Transaction is a sales or purchase invoice document.
type Transaction struct {
	ID               string
	CounterpartyID   string
	CounterpartyName string
	Date             time.Time
	Amount           float64
	PaymentTerm      string
	Status           string
	DocumentType     string
	// DueDate is an explicit override captured on purchase invoices. When
	// nil the due date is derived from the payment term.
	DueDate *time.Time
}

// LedgerEntry is a manually journaled general-ledger line. Entries are not
// linked to transactions by any foreign key; Reference is free text.
type LedgerEntry struct {
	ID          string
	Account     string
	Debit       float64
	Credit      float64
	Date        time.Time
	Description string
	Reference   string
}

// Customer master record.
type Customer struct {
	ID          string
	Name        string
	Status      string
	CreditLimit float64
	CreditDays  int
}

// Complaint filed by a customer.
type Complaint struct {
	ID         string
	CustomerID string
	Status     string
}
