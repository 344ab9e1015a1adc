package finance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides PostgreSQL backed reads over the per-tenant document
// collections. Every query is scoped by tenant id; the engine never sees
// more than one tenant's records at a time.
//
// Numeric columns are coalesced to zero and date columns may be NULL:
// the collections are edited independently and carry no referential
// guarantees, so reads default defensively instead of failing.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ListSales returns a tenant's sales documents.
func (s *Store) ListSales(ctx context.Context, tenantID string) ([]Transaction, error) {
	const query = `
		SELECT id, COALESCE(customer_id, ''), COALESCE(customer_name, ''),
		       doc_date, COALESCE(total, 0), COALESCE(payment_term, ''),
		       COALESCE(status, ''), COALESCE(doc_type, ''), NULL::timestamptz
		FROM sales
		WHERE tenant_id = $1
		ORDER BY doc_date DESC NULLS LAST, id`
	return s.listTransactions(ctx, query, tenantID)
}

// ListPurchaseInvoices returns a tenant's purchase invoices. Unlike sales
// they may carry an explicit due date.
func (s *Store) ListPurchaseInvoices(ctx context.Context, tenantID string) ([]Transaction, error) {
	const query = `
		SELECT id, COALESCE(supplier_id, ''), COALESCE(supplier_name, ''),
		       doc_date, COALESCE(total, 0), COALESCE(payment_term, ''),
		       COALESCE(status, ''), COALESCE(doc_type, ''), due_date
		FROM purchase_invoices
		WHERE tenant_id = $1
		ORDER BY doc_date DESC NULLS LAST, id`
	return s.listTransactions(ctx, query, tenantID)
}

func (s *Store) listTransactions(ctx context.Context, query, tenantID string) ([]Transaction, error) {
	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("finance: list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var txn Transaction
		var docDate, dueDate pgtype.Timestamptz
		if err := rows.Scan(
			&txn.ID,
			&txn.CounterpartyID,
			&txn.CounterpartyName,
			&docDate,
			&txn.Amount,
			&txn.PaymentTerm,
			&txn.Status,
			&txn.DocumentType,
			&dueDate,
		); err != nil {
			return nil, fmt.Errorf("finance: scan transaction: %w", err)
		}
		if docDate.Valid {
			txn.Date = docDate.Time
		}
		if dueDate.Valid {
			due := dueDate.Time
			txn.DueDate = &due
		}
		out = append(out, txn)
	}
	return out, rows.Err()
}

// ListLedgerEntries returns a tenant's general-ledger lines.
func (s *Store) ListLedgerEntries(ctx context.Context, tenantID string) ([]LedgerEntry, error) {
	const query = `
		SELECT id, COALESCE(account, ''), COALESCE(debit, 0), COALESCE(credit, 0),
		       entry_date, COALESCE(description, ''), COALESCE(reference, '')
		FROM ledger_entries
		WHERE tenant_id = $1
		ORDER BY entry_date DESC NULLS LAST, id`
	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("finance: list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []LedgerEntry
	for rows.Next() {
		var entry LedgerEntry
		var entryDate pgtype.Timestamptz
		if err := rows.Scan(
			&entry.ID,
			&entry.Account,
			&entry.Debit,
			&entry.Credit,
			&entryDate,
			&entry.Description,
			&entry.Reference,
		); err != nil {
			return nil, fmt.Errorf("finance: scan ledger entry: %w", err)
		}
		if entryDate.Valid {
			entry.Date = entryDate.Time
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// ListCustomers returns a tenant's customer master records.
func (s *Store) ListCustomers(ctx context.Context, tenantID string) ([]Customer, error) {
	const query = `
		SELECT id, COALESCE(name, ''), COALESCE(status, ''),
		       COALESCE(credit_limit, 0), COALESCE(credit_days, 0)
		FROM customers
		WHERE tenant_id = $1
		ORDER BY name, id`
	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("finance: list customers: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.CreditLimit, &c.CreditDays); err != nil {
			return nil, fmt.Errorf("finance: scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCustomer returns one customer or pgx.ErrNoRows.
func (s *Store) GetCustomer(ctx context.Context, tenantID, customerID string) (Customer, error) {
	const query = `
		SELECT id, COALESCE(name, ''), COALESCE(status, ''),
		       COALESCE(credit_limit, 0), COALESCE(credit_days, 0)
		FROM customers
		WHERE tenant_id = $1 AND id = $2`
	var c Customer
	err := s.pool.QueryRow(ctx, query, tenantID, customerID).
		Scan(&c.ID, &c.Name, &c.Status, &c.CreditLimit, &c.CreditDays)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Customer{}, err
		}
		return Customer{}, fmt.Errorf("finance: get customer: %w", err)
	}
	return c, nil
}

// ListComplaints returns a tenant's complaint records.
func (s *Store) ListComplaints(ctx context.Context, tenantID string) ([]Complaint, error) {
	const query = `
		SELECT id, COALESCE(customer_id, ''), COALESCE(status, '')
		FROM complaints
		WHERE tenant_id = $1
		ORDER BY id`
	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("finance: list complaints: %w", err)
	}
	defer rows.Close()

	var out []Complaint
	for rows.Next() {
		var c Complaint
		if err := rows.Scan(&c.ID, &c.CustomerID, &c.Status); err != nil {
			return nil, fmt.Errorf("finance: scan complaint: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListTenants returns every tenant id present in the customer collection.
// The background sweeps iterate this list.
func (s *Store) ListTenants(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT tenant_id FROM customers ORDER BY tenant_id`)
	if err != nil {
		return nil, fmt.Errorf("finance: list tenants: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("finance: scan tenant: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
