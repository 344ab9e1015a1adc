// Package exposure merges two independently entered views of the same
// financial position into one aged list: transactional documents (sales
// and purchase invoices) and general-ledger lines journaled against the
// receivable or payable control accounts. Neither source is guaranteed
// complete and nothing links them, so the merge keeps both.
package exposure

import (
	"sort"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/finance"
	"github.com/meridian-erp/meridian-erp/internal/finance/aging"
	"github.com/meridian-erp/meridian-erp/internal/finance/terms"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Side selects which exposure the reconciler builds.
type Side string

const (
	SideReceivable Side = "receivable"
	SidePayable    Side = "payable"
)

// SourceKind tags where an exposure item came from. Because the two
// sources are never deduplicated by default, callers use this tag to
// reason about double counting.
type SourceKind string

const (
	SourceTransaction SourceKind = "transaction"
	SourceLedger      SourceKind = "ledger"
)

// Ledger account markers, matched case- and accent-insensitively against
// free-text account names.
const (
	receivableAccountMarker = "cuentas por cobrar"
	payableAccountMarker    = "cuentas por pagar"
)

const ledgerIDPrefix = "ledger-"

// Item is one unit of money owed to or by the business.
type Item struct {
	ID                 string       `json:"id"`
	CounterpartyID     string       `json:"counterpartyId,omitempty"`
	CounterpartyName   string       `json:"counterpartyName"`
	OriginDate         time.Time    `json:"originDate"`
	DueDate            time.Time    `json:"dueDate"`
	GrossAmount        float64      `json:"grossAmount"`
	PaidAmount         float64      `json:"paidAmount"`
	OutstandingBalance float64      `json:"outstandingBalance"`
	DaysOverdue        int          `json:"daysOverdue"`
	Bucket             aging.Bucket `json:"bucket"`
	SourceKind         SourceKind   `json:"sourceKind"`
	DocumentType       string       `json:"documentType,omitempty"`
	Reference          string       `json:"reference"`
}

type options struct {
	deduplicate bool
}

// Option adjusts reconciliation behavior.
type Option func(*options)

// WithDeduplication drops ledger items whose reference points at a
// transaction already included on the list. The legacy screens never
// deduplicated, so the merged total is an upper bound; this option is the
// corrected mode and is strictly opt-in so the shipped totals stay
// comparable with historical ones.
func WithDeduplication() Option {
	return func(o *options) { o.deduplicate = true }
}

// BuildList reconciles transactions and ledger entries into a single aged
// exposure list for one side of the balance.
//
// A document journaled as well as invoiced appears TWICE: once per source.
// That duplication is intentional fidelity to the legacy behavior, not a
// bug; see WithDeduplication for the corrected mode.
//
// counterpartyNames maps counterparty ids to display names; transactions
// whose id is unknown fall back to their free-text name field. The sort is
// stable: overdue items first, the rest by origin date descending, ties in
// input order.
func BuildList(side Side, txns []finance.Transaction, entries []finance.LedgerEntry, counterpartyNames map[string]string, policy aging.Policy, today time.Time, opts ...Option) []Item {
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}
	if policy == nil {
		policy = aging.FlatTermPolicy{}
	}

	items := make([]Item, 0, len(txns)+len(entries))
	includedTxnIDs := make(map[string]bool, len(txns))

	for _, txn := range txns {
		if !includeTransaction(side, txn) {
			continue
		}
		includedTxnIDs[txn.ID] = true

		name := counterpartyNames[txn.CounterpartyID]
		if name == "" {
			name = txn.CounterpartyName
		}

		item := Item{
			ID:               txn.ID,
			CounterpartyID:   txn.CounterpartyID,
			CounterpartyName: name,
			OriginDate:       txn.Date,
			GrossAmount:      txn.Amount,
			// No payment-matching exists for either source, so nothing is
			// ever considered partially paid.
			PaidAmount:         0,
			OutstandingBalance: txn.Amount,
			SourceKind:         SourceTransaction,
			DocumentType:       txn.DocumentType,
			Reference:          txn.ID,
		}
		if txn.DueDate != nil {
			item.DueDate = *txn.DueDate
		} else if !txn.Date.IsZero() {
			item.DueDate = terms.ResolveDueDate(txn.Date, txn.PaymentTerm)
		}
		classifyItem(&item, policy, today)
		items = append(items, item)
	}

	marker := receivableAccountMarker
	if side == SidePayable {
		marker = payableAccountMarker
	}

	for _, entry := range entries {
		if !shared.FoldContains(entry.Account, marker) {
			continue
		}
		net := entry.Debit - entry.Credit
		if side == SidePayable {
			net = entry.Credit - entry.Debit
		}
		if net <= 0 {
			continue
		}
		if cfg.deduplicate && entry.Reference != "" && includedTxnIDs[entry.Reference] {
			continue
		}

		reference := entry.Reference
		if reference == "" {
			reference = entry.ID
		}
		item := Item{
			ID:                 ledgerIDPrefix + entry.ID,
			CounterpartyName:   entry.Description,
			OriginDate:         entry.Date,
			GrossAmount:        net,
			PaidAmount:         0,
			OutstandingBalance: net,
			SourceKind:         SourceLedger,
			DocumentType:       entry.Account,
			Reference:          reference,
		}
		if !entry.Date.IsZero() {
			item.DueDate = terms.ResolveDueDate(entry.Date, "")
		}
		classifyItem(&item, policy, today)
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if (a.Bucket == aging.BucketOverdue) != (b.Bucket == aging.BucketOverdue) {
			return a.Bucket == aging.BucketOverdue
		}
		return a.OriginDate.After(b.OriginDate)
	})
	return items
}

// includeTransaction applies the per-side inclusion rule. Only completed
// credit-style sales are receivable exposure; the purchasing screens carry
// no paid flag on the document, so every purchase counts as payable.
func includeTransaction(side Side, txn finance.Transaction) bool {
	if side == SidePayable {
		return true
	}
	return txn.Status == finance.StatusCompleted && !terms.IsCashTerm(txn.PaymentTerm)
}

// classifyItem ages an item in place. Records without an origin date carry
// no aging data and stay current with zero days overdue.
func classifyItem(item *Item, policy aging.Policy, today time.Time) {
	if item.OriginDate.IsZero() {
		item.Bucket = aging.BucketCurrent
		return
	}
	c := policy.Classify(item.OriginDate, item.DueDate, today)
	item.DaysOverdue = c.DaysOverdue
	item.Bucket = c.Bucket
}
