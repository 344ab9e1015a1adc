package exposure

import (
	"github.com/meridian-erp/meridian-erp/internal/finance/aging"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Summary totals an exposure list by bucket for the screen header cards.
type Summary struct {
	Total   float64 `json:"total"`
	Overdue float64 `json:"overdue"`
	DueSoon float64 `json:"dueSoon"`
	Current float64 `json:"current"`
	Count   int     `json:"count"`
}

// Summarize sums outstanding balances per bucket. Because the list may
// contain the same document from both sources, Total is an upper bound on
// the true exposure.
func Summarize(items []Item) Summary {
	var s Summary
	for _, item := range items {
		s.Count++
		s.Total += item.OutstandingBalance
		switch item.Bucket {
		case aging.BucketOverdue:
			s.Overdue += item.OutstandingBalance
		case aging.BucketDueSoon:
			s.DueSoon += item.OutstandingBalance
		default:
			s.Current += item.OutstandingBalance
		}
	}
	return s
}

// Filter narrows a list with the screen's search box and bucket dropdown
// semantics: the query matches counterparty name or reference, folded; an
// empty bucket keeps every item.
func Filter(items []Item, query string, bucket aging.Bucket) []Item {
	if query == "" && bucket == "" {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if bucket != "" && item.Bucket != bucket {
			continue
		}
		if query != "" && !shared.FoldContains(item.CounterpartyName, query) && !shared.FoldContains(item.Reference, query) {
			continue
		}
		out = append(out, item)
	}
	return out
}
