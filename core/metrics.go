package core

import "github.com/okabrera/medbill/pkg/money"

// ValidForAggregation reports whether a record carries everything the
// aggregation folds need: identifier, amount, and status. Records that fail
// this are silently excluded - an incomplete record is not an error.
func (inv Invoice) ValidForAggregation() bool {
	return inv.ID != "" && inv.Status != "" && inv.AmountCents != nil
}

// ComputeMetrics folds a record collection into the three summary
// aggregates. Pure and order-independent:
//
//   - Outstanding sums valid records whose status is unpaid or pending.
//   - Paid sums valid records whose status is paid.
//   - Total sums every valid record regardless of status, negatives
//     included; unrecognized statuses contribute here and nowhere else.
//
// int64 accumulators keep the sums exact well beyond realistic record
// counts; an empty input yields all zeroes.
func ComputeMetrics(records []Invoice) Metrics {
	var m Metrics
	for _, inv := range records {
		if !inv.ValidForAggregation() {
			continue
		}
		amount := *inv.AmountCents

		switch inv.Status {
		case InvoiceStatusUnpaid, InvoiceStatusPending:
			m.OutstandingCents += amount
		case InvoiceStatusPaid:
			m.PaidCents += amount
		}
		m.TotalCents += amount
	}
	return m
}

// FormatMetrics converts each aggregate to a display-ready currency string.
func FormatMetrics(m Metrics, symbol string) FormattedMetrics {
	return FormattedMetrics{
		Outstanding: money.Format(m.OutstandingCents, symbol),
		Paid:        money.Format(m.PaidCents, symbol),
		Total:       money.Format(m.TotalCents, symbol),
	}
}
