package analytics

import (
	"github.com/shopspring/decimal"

	"indentdesk/pkg/contracts/domain"
)

var hundred = decimal.NewFromInt(100)

// LineAmount prices a PO line: quantity times rate, less the discount
// percentage, plus the GST percentage. Rounded to paise.
func LineAmount(line domain.PurchaseOrder) decimal.Decimal {
	base := decimal.NewFromFloat(line.Quantity.Float()).Mul(decimal.NewFromFloat(line.Rate.Float()))
	discount := decimal.NewFromFloat(line.Discount.Float()).Div(hundred)
	gst := decimal.NewFromFloat(line.GST.Float()).Div(hundred)

	net := base.Mul(decimal.NewFromInt(1).Sub(discount))
	return net.Mul(decimal.NewFromInt(1).Add(gst)).Round(2)
}

// SummarizePurchaseOrders groups PO lines by PO number in first-seen order
// and recomputes every line amount and the PO totals.
func SummarizePurchaseOrders(lines []domain.PurchaseOrder) []domain.PurchaseOrderSummary {
	order := make([]string, 0)
	groups := make(map[string][]domain.PurchaseOrder)
	for _, line := range lines {
		if _, ok := groups[line.PONumber]; !ok {
			order = append(order, line.PONumber)
		}
		groups[line.PONumber] = append(groups[line.PONumber], line)
	}

	summaries := make([]domain.PurchaseOrderSummary, 0, len(order))
	for _, number := range order {
		group := groups[number]
		subtotal := decimal.Zero
		total := decimal.Zero
		priced := make([]domain.PurchaseOrder, 0, len(group))
		for _, line := range group {
			base := decimal.NewFromFloat(line.Quantity.Float()).Mul(decimal.NewFromFloat(line.Rate.Float()))
			amount := LineAmount(line)
			subtotal = subtotal.Add(base)
			total = total.Add(amount)
			line.Amount = domain.Number(amount.InexactFloat64())
			priced = append(priced, line)
		}

		summaries = append(summaries, domain.PurchaseOrderSummary{
			PONumber:  number,
			PartyName: group[0].PartyName,
			Lines:     priced,
			Subtotal:  subtotal.Round(2).InexactFloat64(),
			Total:     total.Round(2).InexactFloat64(),
			Terms:     group[0].Terms(),
		})
	}
	return summaries
}
