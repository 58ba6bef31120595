// Package analytics computes the procurement dashboard from sheet snapshots.
//
// Everything here is a pure function over in-memory rows: no I/O, no shared
// state, no errors. Callers fetch INDENT and RECEIVED rows from the row store
// and call Analyze again whenever the rows or the filters change.
//
// # Report
//
// Analyze joins each receipt to its indent by indent number and produces:
//
//   - approved lines and quantity (vendor type "Regular" or "Three Party")
//   - receipts and received quantity
//   - issued lines and quantity (issue status "Issued")
//   - the ten most frequently received products
//   - the ten vendors with the most receipts
//
// Dates that do not parse never match a date window. Missing numbers count
// as zero.
//
// # Supporting views
//
// FilterOptions, AmbiguousIndentNumbers, ClassifyStock, SummarizeInventory
// and SummarizePurchaseOrders feed the remaining dashboard panels.
package analytics
