// Package exporter renders dashboard reports as CSV and XLSX documents.
//
// Both renderings carry the same sections in the same order: the applied
// filters, the KPI block, the top products and the top vendors. The XLSX
// rendering puts each section on its own worksheet.
//
// SnapshotWriter writes a dated XLSX copy of a report to a directory; the
// nightly job uses it.
package exporter
