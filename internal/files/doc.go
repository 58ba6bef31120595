// Package files provides file discovery and retention for directories the
// application writes into, such as the dated report snapshots.
//
// Example usage:
//
//	discovery := files.NewDiscovery("snapshots")
//
//	// Snapshot files, oldest first
//	found, err := discovery.Find("indent_report_*.xlsx")
//
//	// Keep the newest 30 by name
//	files.SortByName(found)
//	removed, err := files.Prune(found, 30)
package files
