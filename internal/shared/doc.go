// Package shared groups code used across layers that has no domain logic of
// its own. Today that is testutil, the helpers package tests rely on.
package shared
