// Package config loads the service configuration.
//
// Values are layered: built-in defaults, then an optional YAML file
// (INDENT_CONFIG, ./config.yaml or ./configs/config.yaml), then environment
// variables prefixed with INDENT_. Environment variables always win.
//
//	INDENT_SERVER_PORT=8080
//	INDENT_STORE_BACKEND=appscript
//	INDENT_STORE_APP_SCRIPT_URL=https://script.google.com/macros/s/.../exec
//	INDENT_CACHE_BACKEND=redis
//	INDENT_CACHE_REDIS_URL=redis://localhost:6379/0
//	INDENT_AUTH_JWT_SECRET=...
//
// The store backend decides which settings are mandatory: appscript needs
// the web-app URL, sheets needs a spreadsheet id and service-account
// credentials file, workbook needs a local .xlsx path.
package config
