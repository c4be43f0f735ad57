package loadgen

import (
	"os"
)

// ShowHelp prints usage information for the load generator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`WASK Load Generator
===================

Submits generated race results to a running leaderboard and verifies that
GET /api/leaderboard stays sorted and complete.

Usage:
  go run ./cmd/loadgen [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:5000")
  -runs int
        Number of results to submit (default 500)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Log every failed submit
  -help
        Show this help message

Examples:
  go run ./cmd/loadgen -runs 5000 -workers 16 -url http://localhost:8080
`)
}
