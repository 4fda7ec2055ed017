// Package empstatus implements a service that reports the salary status of an employee.
//
// For a national number the service looks up the employee, loads the monthly salary
// history and computes:
//   - seasonal adjustments: December +10%, June to August -5%
//   - a flat 7% tax on totals strictly above 10000
//   - the highest adjusted salary and the tax-adjusted average
//   - a status tier: GREEN above 2000, ORANGE at exactly 2000, RED below
//
// All money arithmetic is done with decimals and rounded half-up to two places.
//
// The server stores data in PostgreSQL, or in memory with demo data when no DSN is
// configured. Responses are cached for a configurable TTL, every request outcome is
// recorded to the audit log, and counters are exposed in Prometheus format.
//
// Features:
//   - POST /api/GetEmpStatus protected by a bearer token
//   - Data compression using gzip
//   - Database migrations with golang-migrate
//   - Graceful shutdown handling
//   - Structured logging
//   - Audit logging to the logs table and to a JSON lines file
//
// The server, the command-line client and the linter support configuration via
// command-line flags and environment variables; the server also reads a JSON file.
package empstatus
