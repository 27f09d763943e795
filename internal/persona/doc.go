// Package persona is the HTTP transport for the Persona REST API.
//
// A Client sends requests produced by the jsonapi translator. It adds the
// headers Persona expects (bearer auth, Persona-Version, Key-Inflection and,
// on POST, an Idempotency-Key that stays stable across retries), applies a
// client-side rate limit, retries 429 and 5xx responses with exponential
// backoff, and records Prometheus metrics and an OpenTelemetry span per call.
//
// The package also carries the tool catalog: the route, flags and parameter
// schema of every Persona operation exposed over MCP.
package persona
