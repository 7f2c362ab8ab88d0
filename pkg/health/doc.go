// Package health serves liveness and readiness probes.
//
// Liveness always answers 200. Readiness runs the registered checks
// concurrently and answers 503 if any fails; append ?format=json or send
// Accept: application/json for per-check detail.
package health
