// Package txn owns the transaction boundary of the sync machinery.
//
// Reconciliation code never opens transactions itself; it receives a live
// *gorm.DB from Runner.RunInTransaction, which commits on success, rolls back
// on failure and transparently retries transient faults (deadlocks, lock wait
// timeouts, dropped connections) with a classifier that callers can replace.
package txn
