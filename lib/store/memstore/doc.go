// Package memstore implements an in-memory store.ISink backed by a concurrent map.
// Identifiers are zero padded sequence numbers, so sorting them yields storage order.
// Nothing is persisted between process restarts.
package memstore
