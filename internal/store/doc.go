// Package store holds the process-wide, UI-lifetime state of linked
// accounts: authorization material plus each account's raw file
// listing. Account ids are minted by a store-scoped monotonic counter
// and never reused; the ordered backing sequence may be filtered, so
// ids are the only stable key.
package store
