// Package tree turns one account's flat Drive listing into a navigable
// partition: top-level folders, loose files and a folder index keyed by
// id. Classification is pure and runs again on every refresh.
package tree
