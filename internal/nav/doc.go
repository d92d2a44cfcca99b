// Package nav drives lazy expansion and collapse of per-account folder
// trees. Each account owns a Navigator holding its open-folder set and
// breadcrumb trace; a Registry maps account ids to navigators and wires
// into the account store's invalidation hook so refreshes prune stale
// folder references and removals discard the state entirely.
package nav
