// Package coordinator orchestrates the operations that cut across
// authorization, the account store and the derived folder trees:
// linking and unlinking accounts, refreshing one or all listings,
// copying, sharing, creating and externally moving files.
//
// Every remote operation re-resolves silent authorization for its
// target account first. Local state is only mutated after the remote
// result is known, and a failed refresh leaves the previous listing in
// place; failures surface as typed errors, never silently.
package coordinator
