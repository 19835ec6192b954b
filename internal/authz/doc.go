// Package authz holds the acting principal for one logical operation.
//
// The principal is carried as a context value under an unexported key, so
// two concurrently executing operations always observe independent
// principals. Installation is set-once per context chain: a second
// WithPrincipal on the same chain fails with ErrPrincipalAlreadySet rather
// than silently switching actors mid-operation.
package authz
