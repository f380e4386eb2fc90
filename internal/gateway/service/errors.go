// Package service holds the gateway's business logic: identity resolution,
// the authenticated fetch policy, and the login and Workspace flows built on
// top of them.
package service

import "errors"

var (
	ErrInvalidAssertion       = errors.New("identity assertion has no provider id")
	ErrEmailInUse             = errors.New("email already linked to another account")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrUpstream               = errors.New("upstream request failed")
)
