package biz

import (
	"errors"
)

var (
	// ErrMemberLimitReached: the organization's plan does not allow more
	// active members.
	ErrMemberLimitReached = errors.New("member limit reached for plan")

	// ErrProjectLimitReached: the organization's plan does not allow more
	// active projects.
	ErrProjectLimitReached = errors.New("project limit reached for plan")

	// ErrLastAdmin: the operation would leave the organization without an
	// active admin.
	ErrLastAdmin = errors.New("organization must keep at least one admin")

	// ErrWrongOrganization: the record does not belong to the organization
	// the caller was authorized against.
	ErrWrongOrganization = errors.New("record belongs to a different organization")
)
