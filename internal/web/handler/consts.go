package handler

import "errors"

const (
	// RootPath is the root path of a route group.
	RootPath = "/"

	// ErrNilDepsFatalLogMsg is logged when a handler is initialised without its collaborators.
	ErrNilDepsFatalLogMsg = "router or handler dependencies are nil"
)

// Messages of disabled features.
const (
	MsgRegistrationDisabled      = "Registration is disabled."
	MsgProfileManagementDisabled = "Profile management is disabled."
	MsgRoleManagementDisabled    = "Role management is disabled."
	MsgTokenRefreshDisabled      = "Token refresh is disabled."
)

// ErrNilDeps is returned by Init when router or deps are missing.
var ErrNilDeps = errors.New(ErrNilDepsFatalLogMsg)
