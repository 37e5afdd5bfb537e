package types

import (
	"cosmossdk.io/errors"
)

// Bond module sentinel errors
var (
	ErrBondNotFound   = errors.Register(ModuleName, 2, "bond not found")
	ErrNotBondOwner   = errors.Register(ModuleName, 3, "sender does not own bond")
	ErrInvalidAddress = errors.Register(ModuleName, 4, "invalid address")
	ErrInvalidBond    = errors.Register(ModuleName, 5, "invalid bond")
)
