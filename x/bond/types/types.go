package types

const (
	// ModuleName defines the module name
	ModuleName = "bond"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// Event types for the bond module
const (
	EventTypeBondIssued      = "bond_issued"
	EventTypeBondTransferred = "bond_transferred"

	AttributeKeyBondId   = "bond_id"
	AttributeKeyIssuer   = "issuer"
	AttributeKeyOwner    = "owner"
	AttributeKeyNewOwner = "new_owner"
)
