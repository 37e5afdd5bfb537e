package types

// Event types for the vault module
// All event types use lowercase with underscore separator (module_action format)
const (
	EventTypeVaultCreated     = "vault_created"
	EventTypePrincipalPaid    = "vault_principal_paid"
	EventTypePrincipalRepaid  = "vault_principal_repaid"
	EventTypeInterestPaid     = "vault_interest_paid"
	EventTypeWithdraw         = "vault_withdraw"
	EventTypeFeesSet          = "vault_fees_set"
	EventTypeFeesRecipientSet = "vault_fees_recipient_set"
)

// Event attribute keys for the vault module
const (
	AttributeKeyVaultId       = "vault_id"
	AttributeKeyBondId        = "bond_id"
	AttributeKeyAssets        = "assets"
	AttributeKeyValue         = "value"
	AttributeKeyShares        = "shares"
	AttributeKeyFees          = "fees"
	AttributeKeyCreditor      = "creditor"
	AttributeKeyDebtor        = "debtor"
	AttributeKeyReceiver      = "receiver"
	AttributeKeyOwner         = "owner"
	AttributeKeyFeesBips      = "fees_bips"
	AttributeKeyFeesRecipient = "fees_recipient"
)
