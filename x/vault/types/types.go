package types

const (
	// ModuleName defines the module name. The module account under this name
	// custodies all vault assets.
	ModuleName = "vault"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// MaxFeesBips caps the interest fee skim at 10%
	MaxFeesBips = uint32(1000)

	// FeeDivisor converts basis points to a fraction
	FeeDivisor = uint32(10000)

	// PriceStalenessSeconds is how old the latest oracle round may be before
	// valuations fail. 25 hours leaves a one-hour grace over a daily relay
	// cadence.
	PriceStalenessSeconds = int64(90000)
)
