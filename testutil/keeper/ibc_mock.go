package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
)

// MockChannelKeeper implements the pricefeed module's expected channel
// keeper for unit tests. It records every sent packet instead of hitting a
// real IBC stack.
type MockChannelKeeper struct {
	MissingChannels map[string]bool
	NextSeq         uint64
	SentData        [][]byte
	SentChannels    []string
}

// NewMockChannelKeeper creates a mock channel keeper with no missing
// channels.
func NewMockChannelKeeper() *MockChannelKeeper {
	return &MockChannelKeeper{MissingChannels: map[string]bool{}}
}

func (m *MockChannelKeeper) GetChannel(_ sdk.Context, portID, channelID string) (channeltypes.Channel, bool) {
	if m.MissingChannels[channelID] {
		return channeltypes.Channel{}, false
	}
	return channeltypes.Channel{
		State:    channeltypes.OPEN,
		Ordering: channeltypes.UNORDERED,
		Counterparty: channeltypes.Counterparty{
			PortId:    portID,
			ChannelId: channelID,
		},
	}, true
}

func (m *MockChannelKeeper) SendPacket(
	_ sdk.Context,
	_ *capabilitytypes.Capability,
	_ string,
	sourceChannel string,
	_ clienttypes.Height,
	_ uint64,
	data []byte,
) (uint64, error) {
	m.NextSeq++
	m.SentData = append(m.SentData, data)
	m.SentChannels = append(m.SentChannels, sourceChannel)
	return m.NextSeq, nil
}

// MockScopedKeeper hands out a static capability for any channel path.
type MockScopedKeeper struct {
	cap *capabilitytypes.Capability
}

// NewMockScopedKeeper creates a mock scoped keeper.
func NewMockScopedKeeper() *MockScopedKeeper {
	return &MockScopedKeeper{cap: capabilitytypes.NewCapability(1)}
}

func (m *MockScopedKeeper) GetCapability(_ sdk.Context, _ string) (*capabilitytypes.Capability, bool) {
	return m.cap, true
}

func (m *MockScopedKeeper) ClaimCapability(_ sdk.Context, _ *capabilitytypes.Capability, _ string) error {
	return nil
}
