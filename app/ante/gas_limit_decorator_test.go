package ante_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	protov2 "google.golang.org/protobuf/proto"

	"github.com/obligo-chain/obligo/app/ante"
	bondtypes "github.com/obligo-chain/obligo/x/bond/types"
	pricefeedtypes "github.com/obligo-chain/obligo/x/pricefeed/types"
	vaulttypes "github.com/obligo-chain/obligo/x/vault/types"
)

type mockMsg struct{}

func (m mockMsg) Reset()                       {}
func (m mockMsg) String() string               { return "mockMsg" }
func (m mockMsg) ProtoMessage()                {}
func (m mockMsg) GetSigners() []sdk.AccAddress { return nil }
func (m mockMsg) ValidateBasic() error         { return nil }

type mockTx struct {
	msgs []sdk.Msg
}

func (m mockTx) GetMsgs() []sdk.Msg { return m.msgs }

func (m mockTx) GetMsgsV2() ([]protov2.Message, error) {
	return nil, nil
}

func passThrough(ctx sdk.Context, _ sdk.Tx, _ bool) (sdk.Context, error) {
	return ctx, nil
}

func TestGasLimitDecorator_AllowsValidTx(t *testing.T) {
	t.Parallel()

	ctx := sdk.Context{}.WithGasMeter(storetypes.NewGasMeter(ante.MaxGasPerTx))
	tx := mockTx{msgs: []sdk.Msg{mockMsg{}}}

	dec := ante.NewGasLimitDecorator()
	_, err := dec.AnteHandle(ctx, tx, false, passThrough)
	require.NoError(t, err)
}

func TestGasLimitDecorator_ModuleMessages(t *testing.T) {
	t.Parallel()

	ctx := sdk.Context{}.WithGasMeter(storetypes.NewGasMeter(ante.MaxGasPerTx))
	tx := mockTx{msgs: []sdk.Msg{
		&bondtypes.MsgIssueBond{},
		&pricefeedtypes.MsgSubmitRound{},
		&vaulttypes.MsgDeposit{MaxAssets: math.NewInt(1), TargetValue: math.NewInt(1)},
		&vaulttypes.MsgWithdraw{Assets: math.NewInt(1)},
	}}

	dec := ante.NewGasLimitDecorator()
	_, err := dec.AnteHandle(ctx, tx, false, passThrough)
	require.NoError(t, err)
}

func TestGasLimitDecorator_MessageCountExceeded(t *testing.T) {
	t.Parallel()

	ctx := sdk.Context{}.WithGasMeter(storetypes.NewGasMeter(ante.MaxGasPerTx))
	var msgs []sdk.Msg
	for i := 0; i < ante.MaxMessagesPerTx+1; i++ {
		msgs = append(msgs, mockMsg{})
	}

	tx := mockTx{msgs: msgs}
	dec := ante.NewGasLimitDecorator()
	_, err := dec.AnteHandle(ctx, tx, false, passThrough)
	require.Error(t, err)
	require.Contains(t, err.Error(), "too many messages")
}

func TestGasLimitDecorator_MaxGasExceeded(t *testing.T) {
	t.Parallel()

	ctx := sdk.Context{}.WithGasMeter(storetypes.NewGasMeter(ante.MaxGasPerTx + 1))
	tx := mockTx{msgs: []sdk.Msg{mockMsg{}}}

	dec := ante.NewGasLimitDecorator()
	_, err := dec.AnteHandle(ctx, tx, false, passThrough)
	require.Error(t, err)
	require.Contains(t, err.Error(), "transaction gas limit too high")
}
