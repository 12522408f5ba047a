package netregistry_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/netregistry"
)

func TestNew_SeedsBuiltinsInStableOrder(t *testing.T) {
	r := netregistry.New(map[string]string{"ethereum": "https://eth.example/v1"})

	list := r.List()
	require.NotEmpty(t, list)
	assert.Equal(t, "ethereum", list[0].ID)
	assert.Equal(t, "https://eth.example/v1", list[0].RPCURL)
	assert.False(t, list[0].Custom)
}

func TestGet_UnknownNetwork(t *testing.T) {
	r := netregistry.New(nil)
	_, err := r.Get("does-not-exist")
	assert.Error(t, err)
}

func TestAddCustom_ValidatesAndAppends(t *testing.T) {
	r := netregistry.New(nil)

	err := r.AddCustom(netregistry.Network{
		ID:       "fantom",
		Name:     "Fantom Opera",
		ChainID:  big.NewInt(250),
		RPCURL:   "https://rpc.fantom.example",
		Symbol:   "FTM",
		Decimals: 18,
	})
	require.NoError(t, err)

	n, err := r.Get("fantom")
	require.NoError(t, err)
	assert.True(t, n.Custom)

	list := r.List()
	assert.Equal(t, "fantom", list[len(list)-1].ID)
}

func TestAddCustom_RejectsNonHTTPURL(t *testing.T) {
	r := netregistry.New(nil)
	err := r.AddCustom(netregistry.Network{ID: "x", ChainID: big.NewInt(1), RPCURL: "ws://bad.example"})
	assert.Error(t, err)
}

func TestAddCustom_RejectsZeroChainID(t *testing.T) {
	r := netregistry.New(nil)
	err := r.AddCustom(netregistry.Network{ID: "x", ChainID: big.NewInt(0), RPCURL: "https://ok.example"})
	assert.Error(t, err)
}

func TestAddCustom_RejectsEmptyID(t *testing.T) {
	r := netregistry.New(nil)
	err := r.AddCustom(netregistry.Network{ChainID: big.NewInt(1), RPCURL: "https://ok.example"})
	assert.Error(t, err)
}

func TestAddCustom_RejectsDecimalsAboveEighteen(t *testing.T) {
	r := netregistry.New(nil)
	err := r.AddCustom(netregistry.Network{ID: "x", ChainID: big.NewInt(1), RPCURL: "https://ok.example", Decimals: 19})
	assert.Error(t, err)
}

func TestAddCustom_RejectsDuplicateID(t *testing.T) {
	r := netregistry.New(nil)
	err := r.AddCustom(netregistry.Network{ID: "ethereum", ChainID: big.NewInt(1), RPCURL: "https://ok.example"})
	assert.Error(t, err)
}

func TestUpdateRPCURL_ReportsChange(t *testing.T) {
	r := netregistry.New(map[string]string{"ethereum": "https://a.example"})

	changed, err := r.UpdateRPCURL("ethereum", "https://a.example")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = r.UpdateRPCURL("ethereum", "https://b.example")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestRemoveCustom_RejectsBuiltin(t *testing.T) {
	r := netregistry.New(nil)
	err := r.RemoveCustom("ethereum")
	assert.Error(t, err)
}

func TestRemoveCustom_RemovesFromOrder(t *testing.T) {
	r := netregistry.New(nil)
	require.NoError(t, r.AddCustom(netregistry.Network{ID: "fantom", ChainID: big.NewInt(250), RPCURL: "https://rpc.example"}))

	require.NoError(t, r.RemoveCustom("fantom"))
	_, err := r.Get("fantom")
	assert.Error(t, err)
}
