package hashing_test

import (
	"testing"

	"github.com/finbooks-io/ledger_backend/internal/utils/hashing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainHash_Deterministic(t *testing.T) {
	payload := map[string]any{"txn_id": "t1", "voucher_num": "202601-000001"}

	h1, err := hashing.ChainHash("", payload)
	require.NoError(t, err)
	h2, err := hashing.ChainHash("", payload)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestChainHash_PrevHashChangesDigest(t *testing.T) {
	payload := map[string]any{"txn_id": "t1"}

	genesis, err := hashing.ChainHash("", payload)
	require.NoError(t, err)
	linked, err := hashing.ChainHash(genesis, payload)
	require.NoError(t, err)

	assert.NotEqual(t, genesis, linked)
}

func TestChainHash_PayloadChangesDigest(t *testing.T) {
	h1, err := hashing.ChainHash("", map[string]any{"txn_id": "t1"})
	require.NoError(t, err)
	h2, err := hashing.ChainHash("", map[string]any{"txn_id": "t2"})
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestParamsHash_StableAcrossCalls(t *testing.T) {
	type params struct {
		BookID    string `json:"book_id"`
		PeriodID  string `json:"period_id"`
		BasisCode string `json:"basis_code"`
	}
	p := params{BookID: "b1", PeriodID: "p1", BasisCode: "LEGAL"}

	h1, err := hashing.ParamsHash(p)
	require.NoError(t, err)
	h2, err := hashing.ParamsHash(p)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
}

func TestParamsHash_DistinguishesParams(t *testing.T) {
	type params struct {
		BookID string `json:"book_id"`
	}

	h1, err := hashing.ParamsHash(params{BookID: "b1"})
	require.NoError(t, err)
	h2, err := hashing.ParamsHash(params{BookID: "b2"})
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
