package accounting_test

import (
	"testing"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/finbooks-io/ledger_backend/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func account(id, parentID, code string) domain.Account {
	return domain.Account{AccountID: id, ParentID: parentID, Code: code, Name: "Account " + code}
}

func TestBuildChildrenMap_SortsByCode(t *testing.T) {
	accounts := []domain.Account{
		account("a2", "root", "1200"),
		account("a1", "root", "1100"),
		account("a3", "root", "1300"),
	}

	m := accounting.BuildChildrenMap(accounts)

	require.Len(t, m["root"], 3)
	assert.Equal(t, "1100", m["root"][0].Code)
	assert.Equal(t, "1200", m["root"][1].Code)
	assert.Equal(t, "1300", m["root"][2].Code)
}

func TestCollectDescendants(t *testing.T) {
	accounts := []domain.Account{
		account("root", "", "1000"),
		account("child1", "root", "1100"),
		account("child2", "root", "1200"),
		account("grandchild", "child1", "1110"),
		account("unrelated", "", "2000"),
	}
	children := accounting.BuildChildrenMap(accounts)

	got := accounting.CollectDescendants(children, "root")

	require.Len(t, got, 4)
	assert.Contains(t, got, "root")
	assert.Contains(t, got, "child1")
	assert.Contains(t, got, "child2")
	assert.Contains(t, got, "grandchild")
	assert.NotContains(t, got, "unrelated")
}

func TestCollectDescendants_LeafOnly(t *testing.T) {
	children := accounting.BuildChildrenMap([]domain.Account{account("leaf", "", "1000")})

	got := accounting.CollectDescendants(children, "leaf")

	require.Len(t, got, 1)
	assert.Contains(t, got, "leaf")
}
