package accounting

import (
	"sort"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
)

// BuildChildrenMap indexes accounts by parent ID, children sorted by
// (code, name) for deterministic traversal.
func BuildChildrenMap(accounts []domain.Account) map[string][]domain.Account {
	m := make(map[string][]domain.Account)
	for _, a := range accounts {
		m[a.ParentID] = append(m[a.ParentID], a)
	}
	for k := range m {
		children := m[k]
		sort.Slice(children, func(i, j int) bool {
			if children[i].Code != children[j].Code {
				return children[i].Code < children[j].Code
			}
			return children[i].Name < children[j].Name
		})
		m[k] = children
	}
	return m
}

// CollectDescendants returns the root plus all its tree descendants.
func CollectDescendants(children map[string][]domain.Account, rootID string) map[string]struct{} {
	out := make(map[string]struct{})
	stack := []string{rootID}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := out[cur]; seen {
			continue
		}
		out[cur] = struct{}{}
		for _, ch := range children[cur] {
			stack = append(stack, ch.AccountID)
		}
	}
	return out
}
