package ledger

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HierarchyNode is one account in the chart tree with its own balance
// and the balance rolled up from all descendants.
type HierarchyNode struct {
	AccountID     uuid.UUID       `json:"account_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Type          AccountType     `json:"type"`
	IsActive      bool            `json:"is_active"`
	IsSystem      bool            `json:"is_system"`
	DirectBalance decimal.Decimal `json:"direct_balance"`
	// RolledUpBalance is DirectBalance plus the rolled-up balances of
	// all children. Only leaves carry direct activity.
	RolledUpBalance decimal.Decimal  `json:"rolled_up_balance"`
	Children        []*HierarchyNode `json:"children"`
}

// BuildHierarchy assembles the chart forest with rolled-up balances.
// balances maps account ID to the account's own normal-side balance.
// Accounts whose parent is missing or unreachable are treated as roots,
// so a corrupted parent link degrades the report instead of losing rows.
func BuildHierarchy(accounts []*Account, balances map[uuid.UUID]decimal.Decimal) []*HierarchyNode {
	nodes := make(map[uuid.UUID]*HierarchyNode, len(accounts))
	for _, a := range accounts {
		balance := decimal.Zero
		if b, ok := balances[a.ID]; ok {
			balance = b
		}
		nodes[a.ID] = &HierarchyNode{
			AccountID:       a.ID,
			Code:            a.Code,
			Name:            a.Name,
			Type:            a.Type,
			IsActive:        a.IsActive,
			IsSystem:        a.IsSystem,
			DirectBalance:   balance,
			RolledUpBalance: balance,
			Children:        []*HierarchyNode{},
		}
	}

	parents := make(map[uuid.UUID]*uuid.UUID, len(accounts))
	for _, a := range accounts {
		parents[a.ID] = a.ParentID
	}

	roots := []*HierarchyNode{}
	for _, a := range accounts {
		node := nodes[a.ID]
		if a.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*a.ParentID]
		if !ok || onAncestorCycle(a.ID, parents) {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortNodes(roots)
	for _, root := range roots {
		rollUp(root)
	}
	return roots
}

// onAncestorCycle reports whether following parent links from id leads
// back to id. Members of a cycle are promoted to roots so their rows
// stay visible in the report.
func onAncestorCycle(id uuid.UUID, parents map[uuid.UUID]*uuid.UUID) bool {
	seen := map[uuid.UUID]bool{id: true}
	current := parents[id]
	for current != nil {
		if *current == id {
			return true
		}
		if seen[*current] {
			return false
		}
		seen[*current] = true
		current = parents[*current]
	}
	return false
}

// rollUp sums child balances into parents. Cycles are broken before
// this runs, so the children form a proper tree.
func rollUp(node *HierarchyNode) decimal.Decimal {
	total := node.DirectBalance
	sortNodes(node.Children)
	for _, child := range node.Children {
		total = total.Add(rollUp(child))
	}
	node.RolledUpBalance = total
	return total
}

func sortNodes(nodes []*HierarchyNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Code < nodes[j].Code
	})
}
