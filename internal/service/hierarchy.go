package service

import (
	"context"
	"fmt"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/repository"
)

type hierarchyResolver struct {
	orgRepo repository.OrganizationRepository
}

func NewHierarchyResolver(orgRepo repository.OrganizationRepository) HierarchyResolver {
	return &hierarchyResolver{orgRepo: orgRepo}
}

// DescendantIDs returns rootID plus every org whose parent chain reaches
// rootID. It loads the full edge set once, builds a parent→children adjacency,
// and walks it with an explicit queue, so depth is bounded by memory rather
// than the call stack. Each org has a single parent, so revisiting a node can
// only mean the parent graph has a cycle; that is reported as a store failure
// instead of looping.
func (h *hierarchyResolver) DescendantIDs(ctx context.Context, rootID int32) (map[int32]struct{}, error) {
	edges, err := h.orgRepo.ListEdges(ctx)
	if err != nil {
		return nil, err
	}

	children := make(map[int32][]int32, len(edges))
	for _, e := range edges {
		if e.ParentID != nil {
			children[*e.ParentID] = append(children[*e.ParentID], e.ID)
		}
	}

	seen := map[int32]struct{}{rootID: {}}
	queue := []int32{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if _, dup := seen[child]; dup {
				return nil, fmt.Errorf("%w: cycle in org tree at org %d", domain.ErrStore, child)
			}
			seen[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return seen, nil
}
