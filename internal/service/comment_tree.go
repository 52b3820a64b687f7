package service

import (
	"github.com/google/uuid"

	"github.com/atanasster/pad-champions/internal/domain"
	"github.com/atanasster/pad-champions/internal/dto"
)

// BuildCommentTree nests a flat comment list into a forest.
//
// The index of every comment is built before any attachment so a reply
// listed ahead of its parent still attaches. Comments whose parent is
// absent become roots. Children keep their relative input order. A parent
// chain that loops back on itself is broken at the first comment of the
// loop in input order, which is promoted to a root, so every comment
// appears exactly once in the result. A repeated id is kept once.
func BuildCommentTree(comments []domain.Comment) []*dto.CommentNode {
	nodes := make(map[uuid.UUID]*dto.CommentNode, len(comments))
	order := make([]*dto.CommentNode, 0, len(comments))
	for i := range comments {
		if _, dup := nodes[comments[i].ID]; dup {
			continue
		}
		node := dto.ToCommentNode(&comments[i])
		nodes[node.ID] = node
		order = append(order, node)
	}

	roots := make([]*dto.CommentNode, 0)
	for _, node := range order {
		if node.ParentID != nil && *node.ParentID != node.ID {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	if reached := markReachable(roots, len(order)); len(reached) < len(order) {
		index := make(map[uuid.UUID]int, len(order))
		for i, node := range order {
			index[node.ID] = i
		}
		for _, node := range order {
			if reached[node.ID] {
				continue
			}
			head := cycleHead(node, nodes, index)
			parent := nodes[*head.ParentID]
			parent.Children = removeChild(parent.Children, head.ID)
			roots = append(roots, head)
			markSubtree(head, reached)
		}
	}

	return roots
}

// cycleHead walks up from an unreachable node to the loop it hangs from
// and returns the loop member that comes first in input order. Every
// ancestor of an unreachable node exists and has a parent.
func cycleHead(node *dto.CommentNode, nodes map[uuid.UUID]*dto.CommentNode, index map[uuid.UUID]int) *dto.CommentNode {
	seen := make(map[uuid.UUID]bool)
	cur := node
	for !seen[cur.ID] {
		seen[cur.ID] = true
		cur = nodes[*cur.ParentID]
	}

	head := cur
	for n := nodes[*cur.ParentID]; n != cur; n = nodes[*n.ParentID] {
		if index[n.ID] < index[head.ID] {
			head = n
		}
	}
	return head
}

func markReachable(roots []*dto.CommentNode, size int) map[uuid.UUID]bool {
	reached := make(map[uuid.UUID]bool, size)
	for _, root := range roots {
		markSubtree(root, reached)
	}
	return reached
}

func markSubtree(root *dto.CommentNode, reached map[uuid.UUID]bool) {
	stack := []*dto.CommentNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[n.ID] {
			continue
		}
		reached[n.ID] = true
		stack = append(stack, n.Children...)
	}
}

func removeChild(children []*dto.CommentNode, id uuid.UUID) []*dto.CommentNode {
	out := children[:0]
	for _, c := range children {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
