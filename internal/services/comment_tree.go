package services

import (
	"gabber/annotator/internal/constants"
	gormModels "gabber/annotator/internal/models/gorm"
)

// CommentNode is one rendered comment with its replies. Deleted comments keep
// their place in the tree with placeholder content and no author.
type CommentNode struct {
	Comment gormModels.Comment
	Deleted bool
	Replies []*CommentNode
}

// commentArena holds the comments of one annotation keyed by id, with parent
// links as ids and a children index
type commentArena struct {
	byID     map[uint]*gormModels.Comment
	children map[uint][]uint
	roots    []uint
}

// newCommentArena expects comments newest first; that order carries into
// every level of the tree
func newCommentArena(comments []gormModels.Comment) *commentArena {
	a := &commentArena{
		byID:     make(map[uint]*gormModels.Comment, len(comments)),
		children: make(map[uint][]uint),
	}
	for i := range comments {
		a.byID[comments[i].ID] = &comments[i]
	}
	for i := range comments {
		c := &comments[i]
		if c.ParentID == nil {
			a.roots = append(a.roots, c.ID)
			continue
		}
		if _, ok := a.byID[*c.ParentID]; !ok {
			// parent outside this annotation; surface it at the top level
			a.roots = append(a.roots, c.ID)
			continue
		}
		a.children[*c.ParentID] = append(a.children[*c.ParentID], c.ID)
	}
	return a
}

// Thread renders every top-level comment with its replies
func (a *commentArena) Thread() []*CommentNode {
	return a.render(a.roots, map[uint]bool{})
}

// Replies renders the direct children of id, each with their own replies
func (a *commentArena) Replies(id uint) []*CommentNode {
	return a.render(a.children[id], map[uint]bool{id: true})
}

func (a *commentArena) render(ids []uint, seen map[uint]bool) []*CommentNode {
	nodes := make([]*CommentNode, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		c := *a.byID[id]
		node := &CommentNode{Comment: c, Deleted: !c.IsActive}
		if node.Deleted {
			node.Comment.Content = constants.DeletedCommentPlaceholder
			node.Comment.Creator = gormModels.User{}
		}
		node.Replies = a.render(a.children[id], seen)
		nodes = append(nodes, node)
	}
	return nodes
}
