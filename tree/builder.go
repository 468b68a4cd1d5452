// Package tree reconstructs the parent/child hierarchy of decoded MFT
// records for display, independent of the PathResolver's flattened full-path
// strings: a Tree keeps the structure navigable node by node rather than
// pre-joined into one string per record.
package tree

import (
	"fmt"
	"strings"

	"github.com/aarsakian/ntfsforensics/logger"
	"github.com/aarsakian/ntfsforensics/mft"
)

type Node struct {
	record   *mft.MftRecord
	parent   *Node
	children []*Node
}

type Tree struct {
	root *Node
	byEntry map[uint32]*Node
}

// Build indexes every record into a Node and links children to parents by
// ParentEntryNumber, skipping entry 5 (root) as a child of itself.
func (t *Tree) Build(records []mft.MftRecord) {
	t.byEntry = make(map[uint32]*Node, len(records))
	for i := range records {
		t.byEntry[records[i].EntryNumber] = &Node{record: &records[i]}
	}
	for _, node := range t.byEntry {
		if node.record.EntryNumber == 5 {
			t.root = node
			continue
		}
		parent, ok := t.byEntry[node.record.ParentEntryNumber]
		if !ok || parent == node {
			continue
		}
		node.parent = parent
		parent.children = append(parent.children, node)
	}
}

// Show logs an indented listing of the tree starting at the root entry (5).
func (t Tree) Show() {
	if t.root == nil {
		return
	}
	t.root.show(0)
}

func (n *Node) show(depth int) {
	indent := strings.Repeat("  ", depth)
	msg := fmt.Sprintf("%s%s", indent, n.record.FileName)
	fmt.Println(msg)
	logger.NtfsForensicsLogger.Info(msg)
	for _, child := range n.children {
		child.show(depth + 1)
	}
}
