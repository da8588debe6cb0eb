// Package treetest provides node collections and rapid generators shared by
// the tree, selection and dragdrop tests.
package treetest

import (
	"fmt"

	"github.com/Dicklesworthstone/bonsai/pkg/model"
	"pgregory.net/rapid"
)

// RootID is the root id used by every fixture.
const RootID = "root"

// Folder returns a draggable folder node.
func Folder(id, parent string) model.TreeNode {
	return model.TreeNode{ID: id, ParentID: parent, Label: id, IsFolder: true, Draggable: true}
}

// File returns a draggable file node.
func File(id, parent string) model.TreeNode {
	return model.TreeNode{ID: id, ParentID: parent, Label: id, Draggable: true}
}

// Basic returns {root; A(folder); B(file); C(file, A); D(file, A)}.
func Basic() []model.TreeNode {
	return []model.TreeNode{
		Folder(RootID, RootID),
		Folder("A", RootID),
		File("B", RootID),
		File("C", "A"),
		File("D", "A"),
	}
}

// Project returns a small source-tree shaped collection with nested folders.
func Project() []model.TreeNode {
	return []model.TreeNode{
		Folder(RootID, RootID),
		Folder("src", RootID),
		Folder("docs", RootID),
		Folder("src/components", "src"),
		Folder("src/utils", "src"),
		File("src/App.tsx", "src"),
		File("src/index.tsx", "src"),
		File("src/components/Header.tsx", "src/components"),
		File("src/components/Footer.tsx", "src/components"),
		File("src/utils/format.ts", "src/utils"),
		File("docs/README.md", "docs"),
		File("package.json", RootID),
	}
}

// Gen draws a valid collection: every parent is the root or an earlier
// folder, so chains are acyclic. Input order is shuffled afterwards.
func Gen(t *rapid.T) []model.TreeNode {
	n := rapid.IntRange(0, 40).Draw(t, "n")
	nodes := make([]model.TreeNode, 0, n)
	folders := []string{RootID}

	for i := 0; i < n; i++ {
		id := fmt.Sprintf("n%d", i)
		parent := rapid.SampledFrom(folders).Draw(t, "parent")
		node := model.TreeNode{
			ID:        id,
			ParentID:  parent,
			Label:     id,
			IsFolder:  rapid.Bool().Draw(t, "folder"),
			Draggable: rapid.IntRange(0, 4).Draw(t, "draggable") > 0,
		}
		if node.IsFolder {
			folders = append(folders, id)
		}
		nodes = append(nodes, node)
	}

	nodes = rapid.Permutation(nodes).Draw(t, "order")
	return append([]model.TreeNode{Folder(RootID, RootID)}, nodes...)
}
