package selection

import (
	"slices"
	"testing"

	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	"github.com/Dicklesworthstone/bonsai/pkg/tree/treetest"
	"pgregory.net/rapid"
)

func drawController(t *rapid.T) *Controller {
	ix, err := tree.Build(treetest.Gen(t), treetest.RootID, rapid.Bool().Draw(t, "folderOnTop"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c := New(ix, Options{UseSelection: true})
	c.ExpandAll()
	return c
}

func visibleFiles(c *Controller) []string {
	var ids []string
	for _, r := range c.Sequence().Rows() {
		if !r.Sentinel && !r.Node.IsFolder && r.Node.Draggable {
			ids = append(ids, r.Node.ID)
		}
	}
	return ids
}

// Range selection from i to j covers the same set as from j to i.
func TestPropertyRangeSymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawController(t)
		files := visibleFiles(c)
		if len(files) < 2 {
			t.Skip("need two selectable rows")
		}
		a := rapid.SampledFrom(files).Draw(t, "a")
		b := rapid.SampledFrom(files).Draw(t, "b")
		if a == b {
			t.Skip("same endpoints")
		}
		ai, _ := c.Sequence().IndexOf(a)
		bi, _ := c.Sequence().IndexOf(b)

		c.StartSelection(a)
		c.ExtendSelection(b, bi, false)
		forward := c.SecondaryIDs()

		c.StartSelection(b)
		c.ExtendSelection(a, ai, false)
		backward := c.SecondaryIDs()

		slices.Sort(forward)
		slices.Sort(backward)
		if !slices.Equal(forward, backward) {
			t.Fatalf("forward %v != backward %v", forward, backward)
		}
	})
}

// The primary stays a member of the secondary selection.
func TestPropertyPrimaryInSecondary(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawController(t)
		files := visibleFiles(c)
		if len(files) == 0 {
			t.Skip("nothing selectable")
		}
		c.StartSelection(rapid.SampledFrom(files).Draw(t, "start"))

		steps := rapid.IntRange(1, 8).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.SampledFrom(files).Draw(t, "id")
			idx, _ := c.Sequence().IndexOf(id)
			c.ExtendSelection(id, idx, rapid.Bool().Draw(t, "exclusive"))
			if rapid.IntRange(0, 5).Draw(t, "collapse") == 0 {
				folders := c.Index().FolderIDs()
				if len(folders) > 0 {
					c.ToggleItem(rapid.SampledFrom(folders).Draw(t, "folder"), false)
				}
			}
		}

		st := c.State()
		if st.PrimaryID != "" && len(st.SecondaryIDs) > 0 && !slices.Contains(st.SecondaryIDs, st.PrimaryID) {
			t.Fatalf("primary %q not in %v", st.PrimaryID, st.SecondaryIDs)
		}
	})
}

// ExpandAll followed by CollapseAll leaves only the root's children visible.
func TestPropertyExpandCollapseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawController(t)
		c.CollapseAll()
		want := c.Sequence().IDs()

		c.ExpandAll()
		if got := len(c.Sequence().IDs()); got != c.Index().Len()-1 {
			t.Fatalf("expanded rows = %d, want %d", got, c.Index().Len()-1)
		}
		c.CollapseAll()
		if got := c.Sequence().IDs(); !slices.Equal(got, want) {
			t.Fatalf("collapsed %v, want %v", got, want)
		}
	})
}
