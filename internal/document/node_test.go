package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_AddChildAssignsPositions(t *testing.T) {
	parent := NewNode("experience")
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, parent.AddChild(NewNode(name)))
	}

	require.Equal(t, 3, parent.ChildCount())
	for i, c := range parent.Children() {
		assert.Equal(t, i, c.Position)
		assert.Same(t, parent, c.Parent())
	}
}

func TestNode_AddChildRejectsAttachedNode(t *testing.T) {
	parent := NewNode("p")
	child := NewNode("c")
	require.NoError(t, parent.AddChild(child))

	other := NewNode("o")
	err := other.AddChild(child)
	require.Error(t, err)

	var opErr *InvalidOperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "add-child", opErr.Op)
}

func TestNode_AddChildRejectsAncestor(t *testing.T) {
	grand := NewNode("grand")
	parent := NewNode("parent")
	require.NoError(t, grand.AddChild(parent))

	// Detach so the parent check passes and the cycle check is what fires.
	detached, err := grand.RemoveChild(0)
	require.NoError(t, err)
	require.NoError(t, detached.AddChild(grand))

	err = grand.AddChild(detached)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beneath itself")
}

func TestNode_RemoveChildRenumbers(t *testing.T) {
	parent := NewNode("p")
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, parent.AddChild(NewNode(name)))
	}

	removed, err := parent.RemoveChild(1)
	require.NoError(t, err)
	assert.Equal(t, "b", removed.Name)
	assert.Nil(t, removed.Parent())
	assert.Equal(t, 0, removed.Position)

	require.Equal(t, 2, parent.ChildCount())
	assert.Equal(t, "a", parent.ChildAt(0).Name)
	assert.Equal(t, 0, parent.ChildAt(0).Position)
	assert.Equal(t, "c", parent.ChildAt(1).Name)
	assert.Equal(t, 1, parent.ChildAt(1).Position)
}

func TestNode_RemoveChildOutOfRange(t *testing.T) {
	parent := NewNode("p")
	_, err := parent.RemoveChild(0)
	require.Error(t, err)

	var opErr *InvalidOperationError
	require.ErrorAs(t, err, &opErr)
}

func TestNode_RemovedSubtreeKeepsStructure(t *testing.T) {
	doc := mustBuild(t, `{"experience": [{"company": "Acme", "role": "Dev"}]}`)
	exp := doc.Child("experience")

	entry, err := exp.RemoveChild(0)
	require.NoError(t, err)
	assert.Equal(t, "Dev", entry.Child("role").Value)
	assert.Same(t, entry, entry.Root(), "detached subtree anchors at itself")
}

func TestNode_FindByID(t *testing.T) {
	doc := mustBuild(t, `{"basics": {"name": "Ada"}, "summary": "x"}`)
	leaf := doc.Child("basics").Child("name")

	assert.Same(t, leaf, doc.FindByID(leaf.ID))
	assert.Same(t, doc, doc.FindByID(doc.ID))
	assert.Nil(t, doc.FindByID(uuid.New()))
}

func TestNode_IDsAreStableAcrossEdits(t *testing.T) {
	doc := mustBuild(t, `{"experience": [{"company": "A"}, {"company": "B"}]}`)
	exp := doc.Child("experience")
	second := exp.ChildAt(1)
	id := second.ID

	require.NoError(t, exp.MoveChild(1, 0))
	assert.Equal(t, id, exp.ChildAt(0).ID)
}

func TestNode_Path(t *testing.T) {
	doc := mustBuild(t, `{"basics": {"contact": {"email": "a@b.c"}}, "skills": [{"category": "x"}]}`)

	assert.Equal(t, "(root)", doc.Path())
	assert.Equal(t, "basics/contact/email", doc.Child("basics").Child("contact").Child("email").Path())

	// Anonymous entries render as their sibling index.
	entry := doc.Child("skills").ChildAt(0)
	assert.Equal(t, "skills/[0]/category", entry.Child("category").Path())
}

func TestNode_WalkPreorderAndPrune(t *testing.T) {
	doc := mustBuild(t, `{"basics": {"name": "Ada"}, "summary": "x"}`)

	var visited []string
	doc.Walk(func(n *Node) bool {
		visited = append(visited, n.Name)
		return n.Name != "basics" // prune below basics
	})
	assert.Equal(t, []string{"", "basics", "summary"}, visited)
}

func TestNode_ChildrenIsACopy(t *testing.T) {
	parent := NewNode("p")
	require.NoError(t, parent.AddChild(NewNode("a")))

	kids := parent.Children()
	kids[0] = nil
	assert.NotNil(t, parent.ChildAt(0))
}

func TestNode_IsAncestorOf(t *testing.T) {
	doc := mustBuild(t, `{"basics": {"name": "Ada"}}`)
	basics := doc.Child("basics")
	name := basics.Child("name")

	assert.True(t, doc.IsAncestorOf(name))
	assert.True(t, basics.IsAncestorOf(basics))
	assert.False(t, name.IsAncestorOf(basics))
}
