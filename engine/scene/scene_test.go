package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

func model() *metadata.Model3D {
	return &metadata.Model3D{
		Positions: []math.Vec3{{X: 0}, {X: 1}, {Y: 1}},
		Faces:     []metadata.Face{{Indices: [3]int{0, 1, 2}}},
	}
}

func TestUpdateSubtreeComposesWorld(t *testing.T) {
	root := NewNode("root", nil)
	root.Transform.SetPosition(math.NewVec3(10, 0, 0))
	child := NewNode("child", model())
	child.Transform.SetPosition(math.NewVec3(0, 5, 0))
	root.AddChild(child)

	root.UpdateSubtree(0)
	p := child.World().MulVec4(math.NewVec4(0, 0, 0, 1))
	assert.True(t, p.Compare(math.NewVec4(10, 5, 0, 1), 1e-9), "got %v", p)
	assert.Equal(t, child.Transform.GetWorld(), child.World())
}

func TestUpdateHookRuns(t *testing.T) {
	root := NewNode("spinner", model())
	root.Update = func(n *Node, dt float64) {
		n.Transform.Translate(math.NewVec3(dt, 0, 0))
	}
	root.UpdateSubtree(0.5)
	root.UpdateSubtree(0.5)
	p := root.World().MulVec4(math.NewVec4(0, 0, 0, 1))
	assert.InDelta(t, 1.0, p.X, 1e-9)
}

func TestSceneDrawables(t *testing.T) {
	s := New("test")
	a := NewNode("a", nil)
	b := NewNode("b", model())
	c := NewNode("c", &metadata.Model3D{})
	d := NewNode("d", model())
	a.AddChild(b)
	a.AddChild(c)
	s.Add(a)
	s.Add(d)

	drawables := s.Drawables()
	require.Len(t, drawables, 2)
	assert.Same(t, b, drawables[0])
	assert.Same(t, d, drawables[1])
	assert.Same(t, c, s.Find("c"))
	assert.Nil(t, s.Find("missing"))

	assert.True(t, s.Remove(d))
	assert.Len(t, s.Roots(), 1)
	s.Destroy()
	assert.Empty(t, s.Roots())
}

func TestReparent(t *testing.T) {
	a := NewNode("a", nil)
	b := NewNode("b", nil)
	c := NewNode("c", nil)
	a.AddChild(c)
	b.AddChild(c)
	assert.Empty(t, a.Children())
	assert.Same(t, b, c.Parent())
	assert.Same(t, b.Transform, c.Transform.Parent)
	assert.True(t, b.RemoveChild(c))
	assert.Nil(t, c.Transform.Parent)
}
