package scene

import (
	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

/** @brief Animates a node. Called once per frame by the geometry update of its subtree. */
type UpdateFunc func(n *Node, dt float64)

/**
 * @brief A scene graph node: a transform, an optional model and children.
 * A node's world matrix is only written by the geometry update of the
 * subtree it belongs to.
 */
type Node struct {
	ID        uint32
	Name      string
	Transform *math.Transform
	/** @brief The model to draw. Owned by the asset cache. Optional. */
	Model  *metadata.Model3D
	Update UpdateFunc

	parent   *Node
	children []*Node
	world    math.Mat4
}

func NewNode(name string, model *metadata.Model3D) *Node {
	n := &Node{
		Name:      name,
		Transform: math.TransformCreate(),
		Model:     model,
		world:     math.NewMat4Identity(),
	}
	n.ID = core.IdentifierAquireNewID(n)
	return n
}

// AddChild attaches child below n, detaching it from any previous parent.
func (n *Node) AddChild(child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	child.Transform.Parent = n.Transform
	n.children = append(n.children, child)
}

func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			child.Transform.Parent = nil
			return true
		}
	}
	return false
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return n.children }

// World returns the world matrix computed by the last geometry update.
func (n *Node) World() math.Mat4 { return n.world }

// Drawable reports whether the node has something to render.
func (n *Node) Drawable() bool { return !n.Model.Empty() }

// Walk visits n and its descendants depth first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// UpdateSubtree runs the animation hooks of n and its descendants and
// recomputes their world matrices from the parent's.
func (n *Node) UpdateSubtree(dt float64) {
	parentWorld := math.NewMat4Identity()
	if n.parent != nil {
		parentWorld = n.parent.world
	}
	n.updateSubtree(parentWorld, dt)
}

func (n *Node) updateSubtree(parentWorld math.Mat4, dt float64) {
	if n.Update != nil {
		n.Update(n, dt)
	}
	n.world = parentWorld.Mul(n.Transform.GetLocal())
	for _, c := range n.children {
		c.updateSubtree(n.world, dt)
	}
}

// Destroy releases the identifiers of n and its descendants.
func (n *Node) Destroy() {
	n.Walk(func(node *Node) {
		if err := core.IdentifierReleaseID(node.ID); err != nil {
			core.LogWarn("failed to release node '%s': %s", node.Name, err)
		}
	})
}
