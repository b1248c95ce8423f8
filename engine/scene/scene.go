package scene

import "sync"

/**
 * @brief A collection of independent root subtrees. Geometry updates run
 * per root, so roots must not share nodes.
 */
type Scene struct {
	Name  string
	mu    sync.RWMutex
	roots []*Node
}

func New(name string) *Scene {
	return &Scene{Name: name}
}

func (s *Scene) Add(root *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots = append(s.roots, root)
}

func (s *Scene) Remove(root *Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.roots {
		if r == root {
			s.roots = append(s.roots[:i], s.roots[i+1:]...)
			return true
		}
	}
	return false
}

// Roots returns a copy of the root list.
func (s *Scene) Roots() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Node, len(s.roots))
	copy(out, s.roots)
	return out
}

// Drawables returns every node with a non-empty model, depth first.
func (s *Scene) Drawables() []*Node {
	var out []*Node
	for _, r := range s.Roots() {
		r.Walk(func(n *Node) {
			if n.Drawable() {
				out = append(out, n)
			}
		})
	}
	return out
}

func (s *Scene) Find(name string) *Node {
	var found *Node
	for _, r := range s.Roots() {
		r.Walk(func(n *Node) {
			if found == nil && n.Name == name {
				found = n
			}
		})
	}
	return found
}

// Destroy releases every node of the scene.
func (s *Scene) Destroy() {
	for _, r := range s.Roots() {
		r.Destroy()
	}
	s.mu.Lock()
	s.roots = nil
	s.mu.Unlock()
}
