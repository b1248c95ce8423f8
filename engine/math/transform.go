package math

func TransformCreate() *Transform {
	t := &Transform{}
	t.SetPositionRotationScale(NewVec3Zero(), NewQuatIdentity(), NewVec3One())
	t.Local = NewMat4Identity()
	t.Parent = nil
	return t
}

func TransformFromPosition(position Vec3) *Transform {
	t := &Transform{}
	t.SetPositionRotationScale(position, NewQuatIdentity(), NewVec3One())
	t.Local = NewMat4Identity()
	t.Parent = nil
	return t
}

func TransformFromPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) *Transform {
	t := &Transform{}
	t.SetPositionRotationScale(position, rotation, scale)
	t.Local = NewMat4Identity()
	t.Parent = nil
	return t
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
	t.IsDirty = true
}

func (t *Transform) Translate(translation Vec3) {
	t.Position = t.Position.Add(translation)
	t.IsDirty = true
}

func (t *Transform) Rotate(rotation Quaternion) {
	t.Rotation = t.Rotation.Mul(rotation)
	t.IsDirty = true
}

func (t *Transform) SetPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) {
	t.Position = position
	t.Rotation = rotation
	t.Scale = scale
	t.IsDirty = true
}

// GetLocal returns the local matrix, composed as T·R·S.
func (t *Transform) GetLocal() Mat4 {
	if t != nil {
		if t.IsDirty {
			tr := NewMat4Translation(t.Position)
			r := t.Rotation.ToMat4()
			s := NewMat4Scale(t.Scale)
			t.Local = tr.Mul(r.Mul(s))
			t.IsDirty = false
		}
		return t.Local
	}
	return NewMat4Identity()
}

// GetWorld returns parent·local, walking up the parent chain.
func (t *Transform) GetWorld() Mat4 {
	if t != nil {
		l := t.GetLocal()
		if t.Parent != nil {
			p := t.Parent.GetWorld()
			return p.Mul(l)
		}
		return l
	}
	return NewMat4Identity()
}
