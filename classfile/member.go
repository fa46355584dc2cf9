package classfile

// Member is a field or a method.
type Member struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Attributes
}

// Signature returns the generic signature, falling back to the
// descriptor.
func (m *Member) Signature() string {
	if m.GenericSignature != "" {
		return m.GenericSignature
	}
	return m.Descriptor
}

// Erased reports whether the member carries no generic signature.
func (m *Member) Erased() bool {
	return m.GenericSignature == ""
}

// ParameterNames returns the names of the declared parameters, leaving
// out synthetic and mandated ones, or nil when none were recorded.
func (m *Member) ParameterNames() []string {
	if m.Parameters == nil {
		return nil
	}
	var names []string
	for _, p := range m.Parameters {
		if p.AccessFlags&(AccSynthetic|AccMandated) != 0 {
			continue
		}
		names = append(names, p.Name)
	}
	return names
}

func readMembers(d *decoder, cp ConstantPool) []Member {
	n := d.u2()
	members := make([]Member, 0, n)
	for i := uint16(0); i < n && d.err == nil; i++ {
		m := Member{AccessFlags: AccessFlags(d.u2())}
		m.Name = cp.Utf8(d.u2())
		m.Descriptor = cp.Utf8(d.u2())
		m.Attributes = readAttributes(d, cp)
		members = append(members, m)
	}
	return members
}
