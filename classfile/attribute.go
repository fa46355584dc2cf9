package classfile

// Attributes holds the attributes completion reads, resolved against the
// constant pool. Everything else in a class file is skipped.
type Attributes struct {
	// GenericSignature is the Signature attribute, or "".
	GenericSignature string
	Deprecated       bool
	// Exceptions are internal names from the Exceptions attribute.
	Exceptions []string
	// Parameters come from MethodParameters; nil when the class was
	// compiled without -parameters.
	Parameters   []Parameter
	InnerClasses []InnerClass
	// Record is set by the Record attribute of a record class.
	Record bool
}

type Parameter struct {
	Name        string
	AccessFlags AccessFlags
}

// InnerClass is an entry of the InnerClasses attribute. Outer and
// SimpleName are empty for local and anonymous classes.
type InnerClass struct {
	Name        string
	Outer       string
	SimpleName  string
	AccessFlags AccessFlags
}

func readAttributes(d *decoder, cp ConstantPool) Attributes {
	var attrs Attributes
	n := d.u2()
	for i := uint16(0); i < n && d.err == nil; i++ {
		name := cp.Utf8(d.u2())
		body := &decoder{data: d.take(int(d.u4()))}
		if d.err != nil {
			break
		}
		attrs.decode(name, body, cp)
	}
	return attrs
}

// decode fills in attribute name from body. A malformed body leaves the
// attribute unset rather than failing the class.
func (a *Attributes) decode(name string, body *decoder, cp ConstantPool) {
	switch name {
	case "Signature":
		sig := cp.Utf8(body.u2())
		if body.err == nil {
			a.GenericSignature = sig
		}
	case "Deprecated":
		a.Deprecated = true
	case "Record":
		a.Record = true
	case "Exceptions":
		var names []string
		for n := body.u2(); n > 0 && body.err == nil; n-- {
			names = append(names, cp.ClassName(body.u2()))
		}
		if body.err == nil {
			a.Exceptions = names
		}
	case "MethodParameters":
		params := []Parameter{}
		for n := body.u1(); n > 0 && body.err == nil; n-- {
			p := Parameter{Name: cp.Utf8(body.u2())}
			p.AccessFlags = AccessFlags(body.u2())
			params = append(params, p)
		}
		if body.err == nil {
			a.Parameters = params
		}
	case "InnerClasses":
		var classes []InnerClass
		for n := body.u2(); n > 0 && body.err == nil; n-- {
			ic := InnerClass{
				Name:  cp.ClassName(body.u2()),
				Outer: cp.ClassName(body.u2()),
			}
			ic.SimpleName = cp.Utf8(body.u2())
			ic.AccessFlags = AccessFlags(body.u2())
			classes = append(classes, ic)
		}
		if body.err == nil {
			a.InnerClasses = classes
		}
	}
}
