package java

import (
	"fmt"
	"io"

	"github.com/dhamidi/sai-complete/classfile"
)

func ClassModelFromFile(path string) (*ClassModel, error) {
	cf, err := classfile.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return ClassModelFromClassFile(cf)
}

func ClassModelFromReader(r io.Reader) (*ClassModel, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return nil, err
	}
	return ClassModelFromClassFile(cf)
}

// ClassModelFromClassFile converts a parsed class file. Generic signatures
// are used when present; otherwise types come from the erased descriptors.
func ClassModelFromClassFile(cf *classfile.ClassFile) (*ClassModel, error) {
	if cf.IsModule() {
		return nil, fmt.Errorf("%s: module-info is not a class", cf.Name)
	}
	name := classfile.SourceName(cf.Name)
	pkg, simple := SplitName(name)

	model := &ClassModel{
		Name:         name,
		SimpleName:   simple,
		Package:      pkg,
		Kind:         binaryKind(cf),
		Visibility:   flagVisibility(cf.AccessFlags),
		IsFinal:      cf.AccessFlags.IsFinal(),
		IsAbstract:   cf.AccessFlags.IsAbstract(),
		IsDeprecated: cf.Deprecated,
		Offset:       -1,
	}
	applyNesting(model, cf.InnerClasses)

	if cf.GenericSignature != "" {
		parsed, err := ParseClassSignature(cf.GenericSignature)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		model.TypeParameters = parsed.TypeParameters
		if cf.SuperName != "" {
			model.SuperClass = parsed.SuperClass
		}
		model.Interfaces = parsed.Interfaces
	} else {
		if cf.SuperName != "" {
			model.SuperClass = ClassType(classfile.SourceName(cf.SuperName))
		}
		for _, iface := range cf.Interfaces {
			model.Interfaces = append(model.Interfaces, ClassType(classfile.SourceName(iface)))
		}
	}
	if model.IsInterface() {
		model.SuperClass = nil
	}

	for i := range cf.Fields {
		f := &cf.Fields[i]
		if f.AccessFlags.IsSynthetic() {
			continue
		}
		t, err := ParseSignature(f.Signature())
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, f.Name, err)
		}
		model.Fields = append(model.Fields, FieldModel{
			Name:           f.Name,
			Type:           t,
			Visibility:     flagVisibility(f.AccessFlags),
			IsStatic:       f.AccessFlags.IsStatic(),
			IsFinal:        f.AccessFlags.IsFinal(),
			IsEnumConstant: f.AccessFlags.IsEnum(),
			IsDeprecated:   f.Deprecated,
			Offset:         -1,
		})
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.AccessFlags.IsSynthetic() || m.AccessFlags.IsBridge() || m.Name == "<clinit>" {
			continue
		}
		mm, err := binaryMethod(m, model)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, m.Name, err)
		}
		model.Methods = append(model.Methods, mm)
	}

	return model, nil
}

// applyNesting applies the InnerClasses entries naming model itself, which
// carry a member class's real modifiers, and collects its member types.
func applyNesting(model *ClassModel, entries []classfile.InnerClass) {
	for _, ic := range entries {
		inner := classfile.SourceName(ic.Name)
		outer := classfile.SourceName(ic.Outer)
		switch {
		case inner == model.Name:
			model.Outer = outer
			if ic.SimpleName == "" {
				model.IsLocal = true
			} else {
				model.SimpleName = ic.SimpleName
			}
			model.Visibility = flagVisibility(ic.AccessFlags)
			model.IsStatic = ic.AccessFlags.IsStatic()
			model.IsFinal = ic.AccessFlags.IsFinal()
			model.IsAbstract = ic.AccessFlags.IsAbstract()
		case outer == model.Name && ic.SimpleName != "" && !ic.AccessFlags.IsSynthetic():
			model.MemberTypes = append(model.MemberTypes, inner)
		}
	}
}

func binaryMethod(m *classfile.Member, owner *ClassModel) (MethodModel, error) {
	sig, err := ParseMethodSignature(m.Signature())
	if err != nil {
		return MethodModel{}, err
	}
	params := sig.Params
	// Descriptors of inner class constructors carry the outer instance,
	// and enum constructors the name and ordinal, ahead of the declared
	// parameters. Generic signatures leave those out.
	if m.Name == "<init>" && m.Erased() {
		switch {
		case owner.Outer != "" && !owner.IsStatic && !owner.IsLocal && len(params) > 0:
			params = params[1:]
		case owner.IsEnum() && len(params) >= 2:
			params = params[2:]
		}
	}

	flags := m.AccessFlags
	mm := MethodModel{
		Name:           m.Name,
		TypeParameters: sig.TypeParameters,
		ReturnType:     sig.Return,
		Visibility:     flagVisibility(flags),
		IsStatic:       flags.IsStatic(),
		IsFinal:        flags.IsFinal(),
		IsAbstract:     flags.IsAbstract(),
		IsVarargs:      flags.IsVarargs(),
		IsDeprecated:   m.Deprecated,
		Offset:         -1,
	}
	if owner.IsInterface() && !flags.IsAbstract() && !flags.IsStatic() && mm.Visibility == VisibilityPublic {
		mm.IsDefault = true
	}
	names := m.ParameterNames()
	skip := len(names) - len(params)
	for i, p := range params {
		pm := ParameterModel{Type: p}
		if skip >= 0 && i+skip < len(names) {
			pm.Name = names[i+skip]
		}
		mm.Parameters = append(mm.Parameters, pm)
	}
	if len(sig.Throws) > 0 {
		mm.Exceptions = sig.Throws
	} else {
		for _, e := range m.Exceptions {
			mm.Exceptions = append(mm.Exceptions, ClassType(classfile.SourceName(e)))
		}
	}
	return mm, nil
}

func flagVisibility(flags classfile.AccessFlags) Visibility {
	switch {
	case flags.IsPublic():
		return VisibilityPublic
	case flags.IsProtected():
		return VisibilityProtected
	case flags.IsPrivate():
		return VisibilityPrivate
	}
	return VisibilityPackage
}

func binaryKind(cf *classfile.ClassFile) ClassKind {
	switch {
	case cf.IsAnnotation():
		return ClassKindAnnotation
	case cf.IsEnum():
		return ClassKindEnum
	case cf.IsInterface():
		return ClassKindInterface
	case cf.IsRecord():
		return ClassKindRecord
	}
	return ClassKindClass
}
