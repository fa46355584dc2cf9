// Package classfile reads the parts of JVM class files that describe a
// type's API: names, access flags, members, generic signatures and the
// few attributes completion shows. Code, annotations and debug data are
// skipped.
package classfile

import "strings"

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  AccessFlags
	// Name, SuperName and Interfaces are internal names such as
	// java/util/Map$Entry. SuperName is empty for java.lang.Object.
	Name       string
	SuperName  string
	Interfaces []string
	Fields     []Member
	Methods    []Member
	Attributes
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool { return cf.AccessFlags.IsAnnotation() }
func (cf *ClassFile) IsEnum() bool       { return cf.AccessFlags.IsEnum() }
func (cf *ClassFile) IsModule() bool     { return cf.AccessFlags.IsModule() }

func (cf *ClassFile) IsRecord() bool {
	return cf.Record || cf.SuperName == "java/lang/Record"
}

// SourceName converts java/util/Map$Entry to java.util.Map$Entry.
func SourceName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}
