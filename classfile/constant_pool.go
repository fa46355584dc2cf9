package classfile

// constant keeps what member lookups need from a pool entry: the text of
// Utf8 entries and the name index of Class entries. Other entries only
// record their tag.
type constant struct {
	tag   ConstantTag
	text  string
	index uint16
}

// ConstantPool is indexed from 1, as in the class file. Slot 0 and the
// second slot of long and double entries are empty.
type ConstantPool []constant

// Utf8 returns the text of entry i, or "" when i is not a Utf8 entry.
func (cp ConstantPool) Utf8(i uint16) string {
	if int(i) >= len(cp) || cp[i].tag != ConstantUtf8 {
		return ""
	}
	return cp[i].text
}

// ClassName returns the internal name of Class entry i, or "".
func (cp ConstantPool) ClassName(i uint16) string {
	if int(i) >= len(cp) || cp[i].tag != ConstantClass {
		return ""
	}
	return cp.Utf8(cp[i].index)
}

func (cp ConstantPool) Tag(i uint16) ConstantTag {
	if int(i) >= len(cp) {
		return 0
	}
	return cp[i].tag
}
