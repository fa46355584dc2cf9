package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unicode/utf16"
	"unicode/utf8"
)

// decoder reads big-endian values from a class file held in memory. The
// first short read sticks in err and every later read returns zero.
type decoder struct {
	data []byte
	pos  int
	err  error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.data)-d.pos < n {
		d.err = fmt.Errorf("offset %d: %w", d.pos, io.ErrUnexpectedEOF)
		return nil
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b
}

func (d *decoder) u1() uint8 {
	if b := d.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) u2() uint16 {
	if b := d.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (d *decoder) u4() uint32 {
	if b := d.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read class file: %w", err)
	}
	return Decode(data)
}

func Parse(r io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read class file: %w", err)
	}
	return Decode(data)
}

// Decode parses the class file in data. The returned value does not
// retain data.
func Decode(data []byte) (*ClassFile, error) {
	d := &decoder{data: data}
	if magic := d.u4(); d.err == nil && magic != Magic {
		return nil, fmt.Errorf("invalid magic number 0x%X", magic)
	}
	cf := &ClassFile{
		MinorVersion: d.u2(),
		MajorVersion: d.u2(),
	}
	if d.err != nil {
		return nil, fmt.Errorf("class file header: %w", d.err)
	}

	cp, err := readConstantPool(d)
	if err != nil {
		return nil, err
	}

	cf.AccessFlags = AccessFlags(d.u2())
	cf.Name = cp.ClassName(d.u2())
	cf.SuperName = cp.ClassName(d.u2())
	for n := d.u2(); n > 0 && d.err == nil; n-- {
		cf.Interfaces = append(cf.Interfaces, cp.ClassName(d.u2()))
	}
	cf.Fields = readMembers(d, cp)
	cf.Methods = readMembers(d, cp)
	cf.Attributes = readAttributes(d, cp)
	if d.err != nil {
		return nil, fmt.Errorf("class %s: %w", cf.Name, d.err)
	}
	if cf.Name == "" {
		return nil, fmt.Errorf("class file has no this_class entry")
	}
	return cf, nil
}

func readConstantPool(d *decoder) (ConstantPool, error) {
	n := int(d.u2())
	if n == 0 {
		n = 1
	}
	cp := make(ConstantPool, n)
	for i := 1; i < n && d.err == nil; i++ {
		tag := ConstantTag(d.u1())
		switch tag {
		case ConstantUtf8:
			cp[i] = constant{tag: tag, text: decodeModifiedUtf8(d.take(int(d.u2())))}
		case ConstantClass:
			cp[i] = constant{tag: tag, index: d.u2()}
		default:
			size, ok := payloadSize[tag]
			if !ok {
				if d.err != nil {
					break
				}
				return nil, fmt.Errorf("constant %d: unknown tag %d", i, tag)
			}
			d.take(size)
			cp[i] = constant{tag: tag}
			if tag.wide() {
				i++
			}
		}
	}
	if d.err != nil {
		return nil, fmt.Errorf("constant pool: %w", d.err)
	}
	return cp, nil
}

// decodeModifiedUtf8 decodes the JVM's modified UTF-8: NUL is encoded in
// two bytes and supplementary characters as two encoded surrogates.
// Invalid sequences decode byte by byte.
func decodeModifiedUtf8(b []byte) string {
	buf := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			buf = append(buf, c)
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			buf = utf8.AppendRune(buf, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			r := decode3(b[i:])
			if utf16.IsSurrogate(r) && i+5 < len(b) && b[i+3]&0xF0 == 0xE0 {
				if pair := utf16.DecodeRune(r, decode3(b[i+3:])); pair != utf8.RuneError {
					buf = utf8.AppendRune(buf, pair)
					i += 6
					continue
				}
			}
			buf = utf8.AppendRune(buf, r)
			i += 3
		default:
			buf = utf8.AppendRune(buf, rune(c))
			i++
		}
	}
	return string(buf)
}

func decode3(b []byte) rune {
	return rune(b[0]&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F)
}
