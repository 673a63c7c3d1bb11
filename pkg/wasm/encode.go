package wasm

import (
	"bytes"
)

// Binary format constants.
var magic = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

const (
	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionExport   byte = 7
	sectionCode     byte = 10

	typeFunc  byte = 0x60
	typeI32   byte = 0x7f
	typeI64   byte = 0x7e
	blockVoid byte = 0x40

	externFunc byte = 0x00
)

// Opcodes used by the code generator.
const (
	opUnreachable byte = 0x00
	opIf          byte = 0x04
	opElse        byte = 0x05
	opEnd         byte = 0x0b
	opCall        byte = 0x10
	opLocalGet    byte = 0x20
	opLocalSet    byte = 0x21
	opI32Const    byte = 0x41
	opI64Const    byte = 0x42
	opI64Eqz      byte = 0x50
	opI64Eq       byte = 0x51
	opI64Add      byte = 0x7c
	opI64Sub      byte = 0x7d
	opI64Mul      byte = 0x7e
	opI64DivS     byte = 0x7f
)

// encodeU32 writes v as unsigned LEB128.
func encodeU32(buf *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// encodeS64 writes v as signed LEB128.
func encodeS64(buf *bytes.Buffer, v int64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			buf.WriteByte(b)
			return
		}
		buf.WriteByte(b | 0x80)
	}
}

// encodeName writes a length-prefixed UTF-8 name.
func encodeName(buf *bytes.Buffer, name string) {
	encodeU32(buf, uint32(len(name)))
	buf.WriteString(name)
}

// encodeSection writes a section header followed by its payload.
func encodeSection(buf *bytes.Buffer, id byte, payload []byte) {
	buf.WriteByte(id)
	encodeU32(buf, uint32(len(payload)))
	buf.Write(payload)
}

// encodeModule assembles a module with one host import and one exported
// function whose instruction stream is body (without the final end opcode).
func encodeModule(body []byte, locals uint32) []byte {
	var buf, sec bytes.Buffer
	buf.Write(magic)

	// Type 0: (i32) -> ()   divide_by_zero
	// Type 1: () -> (i64)   eval
	encodeU32(&sec, 2)
	sec.Write([]byte{typeFunc, 1, typeI32, 0})
	sec.Write([]byte{typeFunc, 0, 1, typeI64})
	encodeSection(&buf, sectionType, sec.Bytes())

	sec.Reset()
	encodeU32(&sec, 1)
	encodeName(&sec, HostModule)
	encodeName(&sec, DivideByZeroFunc)
	sec.WriteByte(externFunc)
	encodeU32(&sec, 0)
	encodeSection(&buf, sectionImport, sec.Bytes())

	sec.Reset()
	encodeU32(&sec, 1)
	encodeU32(&sec, 1)
	encodeSection(&buf, sectionFunction, sec.Bytes())

	// Imported functions come first in the index space, so eval is function 1.
	sec.Reset()
	encodeU32(&sec, 1)
	encodeName(&sec, EntryPoint)
	sec.WriteByte(externFunc)
	encodeU32(&sec, 1)
	encodeSection(&buf, sectionExport, sec.Bytes())

	var fn bytes.Buffer
	if locals > 0 {
		encodeU32(&fn, 1)
		encodeU32(&fn, locals)
		fn.WriteByte(typeI64)
	} else {
		encodeU32(&fn, 0)
	}
	fn.Write(body)
	fn.WriteByte(opEnd)

	sec.Reset()
	encodeU32(&sec, 1)
	encodeU32(&sec, uint32(fn.Len()))
	sec.Write(fn.Bytes())
	encodeSection(&buf, sectionCode, sec.Bytes())

	return buf.Bytes()
}
