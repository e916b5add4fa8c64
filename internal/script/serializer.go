package script

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Binary artifact format (.rjc) for a compiled Script: a magic plus
// version header followed by
// length-prefixed tables of little-endian fixed-width fields.

const (
	// MagicNumber identifies a RatJavaScript compiled-script file.
	MagicNumber = "RJSC"

	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
)

// Version is a serializer format version.
type Version struct {
	Major, Minor, Patch uint8
}

func (v Version) String() string { return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch) }

// IsCompatible reports whether a reader at version v can load bytecode
// written at version other: majors must match exactly, and a reader may
// load anything at or below its own minor.
func (v Version) IsCompatible(other Version) bool {
	return v.Major == other.Major && other.Minor <= v.Minor
}

// CurrentVersion is the format version this build writes.
func CurrentVersion() Version {
	return Version{VersionMajor, VersionMinor, VersionPatch}
}

// Serializer reads and writes the Script binary artifact format.
type Serializer struct {
	version Version
}

// NewSerializer creates a Serializer at the current format version.
func NewSerializer() *Serializer {
	return &Serializer{version: CurrentVersion()}
}

// Serialize encodes s to the binary artifact format.
func (sr *Serializer) Serialize(s *Script) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("script: cannot serialize nil Script")
	}
	buf := new(bytes.Buffer)
	if err := sr.writeHeader(buf); err != nil {
		return nil, fmt.Errorf("script: write header: %w", err)
	}
	if err := sr.writeString(buf, s.Name); err != nil {
		return nil, fmt.Errorf("script: write name: %w", err)
	}
	if err := sr.writeBool(buf, s.IsModule); err != nil {
		return nil, fmt.Errorf("script: write module flag: %w", err)
	}
	if err := sr.writeConstants(buf, s.Constants); err != nil {
		return nil, fmt.Errorf("script: write constants: %w", err)
	}
	if err := sr.writeDecls(buf, s.Decls.Lexical); err != nil {
		return nil, fmt.Errorf("script: write lexical decls: %w", err)
	}
	if err := sr.writeDecls(buf, s.Decls.Var); err != nil {
		return nil, fmt.Errorf("script: write var decls: %w", err)
	}
	if err := sr.writeRefs(buf, s.Refs); err != nil {
		return nil, fmt.Errorf("script: write binding refs: %w", err)
	}
	if err := sr.writeFunctions(buf, s.Functions); err != nil {
		return nil, fmt.Errorf("script: write functions: %w", err)
	}
	if err := sr.writeBytes(buf, s.Bytecode); err != nil {
		return nil, fmt.Errorf("script: write bytecode: %w", err)
	}
	if err := sr.writeLines(buf, s.Lines); err != nil {
		return nil, fmt.Errorf("script: write lines: %w", err)
	}
	if err := sr.writeIntSlice(buf, s.RequestedModules); err != nil {
		return nil, fmt.Errorf("script: write requested modules: %w", err)
	}
	if err := sr.writeImports(buf, s.Imports); err != nil {
		return nil, fmt.Errorf("script: write imports: %w", err)
	}
	if err := sr.writeExports(buf, s.Exports); err != nil {
		return nil, fmt.Errorf("script: write exports: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize decodes a Script from the binary artifact format, then
// validates its internal cross-references before returning it.
func (sr *Serializer) Deserialize(data []byte) (*Script, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("script: artifact too short: expected at least 8 bytes, got %d", len(data))
	}
	r := bytes.NewReader(data)

	version, err := sr.readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("script: read header: %w", err)
	}
	if !sr.version.IsCompatible(version) {
		return nil, fmt.Errorf("script: incompatible artifact version: have %s, artifact is %s", sr.version, version)
	}

	name, err := sr.readString(r)
	if err != nil {
		return nil, fmt.Errorf("script: read name: %w", err)
	}
	s := New(name)

	if s.IsModule, err = sr.readBool(r); err != nil {
		return nil, fmt.Errorf("script: read module flag: %w", err)
	}
	if s.Constants, err = sr.readConstants(r); err != nil {
		return nil, fmt.Errorf("script: read constants: %w", err)
	}
	if s.Decls.Lexical, err = sr.readDecls(r); err != nil {
		return nil, fmt.Errorf("script: read lexical decls: %w", err)
	}
	if s.Decls.Var, err = sr.readDecls(r); err != nil {
		return nil, fmt.Errorf("script: read var decls: %w", err)
	}
	if s.Refs, err = sr.readRefs(r); err != nil {
		return nil, fmt.Errorf("script: read binding refs: %w", err)
	}
	if s.Functions, err = sr.readFunctions(r); err != nil {
		return nil, fmt.Errorf("script: read functions: %w", err)
	}
	if s.Bytecode, err = sr.readBytes(r); err != nil {
		return nil, fmt.Errorf("script: read bytecode: %w", err)
	}
	if s.Lines, err = sr.readLines(r); err != nil {
		return nil, fmt.Errorf("script: read lines: %w", err)
	}
	if s.RequestedModules, err = sr.readIntSlice(r); err != nil {
		return nil, fmt.Errorf("script: read requested modules: %w", err)
	}
	if s.Imports, err = sr.readImports(r); err != nil {
		return nil, fmt.Errorf("script: read imports: %w", err)
	}
	if s.Exports, err = sr.readExports(r); err != nil {
		return nil, fmt.Errorf("script: read exports: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("script: deserialized artifact failed validation: %w", err)
	}
	return s, nil
}

// ---- header ----

func (sr *Serializer) writeHeader(w io.Writer) error {
	if _, err := w.Write([]byte(MagicNumber)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, sr.version.Major); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, sr.version.Minor); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, sr.version.Patch)
}

func (sr *Serializer) readHeader(r io.Reader) (Version, error) {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return Version{}, fmt.Errorf("read magic: %w", err)
	}
	if string(magic) != MagicNumber {
		return Version{}, fmt.Errorf("invalid magic number: expected %q, got %q", MagicNumber, string(magic))
	}
	var v Version
	if err := binary.Read(r, binary.LittleEndian, &v.Major); err != nil {
		return Version{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &v.Minor); err != nil {
		return Version{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &v.Patch); err != nil {
		return Version{}, err
	}
	return v, nil
}

// ---- primitives ----

func (sr *Serializer) writeString(w io.Writer, str string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(str))); err != nil {
		return err
	}
	if len(str) == 0 {
		return nil
	}
	_, err := w.Write([]byte(str))
	return err
}

func (sr *Serializer) readString(r io.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return "", err
	}
	return string(data), nil
}

func (sr *Serializer) writeBytes(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	_, err := w.Write(b)
	return err
}

func (sr *Serializer) readBytes(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (sr *Serializer) writeBool(w io.Writer, v bool) error {
	var b uint8
	if v {
		b = 1
	}
	return binary.Write(w, binary.LittleEndian, b)
}

func (sr *Serializer) readBool(r io.Reader) (bool, error) {
	var b uint8
	if err := binary.Read(r, binary.LittleEndian, &b); err != nil {
		return false, err
	}
	return b != 0, nil
}

func (sr *Serializer) writeInt32(w io.Writer, v int) error {
	return binary.Write(w, binary.LittleEndian, int32(v))
}

func (sr *Serializer) readInt32(r io.Reader) (int, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return int(v), err
}

// ---- tables ----

func (sr *Serializer) writeConstants(w io.Writer, cs []Constant) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(cs))); err != nil {
		return err
	}
	for _, c := range cs {
		if err := binary.Write(w, binary.LittleEndian, uint8(c.Kind)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, c.Num); err != nil {
			return err
		}
		if err := sr.writeString(w, c.Str); err != nil {
			return err
		}
	}
	return nil
}

func (sr *Serializer) readConstants(r io.Reader) ([]Constant, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]Constant, count)
	for i := range out {
		var kind uint8
		if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
			return nil, err
		}
		var num float64
		if err := binary.Read(r, binary.LittleEndian, &num); err != nil {
			return nil, err
		}
		str, err := sr.readString(r)
		if err != nil {
			return nil, err
		}
		out[i] = Constant{Kind: ConstantKind(kind), Num: num, Str: str}
	}
	return out, nil
}

func (sr *Serializer) writeDecls(w io.Writer, ds []BindingDecl) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ds))); err != nil {
		return err
	}
	for _, d := range ds {
		if err := sr.writeInt32(w, d.NameIdx); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(d.Flags)); err != nil {
			return err
		}
	}
	return nil
}

func (sr *Serializer) readDecls(r io.Reader) ([]BindingDecl, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	out := make([]BindingDecl, count)
	for i := range out {
		nameIdx, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		var flags uint8
		if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
			return nil, err
		}
		out[i] = BindingDecl{NameIdx: nameIdx, Flags: BindingFlags(flags)}
	}
	return out, nil
}

func (sr *Serializer) writeRefs(w io.Writer, refs []BindingRef) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(refs))); err != nil {
		return err
	}
	for _, ref := range refs {
		if err := sr.writeInt32(w, ref.BindingNameIdx); err != nil {
			return err
		}
	}
	return nil
}

func (sr *Serializer) readRefs(r io.Reader) ([]BindingRef, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]BindingRef, count)
	for i := range out {
		idx, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		out[i] = BindingRef{BindingNameIdx: idx}
	}
	return out, nil
}

func (sr *Serializer) writeFunctions(w io.Writer, fns []FunctionRecord) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(fns))); err != nil {
		return err
	}
	for _, fn := range fns {
		if err := sr.writeInt32(w, fn.NameIdx); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(fn.Flags)); err != nil {
			return err
		}
		if err := sr.writeInt32(w, fn.ParamCount); err != nil {
			return err
		}
		if err := sr.writeInt32(w, fn.DeclsRef); err != nil {
			return err
		}
		if err := sr.writeInt32(w, fn.BytecodeStart); err != nil {
			return err
		}
		if err := sr.writeInt32(w, fn.BytecodeEnd); err != nil {
			return err
		}
	}
	return nil
}

func (sr *Serializer) readFunctions(r io.Reader) ([]FunctionRecord, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]FunctionRecord, count)
	for i := range out {
		nameIdx, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		var flags uint16
		if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
			return nil, err
		}
		paramCount, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		declsRef, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		start, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		end, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		out[i] = FunctionRecord{
			NameIdx: nameIdx, Flags: FunctionFlags(flags), ParamCount: paramCount,
			DeclsRef: declsRef, BytecodeStart: start, BytecodeEnd: end,
		}
	}
	return out, nil
}

func (sr *Serializer) writeLines(w io.Writer, lines []LineEntry) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(lines))); err != nil {
		return err
	}
	for _, l := range lines {
		if err := sr.writeInt32(w, l.InstructionOffset); err != nil {
			return err
		}
		if err := sr.writeInt32(w, l.Line); err != nil {
			return err
		}
	}
	return nil
}

func (sr *Serializer) readLines(r io.Reader) ([]LineEntry, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]LineEntry, count)
	for i := range out {
		offset, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		line, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		out[i] = LineEntry{InstructionOffset: offset, Line: line}
	}
	return out, nil
}

func (sr *Serializer) writeIntSlice(w io.Writer, vals []int) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(vals))); err != nil {
		return err
	}
	for _, v := range vals {
		if err := sr.writeInt32(w, v); err != nil {
			return err
		}
	}
	return nil
}

func (sr *Serializer) readIntSlice(r io.Reader) ([]int, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]int, count)
	for i := range out {
		v, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (sr *Serializer) writeImports(w io.Writer, imports []ImportEntry) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(imports))); err != nil {
		return err
	}
	for _, imp := range imports {
		if err := sr.writeInt32(w, imp.RequestIdx); err != nil {
			return err
		}
		if err := sr.writeInt32(w, imp.LocalNameIdx); err != nil {
			return err
		}
		if err := sr.writeInt32(w, imp.ImportNameIdx); err != nil {
			return err
		}
	}
	return nil
}

func (sr *Serializer) readImports(r io.Reader) ([]ImportEntry, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]ImportEntry, count)
	for i := range out {
		req, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		local, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		imp, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		out[i] = ImportEntry{RequestIdx: req, LocalNameIdx: local, ImportNameIdx: imp}
	}
	return out, nil
}

func (sr *Serializer) writeExports(w io.Writer, exports []ExportEntry) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(exports))); err != nil {
		return err
	}
	for _, exp := range exports {
		if err := sr.writeInt32(w, exp.LocalNameIdx); err != nil {
			return err
		}
		if err := sr.writeInt32(w, exp.ExportNameIdx); err != nil {
			return err
		}
	}
	return nil
}

func (sr *Serializer) readExports(r io.Reader) ([]ExportEntry, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]ExportEntry, count)
	for i := range out {
		local, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		exp, err := sr.readInt32(r)
		if err != nil {
			return nil, err
		}
		out[i] = ExportEntry{LocalNameIdx: local, ExportNameIdx: exp}
	}
	return out, nil
}
