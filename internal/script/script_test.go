package script

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSample() *Script {
	s := New("sample")
	nameIdx := s.AddConstant(Constant{Kind: ConstString, Str: "x"})
	s.AddConstant(Constant{Kind: ConstNumber, Num: 42})
	s.Decls.Lexical = append(s.Decls.Lexical, BindingDecl{NameIdx: nameIdx, Flags: BindingConst})
	s.Refs = append(s.Refs, BindingRef{BindingNameIdx: nameIdx})
	s.Bytecode = []byte{0x01, 0x02, 0x03, 0x04}
	s.Lines = []LineEntry{{InstructionOffset: 0, Line: 1}, {InstructionOffset: 2, Line: 2}}
	s.Functions = append(s.Functions, FunctionRecord{
		NameIdx: nameIdx, ParamCount: 0, BytecodeStart: 0, BytecodeEnd: 4,
	})
	return s
}

func TestScriptValidateAcceptsWellFormedScript(t *testing.T) {
	require.NoError(t, buildSample().Validate())
}

func TestScriptValidateRejectsOutOfRangeConstantIndex(t *testing.T) {
	s := buildSample()
	s.Refs = append(s.Refs, BindingRef{BindingNameIdx: 99})
	require.Error(t, s.Validate())
}

func TestScriptValidateRejectsFunctionRangeBeyondBytecode(t *testing.T) {
	s := buildSample()
	s.Functions[0].BytecodeEnd = 999
	require.Error(t, s.Validate())
}

func TestScriptValidateRejectsImportsOnNonModuleScript(t *testing.T) {
	s := buildSample()
	s.Imports = append(s.Imports, ImportEntry{RequestIdx: 0, LocalNameIdx: 0, ImportNameIdx: NoIndex})
	require.Error(t, s.Validate())
}

func TestModuleScriptValidatesImportsAndExports(t *testing.T) {
	s := NewModule("mod")
	reqIdx := s.AddConstant(Constant{Kind: ConstString, Str: "./dep.js"})
	nameIdx := s.AddConstant(Constant{Kind: ConstString, Str: "thing"})
	s.RequestedModules = append(s.RequestedModules, reqIdx)
	s.Imports = append(s.Imports, ImportEntry{RequestIdx: reqIdx, LocalNameIdx: nameIdx, ImportNameIdx: nameIdx})
	s.Exports = append(s.Exports, ExportEntry{LocalNameIdx: nameIdx, ExportNameIdx: nameIdx})
	require.NoError(t, s.Validate())
}

func TestLineAtFindsCoveringLineViaRunLengthEncoding(t *testing.T) {
	s := buildSample()
	require.Equal(t, 1, s.LineAt(0))
	require.Equal(t, 1, s.LineAt(1))
	require.Equal(t, 2, s.LineAt(2))
	require.Equal(t, 2, s.LineAt(3))
}

func TestConstantAtRejectsOutOfRangeIndex(t *testing.T) {
	s := buildSample()
	_, err := s.ConstantAt(100)
	require.Error(t, err)
}
