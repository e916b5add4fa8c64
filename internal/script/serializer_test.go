package script

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializerRoundTripsScript(t *testing.T) {
	s := buildSample()
	sr := NewSerializer()

	data, err := sr.Serialize(s)
	require.NoError(t, err)

	got, err := sr.Deserialize(data)
	require.NoError(t, err)

	require.Equal(t, s.Name, got.Name)
	require.Equal(t, s.IsModule, got.IsModule)
	require.Equal(t, s.Constants, got.Constants)
	require.Equal(t, s.Decls, got.Decls)
	require.Equal(t, s.Refs, got.Refs)
	require.Equal(t, s.Functions, got.Functions)
	require.Equal(t, s.Bytecode, got.Bytecode)
	require.Equal(t, s.Lines, got.Lines)
}

func TestSerializerRoundTripsModuleImportsAndExports(t *testing.T) {
	s := NewModule("mod")
	reqIdx := s.AddConstant(Constant{Kind: ConstString, Str: "./dep.js"})
	nameIdx := s.AddConstant(Constant{Kind: ConstString, Str: "thing"})
	s.RequestedModules = append(s.RequestedModules, reqIdx)
	s.Imports = append(s.Imports, ImportEntry{RequestIdx: reqIdx, LocalNameIdx: nameIdx, ImportNameIdx: nameIdx})
	s.Exports = append(s.Exports, ExportEntry{LocalNameIdx: nameIdx, ExportNameIdx: nameIdx})

	sr := NewSerializer()
	data, err := sr.Serialize(s)
	require.NoError(t, err)

	got, err := sr.Deserialize(data)
	require.NoError(t, err)
	require.Equal(t, s.RequestedModules, got.RequestedModules)
	require.Equal(t, s.Imports, got.Imports)
	require.Equal(t, s.Exports, got.Exports)
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	sr := NewSerializer()
	data, err := sr.Serialize(buildSample())
	require.NoError(t, err)
	data[0] = 'X'
	_, err = sr.Deserialize(data)
	require.Error(t, err)
}

func TestDeserializeRejectsTruncatedData(t *testing.T) {
	sr := NewSerializer()
	_, err := sr.Deserialize([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestDeserializeRejectsIncompatibleMajorVersion(t *testing.T) {
	sr := NewSerializer()
	data, err := sr.Serialize(buildSample())
	require.NoError(t, err)
	data[4] = VersionMajor + 1
	_, err = sr.Deserialize(data)
	require.Error(t, err)
}

func TestVersionIsCompatible(t *testing.T) {
	v := Version{Major: 1, Minor: 2, Patch: 0}
	require.True(t, v.IsCompatible(Version{Major: 1, Minor: 0, Patch: 0}))
	require.True(t, v.IsCompatible(Version{Major: 1, Minor: 2, Patch: 0}))
	require.False(t, v.IsCompatible(Version{Major: 1, Minor: 3, Patch: 0}))
	require.False(t, v.IsCompatible(Version{Major: 2, Minor: 0, Patch: 0}))
}
