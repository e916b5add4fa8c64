package script

import (
	"testing"

	"github.com/tidwall/gjson"
	"github.com/stretchr/testify/require"
)

func TestDumpJSONProducesValidDocumentWithExpectedFields(t *testing.T) {
	s := buildSample()
	doc, err := s.DumpJSON()
	require.NoError(t, err)
	require.True(t, gjson.Valid(doc))

	require.Equal(t, "sample", gjson.Get(doc, "name").String())
	require.Equal(t, int64(4), gjson.Get(doc, "bytecodeLength").Int())
	require.Len(t, gjson.Get(doc, "constants").Array(), 2)
	require.Len(t, gjson.Get(doc, "decls.lexical").Array(), 1)
	require.Len(t, gjson.Get(doc, "functions").Array(), 1)
}

func TestDumpJSONRejectsNilScript(t *testing.T) {
	var s *Script
	_, err := s.DumpJSON()
	require.Error(t, err)
}

func TestDumpYAMLRendersTableSections(t *testing.T) {
	s := buildSample()
	out, err := s.DumpYAML()
	require.NoError(t, err)
	require.Contains(t, out, "name: sample")
	require.Contains(t, out, "lexicalDecls")
	require.Contains(t, out, "functions")
}
