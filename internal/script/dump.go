package script

import (
	"fmt"

	goyaml "github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DumpJSON renders s's tables as a JSON document for test fixtures,
// assembled the same way internal/builtin/json.go builds JSON.stringify's
// output: each table is folded in with sjson.SetRaw rather than a
// hand-rolled string builder, and the bytecode blob is rendered as its
// length rather than a byte dump (opcode semantics aren't this package's
// concern, and a raw byte array is not a useful fixture diff).
func (s *Script) DumpJSON() (string, error) {
	if s == nil {
		return "", fmt.Errorf("script: cannot dump nil Script")
	}
	doc := "{}"
	var err error
	if doc, err = sjson.Set(doc, "name", s.Name); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "isModule", s.IsModule); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "bytecodeLength", len(s.Bytecode)); err != nil {
		return "", err
	}

	constsDoc := "[]"
	for _, c := range s.Constants {
		entry := "{}"
		if entry, err = sjson.Set(entry, "kind", c.Kind.String()); err != nil {
			return "", err
		}
		switch c.Kind {
		case ConstNumber:
			entry, err = sjson.Set(entry, "num", c.Num)
		default:
			entry, err = sjson.Set(entry, "str", c.Str)
		}
		if err != nil {
			return "", err
		}
		if constsDoc, err = sjson.SetRaw(constsDoc, "-1", entry); err != nil {
			return "", err
		}
	}
	if doc, err = sjson.SetRaw(doc, "constants", constsDoc); err != nil {
		return "", err
	}

	declsDoc := "{}"
	if declsDoc, err = dumpDecls(declsDoc, "lexical", s.Decls.Lexical); err != nil {
		return "", err
	}
	if declsDoc, err = dumpDecls(declsDoc, "var", s.Decls.Var); err != nil {
		return "", err
	}
	if doc, err = sjson.SetRaw(doc, "decls", declsDoc); err != nil {
		return "", err
	}

	fnsDoc := "[]"
	for _, fn := range s.Functions {
		entry := "{}"
		if entry, err = sjson.Set(entry, "nameIdx", fn.NameIdx); err != nil {
			return "", err
		}
		if entry, err = sjson.Set(entry, "paramCount", fn.ParamCount); err != nil {
			return "", err
		}
		if entry, err = sjson.Set(entry, "bytecodeStart", fn.BytecodeStart); err != nil {
			return "", err
		}
		if entry, err = sjson.Set(entry, "bytecodeEnd", fn.BytecodeEnd); err != nil {
			return "", err
		}
		if fnsDoc, err = sjson.SetRaw(fnsDoc, "-1", entry); err != nil {
			return "", err
		}
	}
	if doc, err = sjson.SetRaw(doc, "functions", fnsDoc); err != nil {
		return "", err
	}

	if !gjson.Valid(doc) {
		return "", fmt.Errorf("script: assembled dump document is not valid JSON")
	}
	return doc, nil
}

func dumpDecls(doc, field string, decls []BindingDecl) (string, error) {
	list := "[]"
	for _, d := range decls {
		entry := "{}"
		var err error
		if entry, err = sjson.Set(entry, "nameIdx", d.NameIdx); err != nil {
			return "", err
		}
		if entry, err = sjson.Set(entry, "const", d.Flags.Has(BindingConst)); err != nil {
			return "", err
		}
		if entry, err = sjson.Set(entry, "strict", d.Flags.Has(BindingStrict)); err != nil {
			return "", err
		}
		if entry, err = sjson.Set(entry, "var", d.Flags.Has(BindingVar)); err != nil {
			return "", err
		}
		if list, err = sjson.SetRaw(list, "-1", entry); err != nil {
			return "", err
		}
	}
	return sjson.SetRaw(doc, field, list)
}

// disassemblyView is the plain-struct shape DumpYAML marshals, chosen so
// goccy/go-yaml's struct-tag-driven encoder (rather than a hand-built
// document) produces the ordering and indentation a fixture diff expects.
type disassemblyView struct {
	Name      string               `yaml:"name"`
	IsModule  bool                 `yaml:"isModule"`
	Constants []constantView       `yaml:"constants"`
	Lexical   []bindingDeclView    `yaml:"lexicalDecls"`
	Var       []bindingDeclView    `yaml:"varDecls"`
	Functions []functionRecordView `yaml:"functions"`
}

type constantView struct {
	Kind string  `yaml:"kind"`
	Num  float64 `yaml:"num,omitempty"`
	Str  string  `yaml:"str,omitempty"`
}

type bindingDeclView struct {
	NameIdx int  `yaml:"nameIdx"`
	Const   bool `yaml:"const,omitempty"`
	Strict  bool `yaml:"strict,omitempty"`
	Var     bool `yaml:"var,omitempty"`
}

type functionRecordView struct {
	NameIdx       int    `yaml:"nameIdx"`
	ParamCount    int    `yaml:"paramCount"`
	BytecodeStart int    `yaml:"bytecodeStart"`
	BytecodeEnd   int    `yaml:"bytecodeEnd"`
	Flags         uint16 `yaml:"flags"`
}

// DumpYAML renders a human-readable disassembly of s's constant,
// declaration, and function tables, for the `ratjs dump` CLI subcommand
// and test fixtures.
func (s *Script) DumpYAML() (string, error) {
	if s == nil {
		return "", fmt.Errorf("script: cannot dump nil Script")
	}
	view := disassemblyView{Name: s.Name, IsModule: s.IsModule}
	for _, c := range s.Constants {
		view.Constants = append(view.Constants, constantView{Kind: c.Kind.String(), Num: c.Num, Str: c.Str})
	}
	for _, d := range s.Decls.Lexical {
		view.Lexical = append(view.Lexical, bindingDeclView{
			NameIdx: d.NameIdx, Const: d.Flags.Has(BindingConst), Strict: d.Flags.Has(BindingStrict), Var: d.Flags.Has(BindingVar),
		})
	}
	for _, d := range s.Decls.Var {
		view.Var = append(view.Var, bindingDeclView{
			NameIdx: d.NameIdx, Const: d.Flags.Has(BindingConst), Strict: d.Flags.Has(BindingStrict), Var: d.Flags.Has(BindingVar),
		})
	}
	for _, fn := range s.Functions {
		view.Functions = append(view.Functions, functionRecordView{
			NameIdx: fn.NameIdx, ParamCount: fn.ParamCount,
			BytecodeStart: fn.BytecodeStart, BytecodeEnd: fn.BytecodeEnd, Flags: uint16(fn.Flags),
		})
	}
	out, err := goyaml.Marshal(view)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
