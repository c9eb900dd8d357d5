package compiler

import (
	"fmt"

	"fb-dialect/internal/ast"
)

// TypeHandler renders one abstract type kind.
type TypeHandler func(tc *TypeCompiler, t ast.Type) (string, error)

// TypeCompiler renders column type declarations, dispatching on ast.TypeKind.
type TypeCompiler struct {
	handlers map[ast.TypeKind]TypeHandler
}

// NewTypeCompiler returns a type compiler rendering the generic names.
func NewTypeCompiler() *TypeCompiler {
	tc := &TypeCompiler{handlers: make(map[ast.TypeKind]TypeHandler)}
	for k := range genericTypes {
		tc.handlers[k] = genericType
	}
	return tc
}

// Register replaces the handler of kind k.
func (tc *TypeCompiler) Register(k ast.TypeKind, h TypeHandler) {
	tc.handlers[k] = h
}

// Process renders t.
func (tc *TypeCompiler) Process(t ast.Type) (string, error) {
	h, ok := tc.handlers[t.Kind]
	if !ok {
		return "", Unsupported("type", "cannot render DDL for %s", t.Kind)
	}
	return h(tc, t)
}

// Generic renders t with its generic name.
func (tc *TypeCompiler) Generic(t ast.Type) (string, error) {
	return genericType(tc, t)
}

var genericTypes = map[ast.TypeKind]string{
	ast.TypeSmallInt:  "SMALLINT",
	ast.TypeInteger:   "INTEGER",
	ast.TypeBigInt:    "BIGINT",
	ast.TypeFloat:     "FLOAT",
	ast.TypeNumeric:   "NUMERIC",
	ast.TypeDate:      "DATE",
	ast.TypeTime:      "TIME",
	ast.TypeTimestamp: "TIMESTAMP",
	ast.TypeDateTime:  "DATETIME",
	ast.TypeText:      "TEXT",
	ast.TypeBlob:      "BLOB",
	ast.TypeVarchar:   "VARCHAR",
	ast.TypeChar:      "CHAR",
	ast.TypeBoolean:   "BOOLEAN",
}

func genericType(_ *TypeCompiler, t ast.Type) (string, error) {
	name, ok := genericTypes[t.Kind]
	if !ok {
		return "", Unsupported("type", "cannot render DDL for %s", t.Kind)
	}
	switch {
	case t.Kind == ast.TypeNumeric && t.Precision > 0 && t.Scale != 0:
		return fmt.Sprintf("%s(%d, %d)", name, t.Precision, t.Scale), nil
	case t.Kind == ast.TypeNumeric && t.Precision > 0:
		return fmt.Sprintf("%s(%d)", name, t.Precision), nil
	case t.Length > 0 && (t.IsString() || t.Kind == ast.TypeText):
		return fmt.Sprintf("%s(%d)", name, t.Length), nil
	}
	return name, nil
}
