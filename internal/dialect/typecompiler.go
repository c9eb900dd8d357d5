package dialect

import (
	"fb-dialect/internal/ast"
	"fb-dialect/internal/compiler"
)

func registerTypes(tc *compiler.TypeCompiler) {
	tc.Register(ast.TypeBoolean, func(tc *compiler.TypeCompiler, _ ast.Type) (string, error) {
		return tc.Generic(ast.SmallInt())
	})
	tc.Register(ast.TypeDateTime, func(tc *compiler.TypeCompiler, _ ast.Type) (string, error) {
		return tc.Generic(ast.Timestamp())
	})
	tc.Register(ast.TypeText, func(*compiler.TypeCompiler, ast.Type) (string, error) {
		return "BLOB SUB_TYPE 1", nil
	})
	tc.Register(ast.TypeBlob, func(*compiler.TypeCompiler, ast.Type) (string, error) {
		return "BLOB SUB_TYPE 0", nil
	})
	tc.Register(ast.TypeChar, visitString)
	tc.Register(ast.TypeVarchar, func(tc *compiler.TypeCompiler, t ast.Type) (string, error) {
		if t.Length <= 0 {
			return "", compiler.Unsupported("type", "VARCHAR requires a length on dialect %s", Name)
		}
		return visitString(tc, t)
	})
}

func visitString(tc *compiler.TypeCompiler, t ast.Type) (string, error) {
	basic, err := tc.Generic(t)
	if err != nil {
		return "", err
	}
	if t.Charset == "" {
		return basic, nil
	}
	return basic + " CHARACTER SET " + t.Charset, nil
}
