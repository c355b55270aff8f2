package main

import (
	"fmt"
	"go/ast"
	"net/http"
	"strconv"

	md "github.com/nao1215/markdown"
)

var statusCodes = map[string]int{
	"StatusBadRequest":            http.StatusBadRequest,
	"StatusNotFound":              http.StatusNotFound,
	"StatusConflict":              http.StatusConflict,
	"StatusRequestEntityTooLarge": http.StatusRequestEntityTooLarge,
	"StatusTooManyRequests":       http.StatusTooManyRequests,
	"StatusInternalServerError":   http.StatusInternalServerError,
}

// getRows собирает строки таблицы из всех литералов DefinedError{...}, объявленных через var.
// Статус по умолчанию - StatusBadRequest.
func getRows(f *ast.File) [][]string {
	var rows [][]string
	for _, d := range f.Decls {
		decl, ok := d.(*ast.GenDecl)
		if !ok {
			continue
		}
		for _, spec := range decl.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for _, v := range vs.Values {
				lit, ok := v.(*ast.CompositeLit)
				if !ok || !isDefinedError(lit.Type) {
					continue
				}
				rows = append(rows, errorRow(lit))
			}
		}
	}
	return rows
}

func isDefinedError(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name == "DefinedError"
	case *ast.SelectorExpr:
		return t.Sel.Name == "DefinedError"
	}
	return false
}

func errorRow(lit *ast.CompositeLit) []string {
	row := make([]string, 4)
	statusName := "StatusBadRequest"
	for _, el := range lit.Elts {
		kv, ok := el.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		switch fmt.Sprint(kv.Key) {
		case "Code":
			row[0] = md.Bold(exprString(kv.Value))
		case "StatusCode":
			if sel, ok := kv.Value.(*ast.SelectorExpr); ok {
				statusName = sel.Sel.Name
			}
		case "Err":
			row[2] = md.Code(exprString(kv.Value))
		case "RuErr":
			row[3] = md.Code(exprString(kv.Value))
		}
	}
	row[1] = fmt.Sprintf("%d %s", statusCodes[statusName], md.Italic(statusName))
	return row
}

// exprString возвращает значение литерала, конкатенация строк склеивается.
func exprString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if s, err := strconv.Unquote(e.Value); err == nil {
			return s
		}
		return e.Value
	case *ast.BinaryExpr:
		return exprString(e.X) + exprString(e.Y)
	case *ast.ParenExpr:
		return exprString(e.X)
	}
	return ""
}
