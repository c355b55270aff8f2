package main

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const errorsSrc = `package apierrors

import "net/http"

var (
	ErrA = DefinedError{Code: 1000, StatusCode: http.StatusInternalServerError, Err: "internal error", RuErr: "Внутренняя ошибка"}
	ErrB = DefinedError{Code: 2001, Err: "not " + "found"}
	notAnError = 5
)
`

func TestGetRows(t *testing.T) {
	f, err := parser.ParseFile(token.NewFileSet(), "apierrors.go", errorsSrc, 0)
	require.NoError(t, err)

	rows := getRows(f)
	require.Len(t, rows, 2)

	assert.Contains(t, rows[0][0], "1000")
	assert.Contains(t, rows[0][1], "500")
	assert.Contains(t, rows[0][1], "StatusInternalServerError")
	assert.Contains(t, rows[0][2], "internal error")
	assert.Contains(t, rows[0][3], "Внутренняя ошибка")

	assert.Contains(t, rows[1][1], "400")
	assert.Contains(t, rows[1][2], "not found")
	assert.Empty(t, rows[1][3])
}
