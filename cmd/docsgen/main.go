// Генерация перечня ошибок HTTP API в формате Markdown.
// Разбирает файл с определениями apierrors.DefinedError и строит таблицу: код, HTTP статус, сообщение и перевод.
//
// Пример запуска: go run ./cmd/docsgen -src internal/docedit/apierrors/apierrors.go -out api_errors.md
package main

import (
	"flag"
	"go/parser"
	"go/token"
	"log/slog"
	"os"

	md "github.com/nao1215/markdown"
)

func main() {
	errorsFile := flag.String("src", "internal/docedit/apierrors/apierrors.go", "Path of apierrors.go")
	outputMd := flag.String("out", "api_errors.md", "Path to output md")
	flag.Parse()

	slog.Info("Generate api errors docs", "src", *errorsFile, "out", *outputMd)

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, *errorsFile, nil, 0)
	if err != nil {
		slog.Error("Parse errors file", "err", err)
		os.Exit(1)
	}

	ff, err := os.Create(*outputMd)
	if err != nil {
		slog.Error("Create output file", "err", err)
		os.Exit(1)
	}
	defer ff.Close()

	if err := md.NewMarkdown(ff).
		H1("Перечень кодов ошибок").
		PlainText("Ошибки сервера редактора описаний. Тело ответа: {\"code\": ..., \"error\": ..., \"ru_error\": ...}.").
		CustomTable(md.TableSet{
			Header: []string{"Код", "HTTP код", "Сообщение", "Сообщение на русском"},
			Rows:   getRows(f),
		}, md.TableOptions{
			AutoWrapText: false,
		}).Build(); err != nil {
		slog.Error("Generate docs fail", "err", err)
		os.Exit(1)
	}
	slog.Info("Docs generated")
}
