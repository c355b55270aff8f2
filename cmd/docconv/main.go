// Пакетная конвертация описаний между HTML, Plate JSON и Markdown.
//
// Формат входного файла определяется по расширению (.html, .htm, .json). Результат пишется в каталог -out
// с заменой расширения, без -out - в stdout.
//
// Пример запуска: go run ./cmd/docconv -to md -sanitize -out ./out descriptions/*.html
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

func main() {
	to := flag.String("to", "html", "Output format: html, json or md")
	minifyInput := flag.Bool("minify", false, "Minify HTML input before parsing")
	sanitize := flag.Bool("sanitize", false, "Sanitize HTML input with editor policy")
	outDir := flag.String("out", "", "Output directory, stdout if empty")
	workers := flag.Int("workers", runtime.NumCPU(), "Concurrent conversions")
	flag.Parse()

	format, err := ParseFormat(*to)
	if err != nil {
		slog.Error("Bad output format", "err", err)
		os.Exit(1)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: docconv [flags] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			slog.Error("Create output dir", "dir", *outDir, "err", err)
			os.Exit(1)
		}
	}

	conv := Converter{To: format, Minify: *minifyInput, Sanitize: *sanitize}

	var stdoutMu sync.Mutex
	var g errgroup.Group
	g.SetLimit(max(*workers, 1))
	for _, path := range flag.Args() {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			res, err := conv.Convert(filepath.Ext(path), data)
			if err != nil {
				return fmt.Errorf("convert %s: %w", path, err)
			}

			if *outDir == "" {
				stdoutMu.Lock()
				defer stdoutMu.Unlock()
				_, err := os.Stdout.Write(append(res, '\n'))
				return err
			}

			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + format.Ext()
			if err := os.WriteFile(filepath.Join(*outDir, name), res, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
			slog.Debug("Converted", "src", path, "dst", name)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Conversion failed", "err", err)
		os.Exit(1)
	}
}
