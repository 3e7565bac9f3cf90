package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/gobra/config"
	"github.com/dhamidi/gobra/format"
	"github.com/dhamidi/gobra/parser"
	"github.com/dhamidi/gobra/project"
)

var checkLog = commonlog.GetLogger("gobra.check")

type checkResult struct {
	path   string
	errs   parser.ErrorList
	failed error
}

func newCheckCmd() *cobra.Command {
	var timeout time.Duration
	var jobs int
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Report syntax errors in Gobra files",
		Long: `Parse every Gobra file below the given paths and report syntax errors.

Directories are searched using the gobra.yaml found in them. Files are
parsed concurrently, each with its own timeout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != "text" && outputFormat != "json" {
				return fmt.Errorf("unknown format: %s (valid: text, json)", outputFormat)
			}
			if len(args) == 0 {
				args = []string{"."}
			}

			var files []string
			opts := make(map[string]*config.Config)
			for _, arg := range args {
				found, cfg, err := collectFiles(arg)
				if err != nil {
					return err
				}
				for _, f := range found {
					opts[f] = cfg
				}
				files = append(files, found...)
			}
			checkLog.Infof("checking %d files", len(files))

			results, err := checkFiles(cmd.Context(), files, opts, jobs, timeout)
			if err != nil {
				return err
			}
			return reportCheck(cmd.OutOrStdout(), cmd.ErrOrStderr(), outputFormat, results)
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "timeout per file")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of files parsed at once")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}

// collectFiles returns the source files for a path argument together with
// the configuration that governs them.
func collectFiles(path string) ([]string, *config.Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		cfg, err := config.LoadFrom(filepath.Dir(path))
		if err != nil {
			return nil, nil, err
		}
		return []string{path}, cfg, nil
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, nil, err
	}
	files, err := project.SourceFiles(path, cfg)
	if err != nil {
		return nil, nil, err
	}
	return files, cfg, nil
}

func checkFiles(ctx context.Context, files []string, cfgs map[string]*config.Config, jobs int, timeout time.Duration) ([]checkResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]checkResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i] = checkFile(ctx, path, cfgs[path], timeout)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkFile(ctx context.Context, path string, cfg *config.Config, timeout time.Duration) checkResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := checkResult{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		result.failed = fmt.Errorf("read %s: %w", path, err)
		return result
	}

	done := make(chan error, 1)
	go func() {
		_, err := parser.ParseSourceFile(bytes.NewReader(data), cfg.ParserOptions(path)...).Finish()
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil && !errors.As(err, &result.errs) {
			result.failed = fmt.Errorf("parse %s: %w", path, err)
		}
		checkLog.Debugf("%s: %d errors", path, len(result.errs))
	case <-ctx.Done():
		result.failed = fmt.Errorf("timeout parsing %s", path)
	}
	return result
}

// reportCheck writes the syntax errors to w. Files that could not be
// checked at all are listed after them, or on errw for JSON output.
func reportCheck(w, errw io.Writer, outputFormat string, results []checkResult) error {
	var all parser.ErrorList
	var failures []error
	for _, r := range results {
		all = append(all, r.errs...)
		if r.failed != nil {
			failures = append(failures, r.failed)
		}
	}

	if outputFormat == "json" {
		text, err := format.ErrorsJSON(all)
		if err != nil {
			return fmt.Errorf("encode errors: %w", err)
		}
		fmt.Fprintln(w, string(text))
		for _, err := range failures {
			fmt.Fprintln(errw, err)
		}
	} else {
		for _, e := range all {
			fmt.Fprintln(w, e)
		}
		for _, err := range failures {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintf(w, "%d files, %d syntax errors\n", len(results), len(all))
	}

	if len(all) > 0 || len(failures) > 0 {
		return fmt.Errorf("%d syntax errors, %d files failed", len(all), len(failures))
	}
	return nil
}
