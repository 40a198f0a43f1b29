package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-lessons/cmd/lessons/internal/bootstrap"
	lessonscmd "github.com/goliatone/go-lessons/internal/commands/lessons"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runLint(os.Args[1:]); err != nil {
		log.Fatalf("lessons lint: %v", err)
	}
}

func runLint(args []string) error {
	fs := flag.NewFlagSet("lessons-lint", flag.ExitOnError)
	lessonsDir := fs.String("lessons-dir", "lessons", "Path to the lesson markdown root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering lesson files")
	directory := fs.String("directory", ".", "Directory to lint, relative to the lesson root")
	strict := fs.Bool("strict", false, "Exit non-zero when any lesson has lint issues")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		LessonsDir: *lessonsDir,
		Pattern:    *pattern,
		Recursive:  true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer func() {
		_ = module.Close()
	}()

	report := func(r *interfaces.LintReport) {
		if r == nil || r.Clean() {
			return
		}
		fmt.Fprintf(os.Stdout, "%s\n", r.FilePath)
		for _, issue := range r.Issues {
			fmt.Fprintf(os.Stdout, "  %s: %s\n", issue.Location, issue.Message)
		}
	}

	handler := lessonscmd.NewLintDirectoryHandler(module.Service, module.Logger, module.Gates(), report,
		bootstrap.HandlerOptions[lessonscmd.LintDirectoryCommand](module)...)
	cmd := lessonscmd.LintDirectoryCommand{
		Directory: *directory,
		Strict:    *strict,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute lint command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "lessons lint command executed successfully")

	return nil
}
