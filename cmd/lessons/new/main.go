package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	golessons "github.com/goliatone/go-lessons"
	"github.com/goliatone/go-lessons/cmd/lessons/internal/bootstrap"
	"github.com/goliatone/go-lessons/internal/scaffold"
)

func main() {
	if err := runNew(os.Args[1:]); err != nil {
		log.Fatalf("lessons new: %v", err)
	}
}

func runNew(args []string) error {
	fs := flag.NewFlagSet("lessons-new", flag.ExitOnError)
	lessonsDir := fs.String("lessons-dir", "lessons", "Directory the new lesson file is written to")
	title := fs.String("title", "", "Lesson title (required)")
	slug := fs.String("slug", "", "Lesson slug (defaults to a slugified title)")
	severity := fs.String("severity", golessons.DefaultConfig().DefaultSeverity, "Lesson severity: low, normal, or high")
	tags := fs.String("tags", "", "Comma separated list of tags")
	force := fs.Bool("force", false, "Overwrite the target file if it already exists")

	if err := fs.Parse(args); err != nil {
		return err
	}

	params := scaffold.Params{
		Title:    *title,
		Slug:     *slug,
		Severity: *severity,
		Tags:     bootstrap.SplitTags(*tags),
	}

	source, err := scaffold.Render(params)
	if err != nil {
		return err
	}
	name, err := scaffold.Filename(params)
	if err != nil {
		return err
	}

	target := filepath.Join(*lessonsDir, name)
	if !*force {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("refusing to overwrite %s (use -force)", target)
		}
	}

	if err := os.MkdirAll(*lessonsDir, 0o755); err != nil {
		return fmt.Errorf("create lessons dir: %w", err)
	}
	if err := os.WriteFile(target, source, 0o644); err != nil {
		return fmt.Errorf("write lesson file: %w", err)
	}

	fmt.Fprintf(os.Stdout, "created %s\n", target)
	return nil
}
