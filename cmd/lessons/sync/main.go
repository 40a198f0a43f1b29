package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-lessons/cmd/lessons/internal/bootstrap"
	lessonscmd "github.com/goliatone/go-lessons/internal/commands/lessons"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSync(os.Args[1:]); err != nil {
		log.Fatalf("lessons sync: %v", err)
	}
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("lessons-sync", flag.ExitOnError)
	lessonsDir := fs.String("lessons-dir", "lessons", "Path to the lesson markdown root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering lesson files")
	directory := fs.String("directory", ".", "Directory to sync, relative to the lesson root")
	storageDSN := fs.String("storage-dsn", "", "SQLite DSN for persistent storage (defaults to in-memory store)")
	updateExisting := fs.Bool("update-existing", true, "Overwrite stored lessons when the file content changed")
	deleteOrphaned := fs.Bool("delete-orphaned", false, "Archive stored lessons with no matching file")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting lessons")
	strict := fs.Bool("strict", false, "Reject lessons with any lint issue instead of tolerating partial notes")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		LessonsDir: *lessonsDir,
		Pattern:    *pattern,
		Recursive:  true,
		StorageDSN: *storageDSN,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer func() {
		_ = module.Close()
	}()

	handler := lessonscmd.NewSyncDirectoryHandler(module.Service, module.Logger, module.Gates(),
		bootstrap.HandlerOptions[lessonscmd.SyncDirectoryCommand](module)...)
	cmd := lessonscmd.SyncDirectoryCommand{
		Directory:      *directory,
		UpdateExisting: *updateExisting,
		DeleteOrphaned: *deleteOrphaned,
		DryRun:         *dryRun,
		Strict:         *strict,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "lessons sync command executed successfully")

	return nil
}
