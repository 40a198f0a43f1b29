package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/goliatone/go-lessons/cmd/lessons/internal/bootstrap"
	lessonscmd "github.com/goliatone/go-lessons/internal/commands/lessons"
	"github.com/goliatone/go-lessons/internal/heat"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runTop(os.Args[1:]); err != nil {
		log.Fatalf("lessons top: %v", err)
	}
}

func runTop(args []string) error {
	fs := flag.NewFlagSet("lessons-top", flag.ExitOnError)
	lessonsDir := fs.String("lessons-dir", "lessons", "Path to the lesson markdown root")
	storageDSN := fs.String("storage-dsn", "", "SQLite DSN for persistent storage (defaults to in-memory store)")
	limit := fs.Int("limit", 10, "Maximum number of lessons to display (0 shows all)")
	skipSync := fs.Bool("skip-sync", false, "Rank the stored lessons without re-reading the files first")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		LessonsDir: *lessonsDir,
		Recursive:  true,
		StorageDSN: *storageDSN,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer func() {
		_ = module.Close()
	}()

	ctx := context.Background()

	// The in-memory store starts empty, so pull the files in before ranking
	// unless the caller explicitly opted out.
	if !*skipSync {
		if _, err := module.Service.ImportDirectory(ctx, ".", interfaces.ImportOptions{UpdateExisting: true}); err != nil {
			return fmt.Errorf("import lessons: %w", err)
		}
	}

	var entries []heat.Entry
	handler := lessonscmd.NewRankLessonsHandler(module.Module.Heat(), module.Logger, module.Gates(), func(ranked []heat.Entry) {
		entries = ranked
	}, bootstrap.HandlerOptions[lessonscmd.RankLessonsQuery](module)...)
	if err := handler.Execute(ctx, lessonscmd.RankLessonsQuery{Limit: *limit}); err != nil {
		return fmt.Errorf("rank lessons: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tSEVERITY\tUSED BY\tSLUG")
	for _, entry := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", entry.Score, entry.Lesson.Severity, entry.Lesson.UsedBy, entry.Lesson.Slug)
	}
	return w.Flush()
}
