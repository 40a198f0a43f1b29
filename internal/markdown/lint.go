package markdown

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-lessons/lesson"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// ErrLintFailed is returned by workflows that refuse documents with issues.
var ErrLintFailed = errors.New("lesson lint: document failed structural checks")

// frontMatterSchema validates the metadata block of a lesson file. Extra keys
// are tolerated so authors can annotate documents without breaking lint.
var frontMatterSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"used_by": map[string]any{
			"type":    "integer",
			"minimum": 0,
		},
		"severity": map[string]any{
			"type": "string",
			"enum": []any{
				string(lesson.SeverityLow),
				string(lesson.SeverityNormal),
				string(lesson.SeverityHigh),
			},
		},
		"slug":  map[string]any{"type": "string"},
		"title": map[string]any{"type": "string"},
		"tags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"additionalProperties": true,
}

var compiledFrontMatterSchema = mustCompileSchema(frontMatterSchema)

// Lint runs every structural check the template defines against the parsed
// document: a valid severity, a non-negative usage counter, a title, and the
// five required section headers.
func Lint(doc *interfaces.Document) *interfaces.LintReport {
	report := &interfaces.LintReport{}
	if doc == nil {
		report.Issues = append(report.Issues, interfaces.LintIssue{
			Location: "#",
			Message:  "document is nil",
		})
		return report
	}
	report.FilePath = doc.FilePath

	report.Issues = append(report.Issues, lintFrontMatter(doc.FrontMatter)...)

	if strings.TrimSpace(doc.Title) == "" {
		report.Issues = append(report.Issues, interfaces.LintIssue{
			Location: "#/body",
			Message:  "lesson title heading is missing",
		})
	}

	for _, name := range lesson.RequiredSections() {
		if strings.TrimSpace(doc.Sections[name]) == "" {
			report.Issues = append(report.Issues, interfaces.LintIssue{
				Location: "#/body/" + strings.ToLower(name),
				Message:  fmt.Sprintf("required section %q is missing or empty", name),
			})
		}
	}

	return report
}

func lintFrontMatter(fm interfaces.FrontMatter) []interfaces.LintIssue {
	payload := normalizeFrontMatterPayload(fm.Raw)

	err := compiledFrontMatterSchema.Validate(payload)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return collectSchemaIssues(validationErr)
	}
	return []interfaces.LintIssue{{Location: "#/frontmatter", Message: err.Error()}}
}

// normalizeFrontMatterPayload round-trips the raw metadata through JSON so
// YAML-decoded values (int vs float64, map[any]any) match what the schema
// engine expects.
func normalizeFrontMatterPayload(raw map[string]any) map[string]any {
	if raw == nil {
		return map[string]any{}
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return raw
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return raw
	}
	return payload
}

func collectSchemaIssues(err *jsonschema.ValidationError) []interfaces.LintIssue {
	if err == nil {
		return nil
	}
	issues := []interfaces.LintIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			} else if !strings.HasPrefix(location, "#") {
				location = "#" + location
			}
			issues = append(issues, interfaces.LintIssue{
				Location: "#/frontmatter" + strings.TrimPrefix(location, "#"),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

func mustCompileSchema(schema map[string]any) *jsonschema.Schema {
	encoded, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("lesson lint: marshal schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("lesson-frontmatter.json", bytes.NewReader(encoded)); err != nil {
		panic(fmt.Sprintf("lesson lint: add schema resource: %v", err))
	}
	compiled, err := compiler.Compile("lesson-frontmatter.json")
	if err != nil {
		panic(fmt.Sprintf("lesson lint: compile schema: %v", err))
	}
	return compiled
}
