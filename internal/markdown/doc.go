// Package markdown implements the file-centric lesson workflows: parsing
// micro-lesson documents (front-matter plus the fixed section layout),
// rendering bodies to HTML, structural linting, and filesystem discovery.
package markdown
