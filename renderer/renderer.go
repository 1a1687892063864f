// Package renderer renders cryptobook reports as markdown.
//
// Every report is a text/template assembly of partial templates embedded in
// the binary. The output is plain markdown, meant to be printed to a terminal
// through glamour or served as is.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/cryptobook"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"amount": cryptobook.FormatAmount,
	"leg":    cryptobook.FormatLeg,
	"pct":    func(d decimal.Decimal) string { return d.StringFixed(2) + "%" },
	"cell":   cell,
}

// cell makes s safe to print in a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// renderTemplate renders the main template mainFile with its partials. Each
// partial is registered under its file name without the extension.
func renderTemplate(mainFile string, partials []string, data any) string {
	name := strings.TrimSuffix(mainFile, ".md")
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}
	tmpl, err := template.New(name).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}
	for _, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(strings.TrimSuffix(file, ".md")).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q: %v", file, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}
