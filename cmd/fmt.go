package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// printMarkdown prints md rendered for the terminal, or as is if it cannot
// be rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
