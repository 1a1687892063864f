package docs_test

import (
	"bufio"
	"flag"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/cryptobook/cmd"
	"github.com/etnz/cryptobook/docs"
	"github.com/google/subcommands"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every topic is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := docs.GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := docs.GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	if !slices.Equal(all, slices.Sorted(slices.Values(listed))) {
		t.Errorf("GetAllTopics() = %v, want the topics of readme.md %v", all, listed)
	}

	content, err := docs.GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) error = %v", err)
	}
	for _, topic := range all {
		c, _ := docs.GetTopic(topic)
		if !strings.Contains(content, c) {
			t.Errorf("GetTopics(*) does not contain topic %q", topic)
		}
	}
	if _, err := docs.GetTopics("readme", "missing"); err == nil {
		t.Errorf("GetTopics(missing) succeeded")
	}
}

// TestCommandLines checks that every cbk command line of the bash blocks
// names an existing command with its existing flags.
func TestCommandLines(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("cbk", flag.ContinueOnError), "cbk")
	cmd.Register(commander)
	commands := make(map[string]subcommands.Command)
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		commands[c.Name()] = c
	})

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		for _, line := range commandLines(t, file) {
			global := flag.NewFlagSet("cbk", flag.ContinueOnError)
			global.SetOutput(io.Discard)
			global.String("config", "", "")
			global.String("store", "", "")
			global.String("ledger", "", "")
			global.Bool("v", false, "")
			if err := global.Parse(split(line)[1:]); err != nil {
				t.Errorf("%s: %q: %v", file, line, err)
				continue
			}
			c, ok := commands[global.Arg(0)]
			if !ok {
				t.Errorf("%s: %q: unknown command %q", file, line, global.Arg(0))
				continue
			}
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			c.SetFlags(fs)
			if err := fs.Parse(global.Args()[1:]); err != nil {
				t.Errorf("%s: %q: %v", file, line, err)
			}
		}
	}
}

// commandLines returns the lines starting with cbk in the bash blocks of file.
func commandLines(t *testing.T, file string) []string {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var lines []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || string(fcb.Language(content)) != "bash" {
			return ast.WalkContinue, nil
		}
		for i := 0; i < fcb.Lines().Len(); i++ {
			seg := fcb.Lines().At(i)
			line := strings.TrimSpace(string(seg.Value(content)))
			if strings.HasPrefix(line, "cbk ") {
				lines = append(lines, line)
			}
		}
		return ast.WalkContinue, nil
	})
	return lines
}

// split cuts a shell line in words, honoring single and double quotes.
func split(line string) []string {
	var words []string
	var word strings.Builder
	var quote rune
	inWord := false
	for _, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			word.WriteRune(r)
		case r == '"' || r == '\'':
			quote, inWord = r, true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		words = append(words, word.String())
	}
	return words
}
