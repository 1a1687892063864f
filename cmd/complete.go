package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/cryptobook"
	"github.com/etnz/cryptobook/config"
	"github.com/etnz/cryptobook/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// boolFlag is implemented by the values of boolean flags.
type boolFlag interface{ IsBoolFlag() bool }

// predictors complete the values of flags by name.
func predictors(book config.Book) map[string]complete.Predictor {
	types := make([]string, len(cryptobook.TxTypes))
	for i, t := range cryptobook.TxTypes {
		types[i] = string(t)
	}
	assets := predict.Set(book.Currencies())
	return map[string]complete.Predictor{
		"o":       predict.Set(book.Owners),
		"t":       predict.Set(types),
		"a":       assets,
		"from":    assets,
		"to":      assets,
		"in-cur":  assets,
		"out-cur": assets,
		"fiat":    predict.Set(book.Fiat),
		"stable":  predict.Set(book.Stable),
		"store":   predict.Set([]string{"jsonl", "sqlite", "bolt"}),
		"ledger":  predict.Files("*"),
		"config":  predict.Files("*.env"),
	}
}

// flags returns the completion of every flag of fs.
func flags(fs *flag.FlagSet, known map[string]complete.Predictor) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch p, ok := known[f.Name]; {
		case ok:
			m[f.Name] = p
		case isBool(f):
			m[f.Name] = predict.Nothing
		default:
			m[f.Name] = predict.Something
		}
	})
	return m
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(boolFlag)
	return ok && b.IsBoolFlag()
}

// Completion returns the shell completion of the commands registered in c.
// The book is read from the environment when available.
func Completion(c *subcommands.Commander, global *flag.FlagSet) *complete.Command {
	book := config.DefaultBook()
	if cfg, err := config.Load(""); err == nil {
		book = cfg.Book
	}
	known := predictors(book)

	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(global, known),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		sub := &complete.Command{Flags: flags(fs, known)}
		switch cmd.Name() {
		case "import", "export":
			sub.Args = predict.Files("*.csv")
		case "prices":
			sub.Args = predict.Set(book.Currencies())
		case "topic":
			topics, _ := docs.GetAllTopics()
			sub.Args = predict.Set(topics)
		case "help":
			sub.Args = complete.PredictFunc(func(prefix string) []string {
				var names []string
				c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
					if strings.HasPrefix(cmd.Name(), prefix) {
						names = append(names, cmd.Name())
					}
				})
				return names
			})
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}
