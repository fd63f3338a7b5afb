// Command rnctag adds morphological analyses to RNC corpus documents using
// an external Lithuanian tagging service.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

const version = "0.4.0"

// CLI defines the command-line interface for rnctag.
type CLI struct {
	Globals

	Tag     TagCmd     `cmd:"" help:"Tag the sentences of an RNC document"`
	Simple  SimpleCmd  `cmd:"" help:"Build and tag an RNC document from plain text lines"`
	Grep    GrepCmd    `cmd:"" help:"List words the crosswalk could not describe"`
	Explain ExplainCmd `cmd:"" help:"Show how grammar codes map to RNC features"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args and executes the selected command, returning the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	var cli CLI
	exited := false
	parser, err := kong.New(&cli,
		kong.Name("rnctag"),
		kong.Description("Morphological tagging for RNC corpus documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { exited, code = true, c; panic(exitPanic{}) }),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		fmt.Fprintf(stderr, "rnctag: %v\n", err)
		return 2
	}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(exitPanic); !ok || !exited {
				panic(r)
			}
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "rnctag: %v\n", err)
		return 2
	}
	if err := kctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(stderr, "rnctag: %v\n", err)
		return 1
	}
	return 0
}

// exitPanic unwinds out of kong after --help or a usage error.
type exitPanic struct{}
