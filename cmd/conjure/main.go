package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error

	switch os.Args[1] {
	case "generate":
		err = runGenerate(ctx, os.Args[2:])
	case "image":
		err = runImage(ctx, os.Args[2:])
	case "init":
		err = runInit(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "conjure: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: conjure <command> [flags]

Commands:
  generate  Render a prompt template and generate text
  image     Render a prompt template and generate an image
  init      Create a conjure.yaml interactively

Run 'conjure <command> -h' for command flags.
`)
}
