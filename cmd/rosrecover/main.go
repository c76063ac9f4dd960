package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/rosrecover/internal/app"
	"github.com/vk/rosrecover/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, exit, err := cli.Parse(args, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitErr, ok := err.(*cli.ExitError); ok {
			return exitErr.Code
		}
		return 1
	}
	if exit {
		return 0
	}

	a, err := app.New(os.Stdout, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := a.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
