package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/ava12/packrat/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	e := cmd.Execute(ctx)
	stop()
	if e != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), e)
		os.Exit(1)
	}
}
