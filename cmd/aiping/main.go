// Command aiping sends one prompt to the configured AI collaborator and prints
// the reply. It reads the same environment (and .env) as the server.
//
// Usage:
//
//	aiping [-max-tokens N] [-temperature F] "Give me a fun fact about Jupiter for kids."
//
// Exit codes: 0 success, 1 not configured, 2 API error, 3 anything else.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/robalobadob/hangman/internal/ai"
	"github.com/robalobadob/hangman/internal/config"
)

const system = "You are a cheerful K-8 learning coach. Keep answers short, positive, and age-appropriate."

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("aiping", flag.ContinueOnError)
	fs.SetOutput(stderr)
	maxTokens := fs.Int64("max-tokens", 200, "maximum tokens in the reply")
	temperature := fs.Float64("temperature", 0.3, "sampling temperature")
	if err := fs.Parse(args); err != nil {
		return 3
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: aiping [-max-tokens N] [-temperature F] \"prompt\"")
		return 3
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 3
	}
	client, err := ai.New(cfg.AI)
	if err != nil {
		fmt.Fprintf(stderr, "%v (set CLAUDE_API_KEY)\n", err)
		return 1
	}

	reply, err := client.GenerateText(context.Background(), ai.Request{
		Prompt:      fs.Arg(0),
		System:      system,
		MaxTokens:   *maxTokens,
		Temperature: *temperature,
	})
	var reqErr *ai.RequestError
	switch {
	case err == nil:
	case errors.As(err, &reqErr), errors.Is(err, ai.ErrEmptyReply):
		fmt.Fprintf(stderr, "AI error: %v\n", err)
		return 2
	default:
		fmt.Fprintf(stderr, "unexpected error: %v\n", err)
		return 3
	}

	fmt.Fprintln(stdout, "AI responded successfully:")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, reply)
	return 0
}
