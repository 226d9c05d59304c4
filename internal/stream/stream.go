// Package stream folds a model's chunk sequence into the growing response
// and republishes it to a display after every chunk.
package stream

import (
	"context"
	"fmt"
	"strings"

	"local-assistants/internal/llm"
	"local-assistants/internal/prompt"
)

// ErrorPrefix starts every user-visible failure text.
const ErrorPrefix = "Error: "

// Sink receives the full accumulated text after each chunk.
type Sink interface {
	Publish(text string) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(text string) error

func (f SinkFunc) Publish(text string) error {
	return f(text)
}

// Discard drops every update.
var Discard Sink = SinkFunc(func(string) error { return nil })

// Result is the outcome of one request. When Failed is set, Text holds the
// "Error: ..." message instead of any partial response.
type Result struct {
	Text   string
	Failed bool
	Cached bool
}

// Aggregate consumes s in order, publishing the accumulated text after every
// chunk, and returns the final text. It stops at the first stream or sink
// error.
func Aggregate(s llm.Stream, sink Sink) (string, error) {
	var acc strings.Builder
	for s.Next() {
		acc.WriteString(s.Current())
		if err := sink.Publish(acc.String()); err != nil {
			return acc.String(), fmt.Errorf("publish: %w", err)
		}
	}
	if err := s.Err(); err != nil {
		return acc.String(), err
	}
	return acc.String(), nil
}

// Run opens one stream for pair and aggregates it into sink. Every failure
// is folded into an "Error: ..." result; no retry is attempted.
func Run(ctx context.Context, client llm.Client, pair prompt.Pair, sink Sink) Result {
	s, err := client.Stream(ctx, pair)
	if err != nil {
		return Failure(err)
	}
	defer s.Close()

	text, err := Aggregate(s, sink)
	if err != nil {
		return Failure(err)
	}
	return Result{Text: text}
}

// Failure converts err into its user-visible result.
func Failure(err error) Result {
	return Result{Text: ErrorPrefix + err.Error(), Failed: true}
}
