package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"quoted/internal/driver"
	"quoted/internal/ui"
)

type batchOutcome struct {
	result *driver.BatchResult
	err    error
}

// runBatchWithUI runs parse in the background while a Bubble Tea program
// renders its progress events. Quitting the UI cancels the batch.
func runBatchWithUI(ctx context.Context, title string, opts driver.BatchOptions, parse batchFunc) (*driver.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = driver.ProgressFunc(func(ev driver.Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		})
		res, err := parse(ctx, runOpts)
		close(events)
		outcomeCh <- batchOutcome{result: res, err: err}
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// The UI may quit first (Ctrl-C): cancel the parse and wait for it.
	cancel()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
