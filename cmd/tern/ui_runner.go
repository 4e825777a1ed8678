package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tern/internal/driver"
	"tern/internal/project"
	"tern/internal/ui"
)

type checkOutcome struct {
	result *driver.ProjectResult
	err    error
}

// runCheckWithUI runs the project check behind a Bubble Tea progress view.
// Unit events flow through a channel observer into the model; the check
// itself runs in a goroutine and closes the channel when done.
func runCheckWithUI(ctx context.Context, m *project.Manifest, opts driver.Options) (*driver.ProjectResult, error) {
	events := make(chan driver.UnitEvent, 256)
	outcomeCh := make(chan checkOutcome, 1)

	opts.Observer = func(ev driver.UnitEvent) {
		events <- ev
	}
	go func() {
		res, err := driver.CheckProject(ctx, m, opts)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	units := make([]string, 0, len(m.Config.Units))
	for _, u := range m.Config.Units {
		units = append(units, u.Name)
	}
	model := ui.NewProgressModel("checking "+m.Config.Package.Name, units, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
