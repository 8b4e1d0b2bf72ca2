package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"movec/internal/driver"
	"movec/internal/pipeline"
	"movec/internal/source"
	"movec/internal/ui"
)

type checkOutcome struct {
	fileSet *source.FileSet
	results []*driver.UnitResult
	err     error
}

// runCheckDirWithUI runs a directory check while rendering a Bubble Tea
// progress view fed by pipeline events.
func runCheckDirWithUI(ctx context.Context, title, dir string, opts driver.Options) (*source.FileSet, []*driver.UnitResult, error) {
	files, err := listDisplayFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		fs, results, err := driver.CheckDir(ctx, dir, optsCopy)
		outcomeCh <- checkOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}

// listDisplayFiles mirrors the driver's unit discovery so the progress view
// can show every file up front.
func listDisplayFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".mvu" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
