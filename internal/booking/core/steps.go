package core

import (
	"context"
	"fmt"
)

// Step is one named unit of an entry action. Steps run in order and the
// first failure stops the sequence.
type Step struct {
	Name    string
	Execute func(ctx context.Context) error
}

func NewStep(name string, execute func(ctx context.Context) error) Step {
	return Step{Name: name, Execute: execute}
}

func runSteps(ctx context.Context, steps ...Step) error {
	for _, step := range steps {
		if err := step.Execute(ctx); err != nil {
			return fmt.Errorf("%s step failed: %w", step.Name, err)
		}
	}
	return nil
}
