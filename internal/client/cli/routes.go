package cli

import (
	"context"
	"fmt"
	"sort"
)

// Routes prints the guard decision for every known route under the current
// session status.
func (a *App) Routes(ctx context.Context) error {
	status := a.session.Snapshot().Status

	names := a.guard.Routes()
	sort.Strings(names)

	for _, name := range names {
		decision, err := a.guard.Evaluate(status, name)
		if err != nil {
			return err
		}
		switch {
		case decision.ShowLoading:
			fmt.Fprintf(a.out, "%-12s loading\n", name)
		case decision.Allow:
			fmt.Fprintf(a.out, "%-12s allow\n", name)
		default:
			fmt.Fprintf(a.out, "%-12s redirect -> %s\n", name, decision.RedirectTo)
		}
	}
	return nil
}

// Goto simulates a navigation attempt against the guard.
func (a *App) Goto(ctx context.Context, route string) error {
	decision, err := a.guard.Evaluate(a.session.Snapshot().Status, route)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return nil
	}

	switch {
	case decision.ShowLoading:
		fmt.Fprintf(a.out, "Session still initializing; showing loading screen at %s\n", route)
	case decision.Allow:
		fmt.Fprintf(a.out, "Navigated to %s\n", route)
	default:
		fmt.Fprintf(a.out, "Redirected to %s\n", decision.RedirectTo)
	}
	return nil
}
