package cmd

import (
	"errors"
	"fmt"

	bizerrors "bizdesk/cli/internal/errors"
	"bizdesk/cli/internal/httperrors"
	"bizdesk/cli/internal/logging"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

// withSpinner runs fn while a spinner with text is shown. The spinner only
// appears on interactive terminals so piped output stays clean.
func (a *App) withSpinner(text string, fn func() error) error {
	if !a.prompt.Interactive() {
		return fn()
	}
	cursor.Hide()
	defer cursor.Show()

	spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(text)
	if err != nil {
		return fn()
	}
	ferr := fn()
	_ = spinner.Stop()
	return ferr
}

// reportError prints err for the user. Errors carrying a category get a tailored
// message; network failures add a troubleshooting hint.
func (a *App) reportError(err error) {
	w := a.errOut
	if errors.Is(err, errReported) {
		return
	}

	var e *bizerrors.E
	if !errors.As(err, &e) {
		pterm.Error.WithWriter(w).Println(logging.PresentError("", err))
		return
	}

	switch e.Kind {
	case bizerrors.LoginRequired:
		pterm.Error.WithWriter(w).Println("You need to log in first.")
		pterm.Fprintln(w, "  Run 'bizdesk login' or 'bizdesk register' to get started.")
	case bizerrors.Unauthorized:
		// The session manager already announced the expiry.
		pterm.Fprintln(w, "  Run 'bizdesk login' to sign in again.")
	case bizerrors.Network:
		pterm.Error.WithWriter(w).Println(e.Message)
		if e.Err != nil {
			h := httperrors.Describe(e.Err, "contacting the API", httperrors.HostOf(a.cfg.APIURL))
			for _, line := range h.Lines {
				pterm.Fprintln(w, "  "+line)
			}
			pterm.Debug.WithWriter(w).Println(logging.Mask(e.Err.Error()))
		}
	default:
		pterm.Error.WithWriter(w).Println(logging.Mask(e.Message))
	}
}

// confirmDelete asks before deleting unless assumeYes is set.
func (a *App) confirmDelete(what, id string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !a.prompt.Interactive() {
		return false, bizerrors.New(bizerrors.Validation, fmt.Sprintf("refusing to delete %s %s without --yes", what, id))
	}
	return a.prompt.Confirm(fmt.Sprintf("Are you sure you want to delete %s %s?", what, id))
}
