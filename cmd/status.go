// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bizdesk/cli/internal/logging"
	"bizdesk/cli/internal/output"

	"github.com/spf13/cobra"
)

// statusView is what 'bizdesk status' prints.
type statusView struct {
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	Status        string `json:"status" yaml:"status"`
	Token         string `json:"token,omitempty" yaml:"token,omitempty"`
	APIURL        string `json:"api_url" yaml:"api_url"`
	Keyring       string `json:"keyring_backend" yaml:"keyring_backend"`
}

func (s statusView) Table() output.Table {
	rows := [][]string{
		{"Status", s.Status},
		{"API", s.APIURL},
		{"Keyring", s.Keyring},
	}
	if s.Token != "" {
		rows = append(rows, []string{"Token", s.Token})
	}
	return output.Table{Headers: []string{"FIELD", "VALUE"}, Rows: rows}
}

// newStatusCmd reports the local session without contacting the API.
func newStatusCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"whoami"},
		Short:   "Show whether you are logged in",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.sessions.EnsureFresh(cmd.Context())
			view := statusView{
				Authenticated: st.Authenticated(),
				Status:        st.Status.String(),
				APIURL:        a.cfg.APIURL,
				Keyring:       a.cfg.KeyringBackend,
			}
			if st.Authenticated() {
				view.Token = logging.Fingerprint(st.Token)
			}
			return a.render(view)
		},
	}
}
