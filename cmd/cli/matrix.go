// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
	"github.com/spf13/cobra"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingRight(2)
	cellStyle    = lipgloss.NewStyle().PaddingRight(2)
)

func newMatrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Show or edit the folder permission matrix of a group",
	}
	cmd.AddCommand(newMatrixShowCmd(), newMatrixSetCmd())
	return cmd
}

func newMatrixShowCmd() *cobra.Command {
	var groupId uint64
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the permission matrix of a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := newAPIClient().filesPermissions(cmd.Context(), groupId)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, fp.Help)
			fmt.Fprintln(out)
			renderMatrix(out, fp.Matrix)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&groupId, "group", 0, "group id")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}

func newMatrixSetCmd() *cobra.Command {
	var (
		groupId uint64
		folder  string
		role    string
		perms   []string
	)
	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Change permissions of one role on one folder",
		Example: "groupfiles-cli matrix set --group 42 --folder docs --role project-member --perm upload_files=true",
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parsePerms(perms)
			if err != nil {
				return err
			}

			client := newAPIClient()
			fp, err := client.filesPermissions(cmd.Context(), groupId)
			if err != nil {
				return err
			}
			for _, v := range values {
				if err := fp.Submission.Set(folder, role, v.key, v.granted); err != nil {
					return err
				}
			}
			if err := client.saveFilesPermissions(cmd.Context(), groupId, fp.Submission); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d permission(s) of %s on %s\n", len(values), role, folder)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&groupId, "group", 0, "group id")
	cmd.Flags().StringVar(&folder, "folder", "", "folder path")
	cmd.Flags().StringVar(&role, "role", "", "role id")
	cmd.Flags().StringArrayVar(&perms, "perm", nil, "permission to change, key=true|false (repeatable)")
	for _, f := range []string{"group", "folder", "role", "perm"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

type permValue struct {
	key     string
	granted bool
}

func parsePerms(perms []string) ([]permValue, error) {
	out := make([]permValue, 0, len(perms))
	for _, p := range perms {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --perm %q, want key=true|false", p)
		}
		granted, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid --perm %q: %w", p, err)
		}
		out = append(out, permValue{key: key, granted: granted})
	}
	return out, nil
}

// renderMatrix prints one table per folder: a row per role, a column per
// permission.
func renderMatrix(w io.Writer, m *matrix.Matrix) {
	if len(m.Sections) == 0 {
		fmt.Fprintln(w, "no folders")
		return
	}

	headers := make([]string, 0, len(m.Columns)+1)
	headers = append(headers, "Role")
	for _, c := range m.Columns {
		headers = append(headers, c.Label)
	}

	for _, sec := range m.Sections {
		fmt.Fprintln(w, sectionStyle.Render(sec.Title))

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderColumn(false).
			Headers(headers...)
		for _, row := range sec.Rows {
			cells := make([]string, 0, len(m.Columns)+1)
			cells = append(cells, row.RoleName)
			for _, c := range m.Columns {
				cells = append(cells, mark(row.Permissions.Granted(c.Key)))
			}
			t.Row(cells...)
		}
		t.StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

		fmt.Fprintln(w, t)
		fmt.Fprintln(w)
	}
}

func mark(granted bool) string {
	if granted {
		return "x"
	}
	return "-"
}
