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
	"os"

	"github.com/go-arcade/groupfiles/pkg/version"
	"github.com/spf13/cobra"
)

var (
	server      string
	token       string
	contextPath string
)

var rootCmd = &cobra.Command{
	Use:          "groupfiles-cli",
	Short:        "groupfiles-cli manages the folder permissions of groups",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&server, "server", envOr("GROUPFILES_SERVER", "http://127.0.0.1:8080"), "groupfiles server address")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("GROUPFILES_TOKEN"), "bearer token")
	rootCmd.PersistentFlags().StringVar(&contextPath, "context-path", "", "context path of the API routes")

	rootCmd.AddCommand(version.VersionCmd)
	rootCmd.AddCommand(newDefinitionsCmd())
	rootCmd.AddCommand(newMatrixCmd())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
