package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newAgentsCmd() *cobra.Command {
	var (
		serverURL string
		apiKey    string
	)

	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List agents on a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := http.NewRequest(http.MethodGet, serverURL+"/v1/agents", nil)
			if err != nil {
				return err
			}
			if apiKey != "" {
				req.Header.Set("X-API-Key", apiKey)
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("contact server: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned %s", resp.Status)
			}

			var out struct {
				Agents []struct {
					ID        string    `json:"id"`
					CreatedAt time.Time `json:"created_at"`
					Agent     struct {
						Name     string `json:"name"`
						Model    string `json:"model"`
						Provider string `json:"provider"`
						History  []any  `json:"history"`
					} `json:"agent"`
				} `json:"agents"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMODEL\tPROVIDER\tMESSAGES\tCREATED")
			for _, a := range out.Agents {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					a.ID, a.Agent.Name, a.Agent.Model, a.Agent.Provider,
					len(a.Agent.History), a.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Server base URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key if the server requires one")

	return cmd
}
