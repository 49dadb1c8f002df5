// Command envgen converts a Google service-account JSON credential into a
// Cloud-Run-compatible env.yaml. Deployment values come from flags, falling
// back to the process environment, falling back to documented placeholders.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/birthdai/concierge/internal/envfile"
)

const defaultOutput = "env.yaml"

// deployEnv mirrors the four deployment variables an operator may already
// have exported. They are read once, up front, and folded into explicit
// options before the transform runs.
type deployEnv struct {
	SerpAPIKey    string `envconfig:"SERPAPI_API_KEY"`
	AgentEngineID string `envconfig:"VERTEX_AI_AGENT_ENGINE_ID"`
	Project       string `envconfig:"GOOGLE_CLOUD_PROJECT"`
	Location      string `envconfig:"GOOGLE_CLOUD_LOCATION"`
}

func newRootCmd() *cobra.Command {
	var (
		serpAPIKey    string
		agentEngineID string
		project       string
		location      string
		lenient       bool
	)

	cmd := &cobra.Command{
		Use:   "envgen <service-account-json> [output-yaml]",
		Short: "Generate a Cloud Run env.yaml from a service-account credential",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional for local runs
			_ = godotenv.Load(".env")

			var env deployEnv
			if err := envconfig.Process("", &env); err != nil {
				return fmt.Errorf("read environment: %w", err)
			}

			opts := envfile.Options{
				SerpAPIKey:    firstNonEmpty(serpAPIKey, env.SerpAPIKey),
				AgentEngineID: firstNonEmpty(agentEngineID, env.AgentEngineID),
				Project:       firstNonEmpty(project, env.Project),
				Location:      firstNonEmpty(location, env.Location),
				Lenient:       lenient,
			}

			output := defaultOutput
			if len(args) == 2 {
				output = args[1]
			}

			if err := envfile.Generate(args[0], output, opts); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", output)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&serpAPIKey, "serpapi-key", "", "SerpApi API key (default: SERPAPI_API_KEY env)")
	cmd.Flags().StringVar(&agentEngineID, "agent-engine", "", "Agent Engine resource id (default: VERTEX_AI_AGENT_ENGINE_ID env)")
	cmd.Flags().StringVar(&project, "project", "", "GCP project (default: GOOGLE_CLOUD_PROJECT env, then the credential's project_id)")
	cmd.Flags().StringVar(&location, "location", "", "GCP region (default: GOOGLE_CLOUD_LOCATION env)")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "tolerate missing credential fields, emitting empty values")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
