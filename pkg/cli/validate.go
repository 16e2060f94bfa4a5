package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockconf/pkg/cli/internal/output"
	"github.com/getmockd/mockconf/pkg/config"
	"github.com/getmockd/mockconf/pkg/mock"
)

// ValidateOutput is the JSON summary printed by validate --json.
type ValidateOutput struct {
	Path    string          `json:"path"`
	Valid   bool            `json:"valid"`
	Rest    *APISummary     `json:"rest,omitempty"`
	GraphQL *APISummary     `json:"graphql,omitempty"`
	Server  ServerSummary   `json:"server"`
	Configs []ConfigSummary `json:"configs"`
}

// APISummary counts the request configs and routes of one API.
type APISummary struct {
	BaseURL string `json:"baseUrl,omitempty"`
	Configs int    `json:"configs"`
	Routes  int    `json:"routes"`
}

// ServerSummary is the effective listen address.
type ServerSummary struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// ConfigSummary describes one request config.
type ConfigSummary struct {
	Kind     string `json:"kind"`
	Identity string `json:"identity"`
	Routes   int    `json:"routes"`
}

var (
	validateConfigPath string
	validateJSON       bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file without starting the server.

The file is checked against the configuration schema, value ranges and
cross-field rules. Every problem is reported with its path.

Examples:
  mockconf validate
  mockconf validate api.yaml
  mockconf validate --json api.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := validateConfigPath
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}
			path, err = config.Discover(cwd)
			if err != nil {
				return err
			}
		}

		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return err
		}

		summary := summarize(cfg)
		w := cmd.OutOrStdout()
		if validateJSON {
			return output.JSON(w, summary)
		}

		fmt.Fprintf(w, "%s is valid\n", summary.Path)
		tw := output.Table(w)
		fmt.Fprintln(tw, "KIND\tREQUEST\tROUTES")
		for _, c := range summary.Configs {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Kind, c.Identity, c.Routes)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if len(summary.Configs) == 0 {
			output.Warn(w, "no request configs defined")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "", "Path to configuration file")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output the summary as JSON")
	rootCmd.AddCommand(validateCmd)
}

func summarize(cfg *config.Config) ValidateOutput {
	out := ValidateOutput{
		Path:    cfg.Path,
		Valid:   true,
		Server:  ServerSummary{Host: cfg.Server.Host, Port: cfg.Server.Port},
		Configs: []ConfigSummary{},
	}
	out.Rest = summarizeAPI(cfg.Mock.Rest, &out.Configs)
	out.GraphQL = summarizeAPI(cfg.Mock.GraphQL, &out.Configs)
	return out
}

func summarizeAPI(api *mock.API, configs *[]ConfigSummary) *APISummary {
	if api == nil {
		return nil
	}
	s := &APISummary{BaseURL: api.BaseURL, Configs: len(api.Configs)}
	for _, rc := range api.Configs {
		s.Routes += len(rc.Routes)
		*configs = append(*configs, ConfigSummary{
			Kind:     string(rc.Kind),
			Identity: rc.Identity(),
			Routes:   len(rc.Routes),
		})
	}
	return s
}
