package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/votekit-sim/auth"
	"github.com/danielhkuo/votekit-sim/handlers"
	"github.com/danielhkuo/votekit-sim/models"
	"github.com/danielhkuo/votekit-sim/prefmodel"
	"github.com/danielhkuo/votekit-sim/schema"
	"github.com/danielhkuo/votekit-sim/simulation"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run SCENARIO",
		Short: "Run a scenario file and print the response envelope",
		Long: `Run a scenario (JSON, or YAML with a .yaml/.yml extension; "-" reads
JSON from stdin) and print the same envelope POST /invoke would produce.

Exits non-zero when the scenario is rejected or a trial fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetUint64("seed")
			workers, _ := cmd.Flags().GetInt("workers")
			summary, _ := cmd.Flags().GetBool("summary")

			payload, err := readScenario(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			sim := handlers.NewSimulator(simulation.NewRunner(seed, workers))
			env, err := sim.Handle(cmd.Context(), payload)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(env); err != nil {
				return err
			}
			if env.StatusCode != http.StatusOK {
				return fmt.Errorf("scenario rejected with status %d", env.StatusCode)
			}

			if summary {
				var body models.SuccessBody
				if err := json.Unmarshal([]byte(env.Body), &body); err != nil {
					return fmt.Errorf("failed to decode results: %w", err)
				}
				printSummary(out, simulation.Summarize(body.Results))
			}
			return nil
		},
	}

	cmd.Flags().Uint64("seed", 0, "Random seed (0 = random)")
	cmd.Flags().Int("workers", 1, "Parallel trial workers")
	cmd.Flags().Bool("summary", false, "Print per-slate seat statistics after the envelope")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate SCENARIO",
		Short: "Check a scenario file without simulating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readScenario(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			req, err := schema.Validate(payload)
			if err != nil {
				return err
			}
			sc, err := simulation.Normalize(req, simulation.NewRunner(1, 1).Source(simulation.StreamConfig))
			if err == nil {
				err = sc.Config.Validate()
			}
			var badConfig *prefmodel.ConfigError
			if errors.As(err, &badConfig) {
				for _, p := range badConfig.Problems {
					fmt.Fprintln(cmd.ErrOrStderr(), "  -", p)
				}
			}
			if err != nil {
				return err
			}

			candidates := 0
			for _, c := range sc.Config.SlateToCandidates {
				candidates += len(c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%s voters, %d blocs, %d candidates, %s trials of %v with %v)\n",
				req.ID,
				humanize.Comma(int64(sc.Config.VoterCount)),
				len(sc.Config.Blocs()),
				candidates,
				humanize.Comma(int64(sc.Trials)),
				sc.Election.System,
				sc.Strategy,
			)
			return nil
		},
	}
}

func newKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen [CLIENT_ID]",
		Short: "Print the invoker key for a client id",
		Long: `Print the X-Invoker-Key value a client must send to POST /invoke.

The salt comes from --salt or INVOKER_KEY_SALT. Without CLIENT_ID a random
client id is generated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			salt, _ := cmd.Flags().GetString("salt")
			if salt == "" {
				salt = os.Getenv("INVOKER_KEY_SALT")
			}
			if salt == "" {
				return errors.New("salt required (use --salt or INVOKER_KEY_SALT env)")
			}

			var clientID string
			if len(args) == 1 {
				clientID = args[0]
			} else {
				id, err := auth.GenerateID(8)
				if err != nil {
					return err
				}
				clientID = id
			}

			fmt.Fprintf(cmd.OutOrStdout(), "X-Client-ID: %s\nX-Invoker-Key: %s\n",
				clientID, auth.GenerateInvokerKey(clientID, salt))
			return nil
		},
	}
	cmd.Flags().String("salt", "", "Invoker key salt (prefer env)")
	return cmd
}

// readScenario loads a scenario as JSON bytes. YAML files are converted so
// they pass through the same schema as HTTP events; a YAML scenario without
// an id or createdAt gets a fresh uuid and the current time.
func readScenario(stdin io.Reader, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML scenario: %w", err)
		}
		if doc == nil {
			doc = make(map[string]any)
		}
		if _, ok := doc["id"]; !ok {
			doc["id"] = uuid.NewString()
		}
		if _, ok := doc["createdAt"]; !ok {
			doc["createdAt"] = strconv.FormatInt(time.Now().UnixMilli(), 10)
		}
		data, err = json.Marshal(stringKeys(doc))
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML scenario: %w", err)
		}
	}
	slog.Debug("scenario loaded", "path", path, "size", humanize.Bytes(uint64(len(data))))
	return data, nil
}

// stringKeys rewrites YAML maps with non-string keys, such as a slate
// named 1, into string-keyed maps that encoding/json accepts.
func stringKeys(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, val := range v {
			v[k] = stringKeys(val)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		for i, val := range v {
			v[i] = stringKeys(val)
		}
		return v
	}
	return v
}

func printSummary(w io.Writer, summary map[string]models.SlateSummary) {
	slates := make([]string, 0, len(summary))
	for s := range summary {
		slates = append(slates, s)
	}
	sort.Strings(slates)

	fmt.Fprintf(w, "\n%-16s %8s %8s %8s %8s %5s %5s\n", "slate", "mean", "median", "p10", "p90", "min", "max")
	for _, s := range slates {
		st := summary[s]
		fmt.Fprintf(w, "%-16s %8.2f %8.1f %8.1f %8.1f %5d %5d\n", s, st.Mean, st.Median, st.P10, st.P90, st.Min, st.Max)
	}
}
