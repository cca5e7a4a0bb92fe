package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WajidKarimm/legalease-ai/internal/emoji"
)

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the analysis service is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			status, err := a.api.Health(ctx)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s is unreachable\n", emoji.GetEmoji("error"), a.api.BaseURL())
				return err
			}

			if strings.EqualFold(a.format(), "json") {
				return writeJSON(a.out, status)
			}

			fmt.Fprintf(a.out, "%s %s is healthy\n", emoji.GetEmoji("success"), a.api.BaseURL())
			keys := make([]string, 0, len(status))
			for k := range status {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(a.out, "   %s: %v\n", k, status[k])
			}
			return nil
		},
	}
}

func newPredictCommand() *cobra.Command {
	var (
		data     string
		dataFile string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Send a payload to the inference service",
		Long: `Post {"data": <payload>} to the inference service's /predict endpoint and
print the JSON answer. The payload is read from --data, from --file, or
from standard input when --file is "-".`,
		Example: `  legalease predict --data '["The employee shall not compete..."]'
  legalease predict --file payload.json
  echo '{"text": "..."}' | legalease predict --file -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd.InOrStdin(), data, dataFile)
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			client, err := a.inference()
			if err != nil {
				return err
			}
			result, err := client.Predict(ctx, payload)
			if err != nil {
				return err
			}
			return writeJSON(a.out, result)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON payload")
	cmd.Flags().StringVarP(&dataFile, "file", "f", "", `file holding the JSON payload ("-" for stdin)`)

	return cmd
}

// readPayload returns the JSON given on the command line, in a file or on stdin
func readPayload(stdin io.Reader, data, path string) (json.RawMessage, error) {
	var raw []byte
	switch {
	case data != "" && path != "":
		return nil, fmt.Errorf("use either --data or --file, not both")
	case data != "":
		raw = []byte(data)
	case path == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		raw = b
	case path != "":
		// #nosec G304 - path was chosen by the user
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("a payload is required (--data or --file)")
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	return json.RawMessage(raw), nil
}
