package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/WajidKarimm/legalease-ai/internal/emoji"
	"github.com/WajidKarimm/legalease-ai/internal/state"
)

func newLoginCommand() *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "login [token]",
		Short: "Store the auth token sent with every request",
		Long: `Store a bearer token for the analysis service. Without an argument the
token is read from a masked prompt, or from standard input with
--token-stdin.`,
		Example: `  legalease login
  echo "$TOKEN" | legalease login --token-stdin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := readToken(cmd.InOrStdin(), args, fromStdin)
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.state.Login(cmd.Context(), token); err != nil {
				return err
			}

			status := state.InspectToken(strings.TrimSpace(token), time.Now())
			if status.Expired {
				fmt.Fprintf(a.out, "%s Token stored, but it expired on %s\n",
					emoji.GetEmoji("warning"), status.ExpiresAt.Format(time.RFC3339))
				return nil
			}
			fmt.Fprintf(a.out, "%s Logged in%s\n", emoji.GetEmoji("success"), describeToken(status))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "token-stdin", false, "read the token from standard input")

	return cmd
}

func readToken(stdin io.Reader, args []string, fromStdin bool) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case fromStdin:
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(line), nil
	default:
		prompt := promptui.Prompt{
			Label: "Auth token",
			Mask:  '*',
		}
		token, err := prompt.Run()
		if err != nil {
			return "", fmt.Errorf("token prompt: %w", err)
		}
		return token, nil
	}
}

func describeToken(status state.AuthStatus) string {
	var parts []string
	if status.Subject != "" {
		parts = append(parts, "as "+status.Subject)
	}
	if !status.ExpiresAt.IsZero() {
		parts = append(parts, "until "+status.ExpiresAt.Format(time.RFC3339))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the auth token and forget the current contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.state.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s Logged out\n", emoji.GetEmoji("door"))
			return nil
		},
	}
}

// statusOutput is the JSON form of the status command
type statusOutput struct {
	Service   string     `json:"service"`
	LoggedIn  bool       `json:"logged_in"`
	Subject   string     `json:"subject,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
	Opaque    bool       `json:"opaque_token"`
	Contract  string     `json:"current_contract,omitempty"`
	Title     string     `json:"title,omitempty"`
	Stored    int        `json:"stored_contracts"`
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show login state and the current contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			auth, err := a.state.Auth(ctx, time.Now())
			if err != nil {
				return err
			}
			stored, err := a.state.StoredContracts(ctx)
			if err != nil {
				return err
			}

			out := statusOutput{
				Service:  a.api.BaseURL(),
				LoggedIn: auth.LoggedIn,
				Subject:  auth.Subject,
				Expired:  auth.Expired,
				Opaque:   auth.Opaque,
				Contract: a.state.CurrentContractID(),
				Stored:   len(stored),
			}
			if !auth.ExpiresAt.IsZero() {
				exp := auth.ExpiresAt
				out.ExpiresAt = &exp
			}
			if analysis := a.state.Analysis(); analysis != nil {
				out.Title = analysis.DisplayTitle()
			}

			if strings.EqualFold(a.format(), "json") {
				return writeJSON(a.out, out)
			}

			fmt.Fprintf(a.out, "Service:  %s\n", out.Service)
			switch {
			case out.Expired:
				fmt.Fprintf(a.out, "Auth:     %s token expired on %s\n",
					emoji.GetEmoji("warning"), auth.ExpiresAt.Format(time.RFC3339))
			case out.LoggedIn:
				fmt.Fprintf(a.out, "Auth:     %s logged in%s\n", emoji.GetEmoji("lock"), describeToken(auth))
			default:
				fmt.Fprintln(a.out, "Auth:     not logged in")
			}
			if out.Contract == "" {
				fmt.Fprintf(a.out, "Contract: %s\n", state.MsgNoContract)
			} else {
				fmt.Fprintf(a.out, "Contract: %s (%s)\n", out.Contract, out.Title)
			}
			fmt.Fprintf(a.out, "Stored:   %d analyses\n", out.Stored)
			return nil
		},
	}
}
