package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WajidKarimm/legalease-ai/internal/chat"
	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/emoji"
	"github.com/WajidKarimm/legalease-ai/internal/state"
	"github.com/WajidKarimm/legalease-ai/internal/ui"
)

func newChatCommand() *cobra.Command {
	var clauseID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant about the current contract",
		Long: `Open an interactive chat about the current contract. The previous
conversation is resumed. Type /clear to start over, exit to quit.`,
		Example: `  legalease chat
  legalease chat --clause nc-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			if err := setClauseContext(ctx, a, clauseID); err != nil {
				return err
			}
			return runChatTUI(ctx, a)
		},
	}

	cmd.Flags().StringVar(&clauseID, "clause", "", "clause id to open the conversation with")

	return cmd
}

func runChatTUI(ctx context.Context, a *app) error {
	session := a.chatSession()
	if err := session.Start(ctx); err != nil {
		return err
	}
	model := ui.NewChatModel(ctx, session, ui.ChatOptions{
		Theme:    a.theme,
		Color:    a.color,
		Markdown: a.markdown(),
	})
	return ui.RunChat(model)
}

func newAskCommand() *cobra.Command {
	var clauseID string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question about the current contract",
		Example: `  legalease ask "How long does the non-compete last?"
  legalease ask --clause nc-1 "Is this enforceable?" -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			if err := setClauseContext(ctx, a, clauseID); err != nil {
				return err
			}

			session := a.chatSession()
			if err := session.Start(ctx); err != nil {
				return err
			}

			reply, err := session.Send(ctx, strings.Join(args, " "))
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", emoji.GetEmoji("error"), chat.MsgSendFailed)
				return err
			}

			if strings.EqualFold(a.format(), "json") {
				return writeJSON(a.out, struct {
					*contract.ChatMessage
					ConversationID string `json:"conversation_id,omitempty"`
				}{reply, session.ConversationID()})
			}

			text, err := a.markdown().Render(reply.Content)
			if err != nil {
				text = reply.Content
			}
			fmt.Fprintln(a.out, text)
			for _, src := range reply.Sources {
				fmt.Fprintf(a.out, "\n%s %s", emoji.GetEmoji("source"), src.Title)
				if src.Excerpt != "" {
					fmt.Fprintf(a.out, ": %s", contract.Truncate(src.Excerpt, 200))
				}
			}
			if len(reply.Sources) > 0 {
				fmt.Fprintln(a.out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&clauseID, "clause", "", "clause id the question is about")

	return cmd
}

// setClauseContext leaves a chat context for clauseID when given
func setClauseContext(ctx context.Context, a *app, clauseID string) error {
	if clauseID == "" {
		return nil
	}
	analysis := a.state.Analysis()
	if analysis == nil {
		return state.ErrNoContract
	}
	clause, ok := contract.FindClause(analysis.Clauses, clauseID)
	if !ok {
		return fmt.Errorf("clause %s not found in the current contract", clauseID)
	}
	if err := a.state.SelectClause(ctx, clause.ID); err != nil {
		return err
	}
	return a.state.SetChatContext(ctx, clause)
}
