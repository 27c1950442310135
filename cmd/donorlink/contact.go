package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"donorlink/internal/browse"
	"donorlink/internal/contact/eligibility"
	"donorlink/internal/donation/models"
)

func newContactCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "contact <category> <donation-id>",
		Short: "Reveal a donor's contact address",
		Long: `Contact reveals the donor's email for one donation. Restricted medicines
ask an eligibility question first; answering no, or pressing Ctrl-C, keeps the
address hidden.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			category, err := models.ParseCategory(args[0])
			if err != nil {
				return err
			}
			st, err := openStores(ctx, settings(a.v), a.logger)
			if err != nil {
				return err
			}
			defer st.Close()

			screen := eligibility.NewAsync(terminalAsker(cmd.InOrStdin(), cmd.OutOrStdout()))
			session, report := a.loadSession(ctx, st, screen)
			if !report.OK() {
				a.logger.WarnContext(ctx, "some collections failed to load", "failed", report.Failed)
			}
			rec, err := session.Find(category, args[1])
			if err != nil {
				return err
			}
			return runContact(ctx, cmd.OutOrStdout(), session, screen.Verdicts(), rec)
		},
	}
}

// runContact drives one contact request to a terminal state. Cancelling ctx
// while a screening is pending dismisses it without a notice.
func runContact(ctx context.Context, w io.Writer, session *browse.Session, verdicts <-chan eligibility.Verdict, rec models.DonationRecord) error {
	out, err := session.RequestContact(ctx, rec)
	if err != nil {
		return err
	}
	if out.Screening() {
		select {
		case v := <-verdicts:
			if v.Err != nil {
				session.CancelEligibility()
				return fmt.Errorf("eligibility screening: %w", v.Err)
			}
			if out, err = session.OnEligibilityVerdict(v.Eligible); err != nil {
				return err
			}
		case <-ctx.Done():
			session.CancelEligibility()
			fmt.Fprintln(w, "\nScreening cancelled.")
			return nil
		}
	}
	renderOutcome(w, rec, out)
	return nil
}

// terminalAsker prompts on w and reads a y/N answer from r. End of input
// counts as "no".
func terminalAsker(r io.Reader, w io.Writer) eligibility.Asker {
	reader := bufio.NewReader(r)
	return func(ctx context.Context, itemName string) (bool, error) {
		fmt.Fprintf(w, "%s is a restricted medicine.\nDo you hold a valid prescription for it? [y/N]: ", itemName)

		type answer struct {
			line string
			err  error
		}
		// The read cannot be interrupted; on cancel the goroutine ends with the process.
		ch := make(chan answer, 1)
		go func() {
			line, err := reader.ReadString('\n')
			ch <- answer{line: line, err: err}
		}()

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case a := <-ch:
			if a.err != nil && !errors.Is(a.err, io.EOF) {
				return false, a.err
			}
			return isYes(a.line), nil
		}
	}
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
