package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/chatwrapped/internal/analytics"
	"github.com/janekbaraniewski/chatwrapped/internal/core"
	"github.com/janekbaraniewski/chatwrapped/internal/upload"
)

const viewAll = "all"

var errUploadFailed = errors.New("upload failed")

func newAnalyzeCommand(flags *globalFlags) *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Upload a chat export and print its statistics without the TUI.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selections, err := parseViews(view)
			if err != nil {
				return err
			}
			t, err := core.OpenTranscript(args[0])
			if err != nil {
				return err
			}
			rt, err := loadSession(cmd, flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runAnalyze(ctx, rt.controller(), t, selections, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&view, "view", viewAll, "view to print: messages, media, mentions, links or all")
	return cmd
}

func parseViews(name string) ([]analytics.Selection, error) {
	if strings.EqualFold(strings.TrimSpace(name), viewAll) {
		return append([]analytics.Selection(nil), analytics.Selections...), nil
	}
	sel, err := analytics.ParseSelection(name)
	if err != nil {
		return nil, err
	}
	return []analytics.Selection{sel}, nil
}

// runAnalyze drives one upload to completion and prints the requested views.
// An Error state is reported on errOut and turned into errUploadFailed.
func runAnalyze(ctx context.Context, ctl *upload.Controller, t core.Transcript, views []analytics.Selection, out, errOut io.Writer) error {
	fmt.Fprintf(errOut, "Processing %s...\n", t.Name)
	st, err := ctl.Run(ctx, t)
	if err != nil {
		return err
	}
	if st.Phase != upload.PhaseReady {
		fmt.Fprintln(errOut, st.Message)
		return errUploadFailed
	}

	vm := analytics.NewViewModel(*st.Payload)
	printSummary(out, vm.Summary())
	for _, sel := range views {
		vm.Select(sel)
		fmt.Fprintln(out)
		printView(out, vm.Current())
	}
	return nil
}

func printSummary(w io.Writer, cards []analytics.StatCard) {
	width := lo.Max(lo.Map(cards, func(c analytics.StatCard, _ int) int { return len(c.Label) }))
	fmt.Fprintln(w, "WhatsApp Wrapped")
	for _, c := range cards {
		fmt.Fprintf(w, "  %-*s  %d\n", width, c.Label, c.Value)
	}
}

func printView(w io.Writer, v analytics.ViewData) {
	fmt.Fprintln(w, v.Title)
	if v.Empty {
		fmt.Fprintf(w, "  %s\n", v.EmptyMessage)
		return
	}
	if v.Selection == analytics.SelectLinks {
		for _, g := range v.Links {
			fmt.Fprintf(w, "  %s\n", g.User)
			for _, p := range g.Platforms {
				fmt.Fprintf(w, "    %-12s %s\n", p.Name, p.Caption)
			}
		}
		return
	}
	printRanking(w, v.Primary)
	if v.Secondary != nil {
		printRanking(w, *v.Secondary)
	}
}

func printRanking(w io.Writer, r analytics.Ranking) {
	fmt.Fprintf(w, "  %s\n", r.Heading)
	if r.Empty {
		fmt.Fprintf(w, "    %s\n", r.EmptyMessage)
		return
	}
	for i, e := range r.Entries {
		fmt.Fprintf(w, "    %2d. %s  %s\n", i+1, e.Name, e.Caption)
	}
}
