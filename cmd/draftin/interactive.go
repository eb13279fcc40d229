package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amishk599/draftin/internal/model"
	"github.com/amishk599/draftin/internal/tui"
)

// generateFunc drafts once, steered by an optional regeneration prompt.
type generateFunc func(ctx context.Context, regenerate string) (model.Draft, error)

// runDraft generates a draft and shows it, returning the one the user kept.
// On a terminal it shows a spinner and the draft viewer, and loops while the
// user asks to regenerate. Otherwise it prints the draft to out once.
func runDraft(ctx context.Context, out io.Writer, interactive bool, job model.JobDetails, label, regenerate string, gen generateFunc) (model.Draft, error) {
	if !interactive {
		draft, err := gen(ctx, regenerate)
		if err != nil {
			return model.Draft{}, err
		}
		fmt.Fprintln(out, draft.Content)
		return draft, nil
	}

	in := bufio.NewReader(os.Stdin)
	for {
		draft, err := tui.RunGenerating(ctx, label, func(ctx context.Context) (model.Draft, error) {
			return gen(ctx, regenerate)
		})
		if err != nil {
			return model.Draft{}, err
		}

		action, err := tui.RunDraftViewer(job, draft)
		if err != nil {
			return model.Draft{}, err
		}
		if action != tui.ActionRegenerate {
			// Leave the final draft on screen after the alt screen closes.
			fmt.Fprintln(out, draft.Content)
			return draft, nil
		}

		fmt.Fprint(out, "Regeneration prompt (empty to reuse the last one): ")
		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			return model.Draft{}, fmt.Errorf("read regeneration prompt: %w", err)
		}
		if line = strings.TrimSpace(line); line != "" {
			regenerate = line
		}
	}
}
