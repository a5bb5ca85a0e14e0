package export

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/ics"
)

// ICSCmd writes the schedules of active challenges as an iCalendar feed
type ICSCmd struct {
	Output string `short:"o" help:"File to write. Defaults to stdout." type:"path"`
}

func (c *ICSCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	items, err := ctx.Tracker.ListChallenges(user.ID)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	n, err := ics.Write(w, items, ctx.Scheduler.Now())
	if err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	if c.Output != "" {
		fmt.Printf("✓ Exported %d of %d challenge(s) to %s\n", n, len(items), c.Output)
	}
	return nil
}
