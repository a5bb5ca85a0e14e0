package system

import (
	"fmt"

	"github.com/julianstephens/tally/internal/cli"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	result, err := ctx.Tracker.Audit(user.ID)
	if err != nil {
		return err
	}

	fmt.Println(result.FormatReport())
	if result.HasErrors() {
		return fmt.Errorf("validation found %d problem(s)", len(result.Conflicts))
	}
	return nil
}
