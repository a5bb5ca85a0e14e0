package account

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/auth"
	"github.com/julianstephens/tally/internal/cli"
	apperrors "github.com/julianstephens/tally/internal/errors"
)

// promptCredentials asks for whatever was not passed as a flag
func promptCredentials(email, password *string, confirm bool) error {
	var fields []huh.Field
	if strings.TrimSpace(*email) == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(email).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("email is required")
				}
				return nil
			}))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password))
		if confirm {
			var again string
			fields = append(fields, huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&again).
				Validate(func(s string) error {
					if s != *password {
						return errors.New("passwords do not match")
					}
					return nil
				}))
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

type SignUpCmd struct {
	Email    string `arg:"" optional:"" help:"Account email."`
	Password string `help:"Account password (prompted when omitted)." env:"TALLY_PASSWORD"`
}

func (c *SignUpCmd) Run(ctx *cli.Context) error {
	if err := promptCredentials(&c.Email, &c.Password, true); err != nil {
		return err
	}

	session, err := ctx.Auth.SignUp(c.Email, c.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return apperrors.WithHint(err, "use 'tally signin' instead")
		}
		return err
	}

	fmt.Printf("✓ Account created for %s\n", strings.ToLower(strings.TrimSpace(c.Email)))
	fmt.Printf("  Signed in until %s\n", session.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

type SignInCmd struct {
	Email    string `arg:"" optional:"" help:"Account email."`
	Password string `help:"Account password (prompted when omitted)." env:"TALLY_PASSWORD"`
}

func (c *SignInCmd) Run(ctx *cli.Context) error {
	if err := promptCredentials(&c.Email, &c.Password, false); err != nil {
		return err
	}

	session, err := ctx.Auth.SignIn(c.Email, c.Password)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Signed in as %s\n", strings.ToLower(strings.TrimSpace(c.Email)))
	fmt.Printf("  Session expires %s\n", session.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

type SignOutCmd struct{}

func (c *SignOutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Auth.SignOut(); err != nil {
		if errors.Is(err, auth.ErrNotSignedIn) {
			fmt.Println("Not signed in.")
			return nil
		}
		return err
	}
	fmt.Println("✓ Signed out")
	return nil
}

type WhoAmICmd struct{}

func (c *WhoAmICmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	session, err := ctx.Auth.CurrentSession()
	if err != nil {
		return err
	}

	fmt.Printf("Email:    %s\n", user.Email)
	fmt.Printf("User ID:  %s\n", user.ID)
	fmt.Printf("Since:    %s\n", user.CreatedAt.Local().Format("2006-01-02"))
	fmt.Printf("Session:  expires %s\n", session.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}
