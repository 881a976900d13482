package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfeidau/filedepot/cmd/cli/internal/credentials"
	"github.com/wolfeidau/filedepot/internal/client"
)

type LoginCmd struct {
	Server   string `help:"Server URL" default:"http://localhost:8080" env:"FILEDEPOT_SERVER"`
	Username string `help:"Username" required:""`
	Password string `help:"Password" required:"" env:"FILEDEPOT_PASSWORD"`
}

func (l *LoginCmd) Run(globals *Globals) error {
	ctx := context.Background()

	c := client.New(client.Config{
		ServerURL: l.Server,
		Timeout:   30 * time.Second,
	})

	result, err := c.Login(ctx, l.Username, l.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	store, err := credentials.NewStore()
	if err != nil {
		return err
	}

	err = store.Save(&credentials.Credentials{
		ServerURL: l.Server,
		Token:     result.Token,
		Username:  result.User.Username,
		UserID:    result.User.UserID.String(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", result.User.Username)
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(globals *Globals) error {
	store, err := credentials.NewStore()
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return err
	}

	fmt.Println("Logged out")
	return nil
}
