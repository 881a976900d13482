package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
)

type HistoryCmd struct {
	Server string `help:"Server URL override" default:""`
	File   string `help:"File ID to show download history for" default:""`
	User   string `help:"User ID to show download history for (defaults to the logged-in user)" default:""`
}

func (h *HistoryCmd) Run(globals *Globals) error {
	ctx := context.Background()

	c, creds, err := newClient(h.Server)
	if err != nil {
		return err
	}

	if h.File != "" {
		fileID, err := uuid.Parse(h.File)
		if err != nil {
			return fmt.Errorf("invalid file ID: %w", err)
		}

		downloads, err := c.FileDownloadHistory(ctx, fileID)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DOWNLOADED AT\tUSERNAME\tEMAIL")
		for _, d := range downloads {
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.DownloadedAt.Format(time.RFC3339), d.Username, d.Email)
		}
		return w.Flush()
	}

	userIDStr := h.User
	if userIDStr == "" {
		userIDStr = creds.UserID
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}

	downloads, err := c.UserDownloadHistory(ctx, userID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DOWNLOADED AT\tFILE\tORGANIZATION")
	for _, d := range downloads {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.DownloadedAt.Format(time.RFC3339), d.File.Name, d.File.OrganizationName)
	}
	return w.Flush()
}
