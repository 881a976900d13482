package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
)

type OrgsCmd struct {
	Server string `help:"Server URL override" default:""`
}

func (o *OrgsCmd) Run(globals *Globals) error {
	ctx := context.Background()

	c, _, err := newClient(o.Server)
	if err != nil {
		return err
	}

	orgs, err := c.ListOrganizations(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORG ID\tNAME\tTOTAL DOWNLOADS")
	for _, org := range orgs {
		fmt.Fprintf(w, "%s\t%s\t%d\n", org.OrgID, org.Name, org.TotalDownloads)
	}
	return w.Flush()
}

type FilesCmd struct {
	Server string `help:"Server URL override" default:""`
	Org    string `help:"Organization ID to list files for (all organizations if omitted)" default:""`
}

func (f *FilesCmd) Run(globals *Globals) error {
	ctx := context.Background()

	c, _, err := newClient(f.Server)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	if f.Org != "" {
		orgID, err := uuid.Parse(f.Org)
		if err != nil {
			return fmt.Errorf("invalid organization ID: %w", err)
		}

		files, err := c.ListFiles(ctx, orgID)
		if err != nil {
			return err
		}

		fmt.Fprintln(w, "FILE ID\tNAME\tSIZE\tUPLOADED AT")
		for _, file := range files {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				file.FileID, file.Name, formatSize(file.Size), file.UploadedAt.Format(time.RFC3339))
		}
		return w.Flush()
	}

	files, err := c.ListAllFiles(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "FILE ID\tNAME\tORGANIZATION\tUPLOADED BY\tSIZE\tDOWNLOADS")
	for _, file := range files {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			file.FileID, file.Name, file.OrganizationName, file.UploadedByUsername,
			formatSize(file.Size), file.DownloadCount)
	}
	return w.Flush()
}
