package commands

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type UploadCmd struct {
	Server string `help:"Server URL override" default:""`
	Org    string `help:"Organization ID to upload into" required:""`
	Path   string `arg:"" help:"Path of the file to upload" type:"existingfile"`
	Name   string `help:"Name for the stored file (defaults to the file's base name)" default:""`
}

func (u *UploadCmd) Run(globals *Globals) error {
	ctx := context.Background()

	orgID, err := uuid.Parse(u.Org)
	if err != nil {
		return fmt.Errorf("invalid organization ID: %w", err)
	}

	c, _, err := newClient(u.Server)
	if err != nil {
		return err
	}

	name := u.Name
	if name == "" {
		name = filepath.Base(u.Path)
	}

	f, err := os.Open(u.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(u.Path))

	file, err := c.Upload(ctx, orgID, name, contentType, f)
	if err != nil {
		return err
	}

	fmt.Printf("Uploaded %s (%s, %s bytes)\n", file.Name, file.FileID, formatSize(file.Size))
	return nil
}

type DownloadCmd struct {
	Server string `help:"Server URL override" default:""`
	FileID string `arg:"" help:"ID of the file to download"`
	Output string `help:"Output path (defaults to the stored file name)" short:"o" default:""`
}

func (d *DownloadCmd) Run(globals *Globals) error {
	ctx := context.Background()

	fileID, err := uuid.Parse(d.FileID)
	if err != nil {
		return fmt.Errorf("invalid file ID: %w", err)
	}

	c, _, err := newClient(d.Server)
	if err != nil {
		return err
	}

	body, name, err := c.Download(ctx, fileID)
	if err != nil {
		return err
	}
	defer body.Close()

	output := d.Output
	if output == "" {
		output = name
	}

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := io.Copy(out, body)
	if err != nil {
		return err
	}

	fmt.Printf("Downloaded %s (%d bytes)\n", output, n)
	return nil
}
