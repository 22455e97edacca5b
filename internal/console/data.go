package console

import (
	"context"
	"fmt"
	"os"

	"github.com/Ipeter02/ccapsystemsynod/internal/service"
	"github.com/Ipeter02/ccapsystemsynod/pkg/export"
)

func cmdExport(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("export")
	out := fs.StringP("out", "o", "", "file to write (defaults to stdout)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	actor, err := c.actor()
	if err != nil {
		return err
	}
	doc, err := c.client().Export(ctx, actor)
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = c.out.Write(append(doc, '\n'))
		return err
	}
	if err := os.WriteFile(*out, doc, 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	c.printf("exported to %s\n", *out)
	return nil
}

func cmdImport(ctx context.Context, c *Console, args []string) error {
	rest, err := parse(c.flags("import"), args, 1)
	if err != nil {
		return err
	}
	actor, err := c.actor()
	if err != nil {
		return err
	}
	payload, err := os.ReadFile(rest[0])
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	n, err := c.client().Import(ctx, actor, payload)
	if err != nil {
		return err
	}
	if err := c.reload(ctx); err != nil {
		return err
	}
	c.printf("imported %d collection(s)\n", n)
	return nil
}

func cmdReset(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("reset")
	yes := fs.Bool("yes", false, "confirm wiping the local store")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("%w: reset requires --yes", ErrUsage)
	}
	actor, err := c.actor()
	if err != nil {
		return err
	}
	if err := c.client().Reset(ctx, actor); err != nil {
		return err
	}
	if err := c.reload(ctx); err != nil {
		return err
	}
	c.printf("local store reset\n")
	return nil
}

func cmdDirectory(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("directory")
	rawFormat := fs.StringP("format", "f", string(export.FormatCSV), "csv, pdf or xlsx")
	district := fs.String("district", "", "only list members of this district")
	out := fs.StringP("out", "o", "", "file to write (defaults to stdout for csv)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	format, err := export.ParseFormat(*rawFormat)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *out == "" && format != export.FormatCSV {
		return fmt.Errorf("%w: --out is required for %s", ErrUsage, format)
	}
	if _, err := c.actor(); err != nil {
		return err
	}

	users, err := c.client().Users(ctx)
	if err != nil {
		return err
	}
	renderer, err := export.RendererFor(format)
	if err != nil {
		return err
	}
	title := "CCAP Synod Member Directory"
	if *district != "" {
		title += " - " + *district
	}
	doc, err := renderer.Render(service.MemberDirectory(users, *district), title)
	if err != nil {
		return fmt.Errorf("render directory: %w", err)
	}
	if *out == "" {
		_, err = c.out.Write(doc)
		return err
	}
	if err := os.WriteFile(*out, doc, 0o644); err != nil {
		return fmt.Errorf("write directory: %w", err)
	}
	c.printf("wrote %s directory to %s\n", format, *out)
	return nil
}
