// Command atlaspack packs sprite images into a tangerine atlas and previews
// atlas manifests in the terminal.
package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/phanxgames/tangerine"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("atlaspack failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "atlaspack"
	app.Usage = "pack sprite images into a power-of-two atlas"
	app.Description = "Packs PNG, JPEG, GIF, BMP, and WebP files into one atlas image plus a TexturePacker-style JSON manifest."
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log packing details to stderr",
		},
	}
	app.Before = func(c *cli.Context) error {
		level := slog.LevelWarn
		if c.Bool("verbose") {
			level = slog.LevelDebug
		}
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		tangerine.SetLogger(slog.New(handler))
		return nil
	}
	app.Commands = []cli.Command{
		packCommand(),
		previewCommand(),
	}
	return app
}
