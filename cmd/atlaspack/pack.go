package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/urfave/cli"

	"github.com/phanxgames/tangerine"
)

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

func packCommand() cli.Command {
	return cli.Command{
		Name:      "pack",
		Usage:     "pack images into <out>/<name>.png and <out>/<name>.json",
		ArgsUsage: "<image or directory>...",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "config",
				Usage: "TOML config whose [atlas] section supplies defaults",
			},
			cli.StringFlag{
				Name:  "out",
				Usage: "Output directory",
				Value: ".",
			},
			cli.StringFlag{
				Name:  "name",
				Usage: "Base name of the written files",
				Value: "atlas",
			},
			cli.IntFlag{
				Name:  "padding",
				Usage: "Bleed padding around each sprite in pixels",
				Value: tangerine.DefaultPadding,
			},
			cli.IntFlag{
				Name:  "max-size",
				Usage: "Largest allowed atlas side (power of two)",
				Value: tangerine.DefaultMaxAtlasSize,
			},
		},
		Action: runPack,
	}
}

func runPack(c *cli.Context) error {
	if c.NArg() == 0 {
		cli.ShowCommandHelp(c, "pack")
		return errors.New("no input images")
	}

	opts, err := packOptions(c)
	if err != nil {
		return err
	}
	files, err := collectImages(c.Args())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no images found in the given paths")
	}

	b := tangerine.NewAtlasBuilder(opts)
	for _, path := range files {
		bm, err := loadBitmap(path)
		if err != nil {
			return err
		}
		if _, err := b.StageNamed(spriteName(path), bm); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	a, err := b.Finalize()
	if err != nil {
		return err
	}
	pngPath, jsonPath, err := tangerine.WriteAtlasFiles(c.String("out"), c.String("name"), a)
	if err != nil {
		return err
	}

	stats := a.Stats()
	fmt.Fprintf(c.App.Writer, "packed %d sprites into %dx%d (%.1f%% used, %d attempts)\n",
		a.Len(), a.Width(), a.Height(), 100*stats.Utilization(), stats.Attempts)
	fmt.Fprintf(c.App.Writer, "wrote %s\nwrote %s\n", pngPath, jsonPath)
	return nil
}

// packOptions starts from the config file (or defaults) and lets explicitly
// set flags override it.
func packOptions(c *cli.Context) (tangerine.AtlasOptions, error) {
	cfg := tangerine.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = tangerine.LoadConfig(path); err != nil {
			return tangerine.AtlasOptions{}, err
		}
	}
	opts := cfg.AtlasOptions()
	if c.IsSet("padding") {
		opts.Padding = c.Int("padding")
	}
	if c.IsSet("max-size") {
		opts.MaxSize = c.Int("max-size")
	}
	if opts.Padding < 0 {
		return opts, fmt.Errorf("padding must be >= 0, got %d", opts.Padding)
	}
	if opts.MaxSize <= 0 || opts.MaxSize&(opts.MaxSize-1) != 0 {
		return opts, fmt.Errorf("max-size must be a power of two, got %d", opts.MaxSize)
	}
	return opts, nil
}

// collectImages expands directories (recursively) into their image files.
// Directory contents are sorted so packing input order is stable.
func collectImages(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			files = append(files, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isImage(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		slices.Sort(found)
		files = append(files, found...)
	}
	return files, nil
}

func isImage(path string) bool {
	return slices.Contains(imageExts, strings.ToLower(filepath.Ext(path)))
}

func loadBitmap(path string) (tangerine.SpriteBitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return tangerine.SpriteBitmap{}, err
	}
	defer f.Close()
	bm, err := tangerine.DecodeBitmap(f)
	if err != nil {
		return tangerine.SpriteBitmap{}, fmt.Errorf("%s: %w", path, err)
	}
	return bm, nil
}

// spriteName is the file name without its extension.
func spriteName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
