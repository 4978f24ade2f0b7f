package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/procfs"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func overrideConfig(cfg Config, cmd *cli.Command) Config {
	if cmd.String("StoragePath") != "" {
		cfg.StoragePath = cmd.String("StoragePath")
	}
	if cmd.String("Backend") != "" {
		cfg.Backend = cmd.String("Backend")
	}
	if cmd.Int("BatchSize") != 0 {
		cfg.BatchSize = int(cmd.Int("BatchSize"))
	}
	if cmd.Int("Concurrency") != 0 {
		cfg.Concurrency = int(cmd.Int("Concurrency"))
	}
	if cmd.Int("DuckdbMaxMemMb") != 0 {
		cfg.DuckdbMaxMemMb = int(cmd.Int("DuckdbMaxMemMb"))
	}
	if cmd.Int("MinPeakCount") != 0 {
		cfg.MinPeakCount = int(cmd.Int("MinPeakCount"))
	}

	return cfg
}

func NewConsole(logger *zap.Logger) *cli.Command {
	prepareCfg := func(cmd *cli.Command) (Config, error) {
		cfg, err := LoadConfig()
		if err != nil && errors.Is(err, errNoConfigFile) {
			logger.Info("No config file found, using default config")
		} else if err != nil {
			return cfg, err
		}
		logger.Debug("Loaded config", zap.Any("config", cfg))
		cfg = overrideConfig(cfg, cmd)
		return cfg, cfg.Validate()
	}

	openApp := func(cmd *cli.Command) (*App, error) {
		cfg, err := prepareCfg(cmd)
		if err != nil {
			return nil, err
		}
		return NewApp(cfg, logger)
	}

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "StoragePath",
			Aliases: []string{"storage"},
			Usage:   "where the fingerprint index lives (relative to cwd supported)",
		},
		&cli.StringFlag{
			Name:    "Backend",
			Aliases: []string{"b"},
			Usage:   "which embedded database keeps the index: sqlite or duckdb",
		},
		&cli.IntFlag{
			Name:    "BatchSize",
			Aliases: []string{"batch"},
			Usage:   "how many hashes go into a single index lookup",
		},
		&cli.IntFlag{
			Name:    "Concurrency",
			Aliases: []string{"c"},
			Usage:   "how many lookups may run at once",
		},
		&cli.IntFlag{
			Name:    "DuckdbMaxMemMb",
			Aliases: []string{"duckdb"},
			Usage:   "Max memory the duckdb instance is allowed to allocate (Mb)",
		},
		&cli.IntFlag{
			Name:    "MinPeakCount",
			Aliases: []string{"peak"},
			Usage:   "confirmation threshold: aligned samples a track's best delta bin must exceed",
		},
	}

	cmd := &cli.Command{
		Commands: []*cli.Command{
			{
				Name:        "gen",
				Flags:       flags,
				Description: "Generates config to stdOut.",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := overrideConfig(DefaultCfg, cmd)
					if err := cfg.Validate(); err != nil {
						return err
					}
					yamlData, err := yaml.Marshal(&cfg)
					if err != nil {
						return err
					}
					fmt.Print(string(yamlData))
					return nil
				},
			},
			{
				Name:        "import",
				Flags:       flags,
				ArgsUsage:   "FILE...",
				Description: "Registers tracks from fingerprint files produced by the extractor.",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						return errors.New("expected at least one fingerprint file")
					}
					app, err := openApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()

					for _, path := range cmd.Args().Slice() {
						f, err := ReadFingerprintFile(path)
						if err != nil {
							return err
						}
						id, err := app.Index.PutTrack(ctx, f.Track.Name, f.Track.FileSHA1, len(f.Fingerprints))
						if err != nil {
							return err
						}
						err = app.Index.PutFingerprints(ctx, id, f.Fingerprints, app.Cfg.BatchSize)
						if err != nil {
							return err
						}
						err = app.Index.SetTrackFingerprinted(ctx, id)
						if err != nil {
							return err
						}
						logger.Info(
							"track imported",
							zap.Int("track", id),
							zap.String("name", f.Track.Name),
							zap.Int("hashes", len(f.Fingerprints)),
						)
					}
					return nil
				},
			},
			{
				Name:        "match",
				Flags:       flags,
				ArgsUsage:   "FILE",
				Description: "Finds which stored tracks the queried fingerprint file was taken from.",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return errors.New("expected exactly one fingerprint file")
					}
					app, err := openApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()

					f, err := ReadFingerprintFile(cmd.Args().First())
					if err != nil {
						return err
					}
					report, err := app.Matcher.FindReuse(ctx, f.Fingerprints)
					if err != nil {
						return err
					}
					if !report.Found {
						fmt.Println("No reuse found.")
						return nil
					}
					fmt.Println(renderReport(report))
					return nil
				},
			},
			{
				Name:        "tracks",
				Flags:       flags,
				Description: "Lists fingerprinted tracks.",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := openApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()

					tracks, err := app.Index.Tracks(ctx)
					if err != nil {
						return err
					}
					fmt.Println(renderTracks(tracks))
					return nil
				},
			},
			{
				Name:        "delete",
				Flags:       flags,
				ArgsUsage:   "ID...",
				Description: "Deletes tracks and their fingerprints by id.",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ids := make([]int, 0, cmd.Args().Len())
					for _, arg := range cmd.Args().Slice() {
						id, err := strconv.Atoi(arg)
						if err != nil {
							return fmt.Errorf("bad track id %q: %w", arg, err)
						}
						ids = append(ids, id)
					}
					if len(ids) == 0 {
						return errors.New("expected at least one track id")
					}
					app, err := openApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()

					return app.Index.DeleteTracks(ctx, ids)
				},
			},
			{
				Name:        "stats",
				Flags:       flags,
				Description: "Prints index counts and process memory.",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := openApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()

					tracks, err := app.Index.CountTracks(ctx)
					if err != nil {
						return err
					}
					fingerprints, err := app.Index.CountFingerprints(ctx)
					if err != nil {
						return err
					}
					fmt.Printf("Tracks: %d\n", tracks)
					fmt.Printf("Fingerprints: %d\n", fingerprints)

					if p, perr := procfs.Self(); perr == nil {
						if stat, serr := p.Stat(); serr == nil {
							fmt.Printf("Resident memory: %d Mb\n", stat.ResidentMemory()/1024/1024)
						}
					}
					return nil
				},
			},
			{
				Name:        "wipe",
				Flags:       flags,
				Description: "Removes all stored tracks and fingerprints.",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := openApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()

					return app.Index.Empty(ctx)
				},
			},
		},
	}

	return cmd
}
