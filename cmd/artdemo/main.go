// Command artdemo plays a board script and saves the boards it produces as
// one image.
//
//	artdemo                          # built-in demo scene
//	artdemo -script sprite.yaml -output sprite.png -scale 8
//	artdemo -script sprite.yaml -watch
//
// Defaults can be set in the environment or a .env file in the working
// directory: ARTDEMO_SCRIPT, ARTDEMO_OUTPUT, ARTDEMO_SCALE.
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/gogpu/artboard"
	"github.com/gogpu/artboard/internal/script"
	"github.com/gogpu/artboard/render"
	"github.com/gogpu/artboard/renderloop"
)

//go:embed demo.yaml
var demoScript []byte

const defaultOutput = "artdemo.png"

type config struct {
	script  string
	output  string
	scale   int
	watch   bool
	verbose bool
}

func main() {
	// A missing .env file is fine; the environment and flags still apply.
	_ = godotenv.Load()

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("artdemo: %v", err)
	}
	setupLogging(cfg.verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Fatalf("artdemo: %v", err)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (config, error) {
	var cfg config
	fs.StringVar(&cfg.script, "script", os.Getenv("ARTDEMO_SCRIPT"), "board script (YAML); built-in demo when empty")
	fs.StringVar(&cfg.output, "output", os.Getenv("ARTDEMO_OUTPUT"), "output image (.png, .bmp, .tif); the script's output.file when empty")
	fs.IntVar(&cfg.scale, "scale", envInt("ARTDEMO_SCALE", 0), "integer upscale factor; the script's output.scale when 0")
	fs.BoolVar(&cfg.watch, "watch", false, "re-render when the script changes")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.scale < 0 {
		return cfg, fmt.Errorf("scale must not be negative, got %d", cfg.scale)
	}
	if cfg.watch && cfg.script == "" {
		return cfg, errors.New("-watch needs -script")
	}
	return cfg, nil
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	artboard.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func run(ctx context.Context, cfg config) error {
	loop := renderloop.New()
	defer loop.Close()

	if _, err := renderOnce(ctx, loop, cfg); err != nil {
		return err
	}
	if !cfg.watch {
		return nil
	}

	w, err := script.NewWatcher(cfg.script)
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.script, err)
	}
	defer w.Close()
	artboard.Logger().Info("artdemo: watching", "script", cfg.script)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.Events:
			if !ok {
				return nil
			}
			// Keep watching after a bad edit.
			if _, err := renderOnce(ctx, loop, cfg); err != nil {
				artboard.Logger().Error("artdemo: render failed", "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			artboard.Logger().Warn("artdemo: watcher error", "err", err)
		}
	}
}

// renderOnce plays the configured script and saves the result. It returns
// the path written.
func renderOnce(ctx context.Context, loop *renderloop.Loop, cfg config) (string, error) {
	var (
		s   *script.Script
		err error
	)
	if cfg.script == "" {
		s, err = script.Parse(demoScript)
	} else {
		s, err = script.Load(cfg.script)
	}
	if err != nil {
		return "", err
	}

	res, err := script.Play(ctx, loop, s)
	if err != nil {
		return "", err
	}
	defer func() { _ = res.Close(context.WithoutCancel(ctx)) }()

	img, err := renderloop.Call(ctx, loop, func(context.Context) (*image.RGBA, error) {
		return render.Compose(res.Boards()...)
	})
	if err != nil {
		return "", err
	}

	output := firstNonEmpty(cfg.output, res.Output.File, defaultOutput)
	scale := cfg.scale
	if scale == 0 {
		scale = max(res.Output.Scale, 1)
	}
	out := render.Preview(img, render.WithScale(float64(scale)))
	if err := render.SaveImage(output, out); err != nil {
		return "", err
	}
	artboard.Logger().Info("artdemo: saved", "path", output,
		"width", out.Bounds().Dx(), "height", out.Bounds().Dy(), "boards", len(res.Boards()))
	return output, nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
