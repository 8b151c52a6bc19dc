package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"facemask/config"
	"facemask/detector"
	"facemask/facemasking"
)

// strokeScript is a recorded brush session replayed onto the overlay.
type strokeScript struct {
	Strokes []struct {
		Width  int          `yaml:"width"`
		Points [][2]float64 `yaml:"points"`
	} `yaml:"strokes"`
}

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	input := flag.String("input", "", "image to mask")
	output := flag.String("output", "", "output image path (overrides config)")
	strokes := flag.String("strokes", "", "YAML file of brush strokes to apply")
	help := flag.Bool("help", false, "show usage")
	flag.Parse()
	if *help || *input == "" {
		flag.Usage()
		return
	}

	if err := run(context.Background(), *configPath, *input, *output, *strokes); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context, configPath, input, output, strokesPath string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if output == "" {
		output = cfg.Output.Path
	}

	img, err := facemasking.Open(input, cfg.Input.MaxDimension)
	if err != nil {
		return err
	}

	studio := facemasking.NewStudio(detector.New(cfg.DetectorConfig()), cfg.MaskOptions())
	studio.SetDebug(cfg.Logging.Debug)

	sess, err := studio.Process(ctx, img)
	switch {
	case errors.Is(err, facemasking.ErrModelLoad):
		return err
	case errors.Is(err, facemasking.ErrDetection):
		log.Println("[MAIN]", "no face found, exporting the grayscale image only")
	case err != nil:
		return err
	}

	if strokesPath != "" {
		if err := applyStrokes(sess.Overlay, strokesPath); err != nil {
			return err
		}
	}

	if err := sess.WriteFile(output); err != nil {
		return err
	}
	log.Println("[MAIN]", "written", output, "as", sess.Filename())

	if cfg.Output.SVG != "" && sess.Masked() {
		f, err := os.Create(cfg.Output.SVG)
		if err != nil {
			return fmt.Errorf("can not create %s error: %w", cfg.Output.SVG, err)
		}
		defer f.Close()
		if err := sess.MaskSVG(f); err != nil {
			return err
		}
	}
	return nil
}

// applyStrokes feeds a stroke script through the overlay's pointer events.
func applyStrokes(ov *facemasking.Overlay, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read strokes file: %w", err)
	}
	var script strokeScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return fmt.Errorf("failed to parse strokes file: %w", err)
	}
	for _, s := range script.Strokes {
		if s.Width != 0 {
			if err := ov.SetBrushWidth(s.Width); err != nil {
				return err
			}
		}
		for i, p := range s.Points {
			pt := facemasking.Point{X: p[0], Y: p[1]}
			if i == 0 {
				ov.PointerDown(pt)
			} else {
				ov.PointerMove(pt)
			}
		}
		ov.PointerUp()
	}
	log.Println("[MAIN]", "applied", len(script.Strokes), "strokes")
	return nil
}
