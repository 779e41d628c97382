// cmd/tofpa/main.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// tofpa computes an ICAO annex 4 take-off flight path area (AOC type A)
// surface from runway and threshold layers, optionally evaluates an
// obstacle layer against it, and writes the results as GeoJSON plus
// optional KMZ and AIXM 5.1.1.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andures/tofpa/export"
	"github.com/andures/tofpa/geo"
	"github.com/andures/tofpa/log"
	"github.com/andures/tofpa/tofpa"
)

var jobFile = flag.String("job", "", "JSON job description (required)")
var outDir = flag.String("out", ".", "Directory for output files")
var writeKMZ = flag.Bool("kmz", false, "Also write a KMZ archive")
var writeAIXM = flag.Bool("aixm", false, "Also write an AIXM 5.1.1 message")
var logLevel = flag.String("loglevel", "info", "Log level: debug, info, warn, error")
var logDir = flag.String("logdir", "", "Directory for log files; defaults to the user config dir")

// Job is the on-disk calculation request: the input layers and the surface
// and obstacle parameters. Input layers are GeoJSON files in a shared
// projected CRS with metre units.
type Job struct {
	CRS       string `json:"crs"`
	Runway    string `json:"runway"`
	Threshold string `json:"threshold"`
	Obstacles string `json:"obstacles,omitempty"`

	Surface struct {
		Width          float64 `json:"width_m"`
		MaxWidth       float64 `json:"max_width_m"`
		ClearwayLength float64 `json:"clearway_m"`
		ThresholdElev  float64 `json:"z0_m"`
		EndElev        float64 `json:"ze_m"`
		EndToStart     bool    `json:"end_to_start,omitempty"`
	} `json:"surface"`

	Obstacle *struct {
		HeightField     string  `json:"height_field"`
		BufferDistance  float64 `json:"buffer_m"`
		MinHeight       float64 `json:"min_height_m"`
		EnableShadow    bool    `json:"shadow,omitempty"`
		ShadowTolerance float64 `json:"shadow_tolerance_deg,omitempty"`
		Workers         int     `json:"workers,omitempty"`
	} `json:"obstacle,omitempty"`
}

func loadJob(path string) (*Job, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var job Job
	if err := json.Unmarshal(b, &job); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if job.Runway == "" || job.Threshold == "" {
		return nil, fmt.Errorf("%s: runway and threshold layers are required", path)
	}
	return &job, nil
}

func (job *Job) surfaceParams() tofpa.SurfaceParams {
	dir := tofpa.StartToEnd
	if job.Surface.EndToStart {
		dir = tofpa.EndToStart
	}
	return tofpa.SurfaceParams{
		Width:          job.Surface.Width,
		MaxWidth:       job.Surface.MaxWidth,
		ClearwayLength: job.Surface.ClearwayLength,
		ThresholdElev:  job.Surface.ThresholdElev,
		EndElev:        job.Surface.EndElev,
		Direction:      dir,
	}
}

func (job *Job) obstacleParams() *tofpa.ObstacleParams {
	if job.Obstacle == nil {
		return nil
	}
	op := tofpa.DefaultObstacleParams()
	op.HeightField = job.Obstacle.HeightField
	if job.Obstacle.BufferDistance > 0 {
		op.BufferDistance = job.Obstacle.BufferDistance
	}
	if job.Obstacle.MinHeight > 0 {
		op.MinHeight = job.Obstacle.MinHeight
	}
	op.EnableShadow = job.Obstacle.EnableShadow
	if job.Obstacle.ShadowTolerance > 0 {
		op.ShadowTolerance = job.Obstacle.ShadowTolerance
	}
	if job.Obstacle.Workers > 0 {
		op.Workers = job.Obstacle.Workers
	}
	return &op
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	flag.Parse()

	usage := func() {
		fmt.Fprintf(os.Stderr, "usage: tofpa -job <job.json> [flags]\nwhere [flags] may be:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *jobFile == "" || len(flag.Args()) > 0 {
		usage()
	}

	lg := log.New(*logLevel, *logDir)

	job, err := loadJob(*jobFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tofpa: %v\n", err)
		os.Exit(1)
	}

	fatal := func(err error) {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "tofpa: %v\n", err)
		os.Exit(1)
	}

	runway, err := geo.LoadGeoJSON(job.Runway, job.CRS)
	if err != nil {
		fatal(err)
	}
	threshold, err := geo.LoadGeoJSON(job.Threshold, job.CRS)
	if err != nil {
		fatal(err)
	}
	var obstacles *geo.Layer
	if job.Obstacles != "" {
		if obstacles, err = geo.LoadGeoJSON(job.Obstacles, job.CRS); err != nil {
			fatal(err)
		}
	}

	calc := tofpa.NewCalculator(lg)
	res, err := calc.Run(context.Background(), runway, threshold, job.surfaceParams(),
		obstacles, job.obstacleParams())
	if err != nil {
		fatal(err)
	}

	out := func(name string) string { return filepath.Join(*outDir, name) }

	err = writeFile(out("tofpa.geojson"), func(f *os.File) error {
		return export.WriteGeoJSON(f, res)
	})
	if err != nil {
		fatal(err)
	}

	// KML and AIXM carry geographic coordinates; without a host-supplied
	// reprojection the planar metre values pass through unchanged.
	if *writeKMZ {
		err = writeFile(out("tofpa.kmz"), func(f *os.File) error {
			return export.WriteKMZ(f, res, export.Identity)
		})
		if err != nil {
			fatal(err)
		}
	}
	if *writeAIXM {
		err = writeFile(out("tofpa.aixm"), func(f *os.File) error {
			return export.WriteAIXM(f, res, export.Identity)
		})
		if err != nil {
			fatal(err)
		}
	}

	fmt.Println(res.Summary())
}
