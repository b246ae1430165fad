// rigbake bakes wheel, steering and suspension keyframes for a
// vehicle rig from a root motion track.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/Ni-zav/rigacar/internal/bake"
	"github.com/Ni-zav/rigacar/internal/config"
	"github.com/Ni-zav/rigacar/internal/ground"
	"github.com/Ni-zav/rigacar/internal/logger"
	"github.com/Ni-zav/rigacar/internal/rig"
	"github.com/Ni-zav/rigacar/pkg/math"
)

// scene is the on-disk description of one bake job: detected wheel
// geometry, the ground representation and the root motion track.
type scene struct {
	Wheels []sceneWheel `yaml:"wheels"`
	Ground sceneGround  `yaml:"ground"`
	Motion bake.Motion  `yaml:"motion"`
}

type sceneWheel struct {
	Center math.Vec3 `yaml:"center"`
	Radius float64   `yaml:"radius"`
}

type sceneGround struct {
	Plane *struct {
		Height float64 `yaml:"height"`
	} `yaml:"plane"`
	Heightfield *struct {
		Width    int       `yaml:"width"`
		Depth    int       `yaml:"depth"`
		CellSize float64   `yaml:"cell_size"`
		Origin   math.Vec2 `yaml:"origin"`
		Heights  []float64 `yaml:"heights"`
	} `yaml:"heightfield"`
}

type output struct {
	Channels []*bake.Channel `yaml:"channels"`
}

func main() {
	var (
		configPath = flag.String("config", "", "config file path")
		scenePath  = flag.String("scene", "", "scene file (wheels, ground, motion)")
		outPath    = flag.String("out", "", "output channel file (default stdout)")
		start      = flag.Int("start", 0, "first frame to bake")
		end        = flag.Int("end", 0, "last frame to bake (default last motion frame)")
		strategy   = flag.String("strategy", "ground", "bake strategy: simple, ground, drift")
	)
	flag.Parse()

	if *scenePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *scenePath, *outPath, *start, *end, *strategy); err != nil {
		logger.Sugar.Error(err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, scenePath, outPath string, start, end int, strategyName string) error {
	sc, err := loadScene(scenePath)
	if err != nil {
		return err
	}

	strategy, err := bake.ParseStrategy(strategyName)
	if err != nil {
		return err
	}

	env, err := sc.Ground.caster()
	if err != nil {
		return err
	}

	schema, err := rig.NewSchema(cfg.Rig)
	if err != nil {
		return err
	}
	wheels := make([]rig.WheelBounds, len(sc.Wheels))
	for i, w := range sc.Wheels {
		wheels[i] = rig.WheelBounds{Center: w.Center, Radius: w.Radius}
	}
	skel, err := rig.Build(schema, wheels, rig.BuildOptions{
		MaxSteeringAngle: cfg.Bake.MaxSteeringAngle,
		SuspensionTravel: cfg.Bake.SuspensionTravel,
	})
	if err != nil {
		return err
	}
	handles := 0
	for _, b := range skel.Bones {
		if b.HasTag(rig.TagAnimation) {
			handles++
		}
	}
	logger.Sugar.Infow("skeleton built",
		"bones", len(skel.Bones),
		"handles", handles,
		"assemblies", len(skel.Assemblies),
		"wheelbase", skel.Wheelbase)

	sc.Motion.Sort()
	if len(sc.Motion) == 0 {
		return fmt.Errorf("scene has no root motion samples")
	}
	if end == 0 {
		end = sc.Motion[len(sc.Motion)-1].Frame
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := bake.NewDriver(skel, env, cfg.Bake, logger.Log)
	channels := bake.NewChannelSet()
	report, err := driver.BakeRange(ctx, sc.Motion, start, end, strategy, channels)
	if err != nil {
		return err
	}
	logger.Sugar.Info(report.String())

	return writeChannels(outPath, channels)
}

func loadScene(path string) (*scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	var sc scene
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	// An omitted rotation means no turn, not a degenerate quaternion.
	for i, s := range sc.Motion {
		if s.Rotation == (math.Quat{}) {
			sc.Motion[i].Rotation = math.QuatIdentity()
		}
	}
	return &sc, nil
}

func (g sceneGround) caster() (ground.Caster, error) {
	switch {
	case g.Heightfield != nil:
		h := g.Heightfield
		if len(h.Heights) != h.Width*h.Depth {
			return nil, fmt.Errorf("heightfield has %d samples, want %d", len(h.Heights), h.Width*h.Depth)
		}
		return &ground.Heightfield{
			Heights:  h.Heights,
			Width:    h.Width,
			Depth:    h.Depth,
			CellSize: h.CellSize,
			Origin:   h.Origin,
		}, nil
	case g.Plane != nil:
		return ground.Plane{Height: g.Plane.Height}, nil
	}
	return ground.Plane{}, nil
}

func writeChannels(path string, channels *bake.ChannelSet) error {
	data, err := yaml.Marshal(output{Channels: channels.All()})
	if err != nil {
		return fmt.Errorf("marshal channels: %w", err)
	}
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write channels %s: %w", path, err)
	}
	return nil
}
