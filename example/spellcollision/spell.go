package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/golang/geo/r3"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ImVexed/octree"
)

// This file is an example using octree to simulate a lingering AoE spell causing damage
// over multiple ticks to a group of enemies scattered through a 3D scene

type LingeringAoESpell struct {
	duration time.Duration
	dps      float64
	position r3.Vector
	radius   float64
}

func (l *LingeringAoESpell) HitTestEx(m *Mob) bool {
	// Maybe factor in dodge, block, accuracy, etc. here
	return l.position.Distance(m.position) <= l.radius+m.size
}

type Mob struct {
	idx      int
	health   float64
	position r3.Vector
	size     float64
}

const maxMobSize = 1

func main() {
	app := &cli.App{
		Name:  "spellcollision",
		Usage: "simulate a lingering AoE spell against mobs indexed in an octree",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "entities", Value: 500_000, Usage: "number of mobs to spawn"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "octree YAML config"},
			&cli.DurationFlag{Name: "duration", Value: 2 * time.Second, Usage: "how long the spell lingers"},
			&cli.Float64Flag{Name: "radius", Value: 1000, Usage: "spell radius"},
			&cli.StringFlag{Name: "image", Usage: "write an XY projection of the tree to this BMP file"},
			&cli.Float64Flag{Name: "image-scale", Value: 0.1, Usage: "pixels per scene unit"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(path string) (octree.Config, error) {
	if path != "" {
		return octree.LoadConfig(path)
	}
	cfg := octree.DefaultConfig()
	cfg.Bounds = octree.BoundsConfig{
		Min: []float64{0, 0, 0},
		Max: []float64{10_000, 10_000, 10_000},
	}
	return cfg, nil
}

func run(c *cli.Context) error {
	if c.Bool("debug") {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	tree, err := octree.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	bounds := tree.Bounds()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	entityCount := c.Int("entities")
	log.WithField("entities", entityCount).Info("Allocating entities, this may take a moment...")

	despawned := 0
	onDespawn := func(interface{}) { despawned++ }

	randomPosition := func() r3.Vector {
		return r3.Vector{
			X: bounds.MinX + rng.Float64()*bounds.Width(),
			Y: bounds.MinY + rng.Float64()*bounds.Height(),
			Z: bounds.MinZ + rng.Float64()*bounds.Depth(),
		}
	}

	// Insert mobs into the scene
	for n := 0; n < entityCount; n++ {
		m := &Mob{
			idx:      n,
			health:   float64(rng.Intn(120)), // 100 damage is dealt over 2 seconds, so only ~20% should survive
			size:     maxMobSize,
			position: randomPosition(),
		}

		h := octree.NewHandle(m, onDespawn)
		if _, err := tree.InsertPoint(octree.PointFromVector[float64](m.position, h)); err != nil {
			return err
		}
		// The tree holds its own reference now
		h.Release()
	}
	log.WithFields(tree.Stats().Fields()).Info("Scene populated")

	tickRate := time.Second / 30
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	spell := &LingeringAoESpell{
		duration: c.Duration("duration"),
		dps:      50,
		position: randomPosition(),
		radius:   c.Float64("radius"),
	}

	// Store when the spell was casted so we know when to stop
	casted := time.Now()
	ticks := 0
	deadMobs := 0
	log.Info("Starting simulation loop!")
	for {
		delta := time.Since(<-ticker.C)
		ticks++
		if delta.Milliseconds() > 0 {
			// The ability to maintain the tickrate is highly dependent on the underlying machine
			log.WithField("delta", delta).Warn("Tick rate slipped")
		}

		if time.Since(casted) > spell.duration {
			break
		}

		// Pad the query by the largest mob so edge mobs are not pruned
		hits := tree.QueryRadius(spell.position.X, spell.position.Y, spell.position.Z, spell.radius+maxMobSize)

		for _, p := range hits {
			m := p.Value().(*Mob)

			if m.health <= 0 || !spell.HitTestEx(m) {
				continue
			}

			m.health -= (spell.dps / float64(time.Second.Milliseconds())) * float64((tickRate + delta).Milliseconds())
			if m.health <= 0 {
				m.health = 0
				deadMobs++
			}
		}
	}

	log.WithFields(log.Fields{
		"ticks":   ticks,
		"elapsed": time.Since(casted),
		"killed":  deadMobs,
		"total":   entityCount,
	}).Info("Spell ended")
	log.WithFields(tree.Stats().Fields()).Info("Octree stats")

	if path := c.String("image"); path != "" {
		log.WithField("path", path).Info("Dumping image of tree")
		if err := tree.ImageFile(path, c.Float64("image-scale")); err != nil {
			return err
		}
	}

	tree.Clear()
	log.WithField("despawned", despawned).Info("Scene cleared")

	return nil
}
