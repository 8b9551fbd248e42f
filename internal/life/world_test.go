package life_test

import (
	"errors"
	"image/color"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/plife/internal/compute"
	"github.com/san-kum/plife/internal/life"
)

func baseConfig() life.Config {
	return life.Config{
		Groups: []life.GroupSpec{
			{Name: "green", Color: color.RGBA{G: 255, A: 255}},
			{Name: "red", Color: color.RGBA{R: 255, A: 255}},
			{Name: "cyan", Color: color.RGBA{G: 255, B: 255, A: 255}},
			{Name: "blue", Color: color.RGBA{B: 255, A: 255}},
		},
		Density:       40,
		Bounds:        life.Bounds{Width: 400, Height: 300},
		ParticleSize:  2,
		MaxGravity:    2,
		MaxDistance:   160,
		MinSeparation: 10,
		Friction:      0.5,
		RoundRobin:    2,
		InitialSpeed:  25,
		TickRate:      30,
		InitialTick:   1,
	}
}

func positions(w *life.World) []r2.Vec {
	var out []r2.Vec
	for s := range w.Snapshot().All() {
		out = append(out, s.Pos)
	}
	return out
}

// placePentagon puts the particles of group g on a regular pentagon.
func placePentagon(w *life.World, g int, center r2.Vec, radius float64) {
	for k := range w.Store().SizeOf(g) {
		a := 2 * math.Pi * float64(k) / 5
		p := w.Store().At(g, k)
		p.Pos = r2.Add(center, r2.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)})
		p.Vel = r2.Vec{}
	}
}

func meanDistance(w *life.World, g int, center r2.Vec) float64 {
	var sum float64
	n := 0
	for _, p := range w.Store().Particles(g) {
		sum += r2.Norm(r2.Sub(p.Pos, center))
		n++
	}
	return sum / float64(n)
}

var _ = Describe("World", func() {
	Describe("construction", func() {
		It("starts at the configured initial tick", func() {
			w, err := life.New(baseConfig(), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Tick()).To(Equal(uint64(1)))
			Expect(w.Store().Len()).To(Equal(160))
			Expect(w.Relations()).To(HaveLen(16))
		})

		It("is deterministic for a fixed seed", func() {
			a, err := life.New(baseConfig(), 42)
			Expect(err).NotTo(HaveOccurred())
			b, err := life.New(baseConfig(), 42)
			Expect(err).NotTo(HaveOccurred())

			for range 20 {
				a.Step()
				b.Step()
			}
			Expect(positions(a)).To(Equal(positions(b)))
			Expect(a.Relations()).To(Equal(b.Relations()))
		})

		It("rejects a configuration without groups", func() {
			cfg := baseConfig()
			cfg.Groups = nil
			_, err := life.New(cfg, 1)
			Expect(err).To(MatchError(life.ErrNoGroups))
		})

		DescribeTable("rejects out-of-range values",
			func(mutate func(*life.Config)) {
				cfg := baseConfig()
				mutate(&cfg)
				_, err := life.New(cfg, 1)
				Expect(err).To(MatchError(life.ErrInvalidConfig))

				var cerr *life.ConfigError
				Expect(errors.As(err, &cerr)).To(BeTrue())
				Expect(cerr.Field).NotTo(BeEmpty())
			},
			Entry("zero density", func(c *life.Config) { c.Density = 0 }),
			Entry("negative width", func(c *life.Config) { c.Bounds.Width = -1 }),
			Entry("friction of one", func(c *life.Config) { c.Friction = 1 }),
			Entry("negative friction", func(c *life.Config) { c.Friction = -0.1 }),
			Entry("NaN gravity", func(c *life.Config) { c.MaxGravity = math.NaN() }),
			Entry("zero tick rate", func(c *life.Config) { c.TickRate = 0 }),
			Entry("negative round robin", func(c *life.Config) { c.RoundRobin = -2 }),
			Entry("unknown boundary", func(c *life.Config) { c.Boundary = "torus" }),
			Entry("unknown sign mode", func(c *life.Config) { c.SignMode = "flip" }),
			Entry("particle larger than world", func(c *life.Config) { c.ParticleSize = 500 }),
		)

		It("rejects a relation table of the wrong size", func() {
			_, err := life.NewWithRelations(baseConfig(), 1, make(life.Relations, 9))
			Expect(err).To(MatchError(life.ErrRelationSize))
		})
	})

	Describe("Step", func() {
		It("advances the tick by exactly one", func() {
			w, err := life.New(baseConfig(), 3)
			Expect(err).NotTo(HaveOccurred())
			for i := range 5 {
				Expect(w.Tick()).To(Equal(uint64(1 + i)))
				w.Step()
			}
			Expect(w.Tick()).To(Equal(uint64(6)))
		})

		DescribeTable("keeps every particle inside the world",
			func(kind life.BoundaryKind) {
				cfg := baseConfig()
				cfg.Boundary = kind
				cfg.Friction = 0.05
				cfg.InitialSpeed = 120
				w, err := life.New(cfg, 11)
				Expect(err).NotTo(HaveOccurred())

				for range 150 {
					w.Step()
					for s := range w.Snapshot().All() {
						Expect(cfg.Bounds.Contains(s.Pos)).To(BeTrue(), "sprite %d at %v", s.ID, s.Pos)
					}
				}
			},
			Entry("wrap", life.BoundaryWrap),
			Entry("clamp", life.BoundaryClamp),
		)

		It("decays velocity geometrically when nothing interacts", func() {
			cfg := baseConfig()
			cfg.Friction = 0.5
			w, err := life.NewWithRelations(cfg, 5, life.Uniform(4, life.RelationEntry{}))
			Expect(err).NotTo(HaveOccurred())

			before := w.Store().At(2, 7).Vel
			w.Step()
			after := w.Store().At(2, 7).Vel
			Expect(after.X).To(BeNumerically("~", before.X*0.5, 1e-12))
			Expect(after.Y).To(BeNumerically("~", before.Y*0.5, 1e-12))
		})

		It("contracts an attracting pentagon and expands a repelling one", func() {
			cfg := baseConfig()
			cfg.Groups = cfg.Groups[:2]
			cfg.Density = 5
			cfg.Bounds = life.Bounds{Width: 100, Height: 100}
			cfg.Friction = 0
			cfg.RoundRobin = 0
			cfg.MinSeparation = 1

			rel := life.Uniform(2, life.RelationEntry{})
			rel.Set(2, 0, 0, life.RelationEntry{Gravity: 1, MaxDistance: 1000})
			rel.Set(2, 1, 1, life.RelationEntry{Gravity: -1, MaxDistance: 1000})

			w, err := life.NewWithRelations(cfg, 1, rel)
			Expect(err).NotTo(HaveOccurred())

			left, right := r2.Vec{X: 30, Y: 50}, r2.Vec{X: 70, Y: 50}
			placePentagon(w, 0, left, 10)
			placePentagon(w, 1, right, 10)

			w.Step()

			// sum of unit vectors from one vertex to the other four
			pull := 2*math.Cos(54*math.Pi/180) + 2*math.Cos(18*math.Pi/180)
			Expect(meanDistance(w, 0, left)).To(BeNumerically("~", 10-pull, 1e-9))
			Expect(meanDistance(w, 1, right)).To(BeNumerically("~", 10+pull, 1e-9))
		})

		It("is independent of the execution backend", func() {
			cfg := baseConfig()
			serial, err := life.New(cfg, 21)
			Expect(err).NotTo(HaveOccurred())
			serial.SetBackend(compute.Serial{})

			parallel, err := life.New(cfg, 21)
			Expect(err).NotTo(HaveOccurred())
			parallel.SetBackend(compute.NewPool(4))

			for range 30 {
				serial.Step()
				parallel.Step()
			}
			Expect(positions(parallel)).To(Equal(positions(serial)))
		})
	})

	Describe("Reshuffle", func() {
		It("redraws positions and relations but keeps groups and velocities", func() {
			w, err := life.New(baseConfig(), 8)
			Expect(err).NotTo(HaveOccurred())
			w.Step()

			relBefore := w.Relations()
			posBefore := positions(w)
			velBefore := w.Store().At(1, 3).Vel
			tick := w.Tick()
			groups := w.Store().GroupCount()
			sizes := make([]int, groups)
			for g := range groups {
				sizes[g] = w.Store().SizeOf(g)
			}

			w.Reshuffle()

			Expect(w.Relations()).NotTo(Equal(relBefore))
			Expect(positions(w)).NotTo(Equal(posBefore))
			Expect(w.Store().At(1, 3).Vel).To(Equal(velBefore))
			Expect(w.Store().Len()).To(Equal(160))
			Expect(w.Tick()).To(Equal(tick))
			Expect(w.Store().GroupCount()).To(Equal(groups))
			for g := range groups {
				Expect(w.Store().SizeOf(g)).To(Equal(sizes[g]))
			}

			for _, e := range w.Relations() {
				Expect(e.MaxDistance).To(BeNumerically(">=", 0))
				Expect(e.MaxDistance).To(BeNumerically("<", 160))
				Expect(math.Abs(e.Gravity)).To(BeNumerically("<=", 1))
			}
		})
	})

	Describe("Snapshot", func() {
		It("is a deep copy", func() {
			w, err := life.New(baseConfig(), 2)
			Expect(err).NotTo(HaveOccurred())

			snap := w.Snapshot()
			first := snap.Sprites[0]
			w.Step()
			Expect(snap.Sprites[0]).To(Equal(first))
			Expect(snap.Tick).To(Equal(uint64(1)))
		})

		It("carries every sprite with its group colour", func() {
			cfg := baseConfig()
			w, err := life.New(cfg, 2)
			Expect(err).NotTo(HaveOccurred())

			snap := w.Snapshot()
			Expect(snap.Len()).To(Equal(160))
			count := 0
			for s := range snap.Group(3) {
				Expect(s.Color).To(Equal(cfg.Groups[3].Color))
				count++
			}
			Expect(count).To(Equal(40))
		})

		It("can be ranged without binding the snapshot", func() {
			w, err := life.New(baseConfig(), 2)
			Expect(err).NotTo(HaveOccurred())

			Expect(w.Snapshot().Len()).To(Equal(160))
			count := 0
			for range w.Snapshot().Group(0) {
				count++
			}
			Expect(count).To(Equal(40))
		})

		It("reuses a large enough buffer", func() {
			w, err := life.New(baseConfig(), 2)
			Expect(err).NotTo(HaveOccurred())

			buf := w.Snapshot()
			ptr := &buf.Sprites[0]
			w.Step()
			next := w.SnapshotInto(buf)
			Expect(&next.Sprites[0]).To(BeIdenticalTo(ptr))
			Expect(next.Tick).To(Equal(uint64(2)))
		})
	})
})
