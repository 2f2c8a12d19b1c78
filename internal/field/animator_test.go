package field_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particlefield/internal/field"
	"github.com/san-kum/particlefield/internal/field/headless"
)

// leakyScheduler never forgets a callback, even a cancelled one.
type leakyScheduler struct {
	fns []func()
}

func (s *leakyScheduler) RequestFrame(fn func()) field.FrameID {
	s.fns = append(s.fns, fn)
	return field.FrameID(len(s.fns))
}

func (s *leakyScheduler) CancelFrame(field.FrameID) {}

func (s *leakyScheduler) runAll() {
	fns := s.fns
	s.fns = nil
	for _, fn := range fns {
		fn()
	}
}

type leakyHost struct {
	*headless.Host
	sched *leakyScheduler
}

func (h leakyHost) Scheduler() field.Scheduler { return h.sched }

var _ = Describe("Animator", func() {
	var (
		host *headless.Host
		pal  field.Palette
	)

	BeforeEach(func() {
		host = headless.NewHost(800, 600)
		pal = field.MustPalette("#FF0000", "#00FF00")
	})

	mount := func(mode field.Mode, opts ...field.Option) *field.Animator {
		opts = append([]field.Option{field.WithMode(mode), field.WithPalette(pal), field.WithSeed(7)}, opts...)
		a := field.New(opts...)
		a.Mount(host)
		return a
	}

	Describe("pool size", func() {
		DescribeTable("stays fixed for the whole lifetime",
			func(mode field.Mode, want int) {
				a := mount(mode)
				Expect(a.Pool()).To(HaveLen(want))
				for i := 0; i < 500; i++ {
					host.Frames(1)
					Expect(a.Pool()).To(HaveLen(want))
				}
			},
			Entry("dna", field.ModeDNA, 100),
			Entry("molecules", field.ModeMolecules, 100),
			Entry("network", field.ModeNetwork, 50),
			Entry("unknown", field.Mode("sparkles"), 100),
		)
	})

	It("spreads a fresh pool across the surface", func() {
		a := mount(field.ModeDNA)
		for _, p := range a.Pool() {
			Expect(p.Y).To(BeNumerically(">=", 0))
			Expect(p.Y).To(BeNumerically("<", 600))
			Expect(p.Age).To(BeNumerically("<", field.MaxSpawnAge))
			Expect(pal.Contains(p.Color)).To(BeTrue())
		}
	})

	It("never leaves a particle below the recycle margin after a frame", func() {
		var a *field.Animator
		violations := 0
		a = mount(field.ModeMolecules, field.WithObserver(field.ObserverFunc(func(field.FrameStats) {
			for _, p := range a.Pool() {
				if p.Y > 600+field.RecycleMargin {
					violations++
				}
			}
		})))
		host.Frames(2000)
		Expect(violations).To(BeZero())
		Expect(a.Frame()).To(BeEquivalentTo(2000))
	})

	It("resets every field of a recycled particle", func() {
		var a *field.Animator
		recycled := 0
		a = mount(field.ModeDNA, field.WithObserver(field.ObserverFunc(func(st field.FrameStats) {
			seen := 0
			for _, p := range a.Pool() {
				if p.Age != 0 {
					continue
				}
				seen++
				Expect(p.Y).To(Equal(-field.RecycleMargin))
				Expect(p.Speed).To(BeNumerically(">=", field.MinSpeed))
				Expect(p.Speed).To(BeNumerically("<", field.MaxSpeed))
				Expect(p.Size).To(BeNumerically(">=", field.MinSize))
				Expect(p.Size).To(BeNumerically("<", field.MaxSize))
				Expect(p.Opacity).To(BeNumerically(">=", field.MinOpacity))
				Expect(p.Opacity).To(BeNumerically("<", field.MaxOpacity))
				Expect(pal.Contains(p.Color)).To(BeTrue())
			}
			Expect(seen).To(Equal(st.Recycled))
			recycled += st.Recycled
		})))
		host.Frames(1500)
		Expect(recycled).To(BeNumerically(">", 0))
	})

	It("moves unknown modes straight down and draws plain dots", func() {
		a := mount(field.Mode("sparkles"))
		before := a.Pool()
		host.Frames(1)
		after := a.Pool()
		for i := range after {
			if after[i].Age == 0 {
				continue
			}
			Expect(after[i].X).To(Equal(before[i].X))
			Expect(after[i].Y).To(BeNumerically("~", before[i].Y+before[i].Speed, 1e-9))
		}
		Expect(host.Surf.Lines).To(BeZero())
		Expect(host.Surf.Circles).To(Equal(100))
	})

	Describe("teardown", func() {
		It("is idempotent and stops all drawing", func() {
			a := mount(field.ModeNetwork)
			host.Frames(3)
			Expect(host.View.Listeners()).To(Equal(1))

			a.Unmount()
			Expect(func() { a.Unmount() }).NotTo(Panic())

			clears, draws := host.Surf.Clears, host.Surf.Draws()
			Expect(host.Frames(10)).To(BeZero())
			Expect(host.Queue.Len()).To(BeZero())
			Expect(host.Surf.Clears).To(Equal(clears))
			Expect(host.Surf.Draws()).To(Equal(draws))
			Expect(host.View.Listeners()).To(BeZero())
			Expect(a.State()).To(Equal(field.Stopped))
		})

		It("ignores a frame that was already queued when it stopped", func() {
			lh := leakyHost{Host: host, sched: &leakyScheduler{}}
			a := field.New(field.WithMode(field.ModeDNA), field.WithPalette(pal), field.WithSeed(1))
			a.Mount(lh)
			lh.sched.runAll()
			Expect(host.Surf.Clears).To(Equal(1))

			a.Unmount()
			lh.sched.runAll()
			lh.sched.runAll()
			Expect(host.Surf.Clears).To(Equal(1))
			Expect(lh.sched.fns).To(BeEmpty())
		})

		It("can be unmounted from inside an observer", func() {
			var a *field.Animator
			a = mount(field.ModeDNA, field.WithObserver(field.ObserverFunc(func(st field.FrameStats) {
				if st.Frame == 2 {
					a.Unmount()
				}
			})))
			host.Frames(5)
			Expect(host.Surf.Clears).To(Equal(2))
			Expect(host.Queue.Len()).To(BeZero())
		})
	})

	It("stays stopped when the host has no surface", func() {
		host.Surf = nil
		a := mount(field.ModeDNA)
		Expect(a.State()).To(Equal(field.Stopped))
		Expect(a.Pool()).To(BeEmpty())
		Expect(host.Queue.Len()).To(BeZero())
		Expect(host.View.Listeners()).To(BeZero())
	})

	Describe("resize", func() {
		It("updates the surface without touching particles", func() {
			a := mount(field.ModeDNA)
			before := a.Pool()
			host.View.Resize(400, 300)
			Expect(host.Surf.Width).To(Equal(400))
			Expect(host.Surf.Height).To(Equal(300))
			Expect(a.Pool()).To(Equal(before))
		})

		It("self-corrects through recycling", func() {
			a := mount(field.ModeDNA)
			host.View.Resize(400, 300)
			host.Frames(1)
			for _, p := range a.Pool() {
				Expect(p.Y).To(BeNumerically("<=", 300+field.RecycleMargin))
			}
		})
	})

	It("rebuilds the pool on reconfigure", func() {
		a := mount(field.ModeDNA)
		host.Frames(5)
		a.Reconfigure(field.ModeNetwork, field.MustPalette("#0000FF"))

		Expect(a.State()).To(Equal(field.Running))
		Expect(a.Pool()).To(HaveLen(50))
		Expect(host.Queue.Len()).To(Equal(1))
		Expect(host.View.Listeners()).To(Equal(1))
		for _, p := range a.Pool() {
			Expect(p.Color.String()).To(Equal("#0000FF"))
		}
	})

	It("animates but draws nothing with an empty palette", func() {
		a := field.New(field.WithMode(field.ModeMolecules), field.WithPalette(nil), field.WithSeed(3))
		a.Mount(host)
		host.Frames(20)
		Expect(a.Pool()).To(HaveLen(100))
		Expect(host.Surf.Clears).To(Equal(20))
		Expect(host.Surf.Draws()).To(BeZero())
	})

	It("balances every save with a restore", func() {
		mount(field.ModeMolecules)
		host.Frames(50)
		Expect(host.Surf.Depth()).To(BeZero())
	})

	Describe("network mode", func() {
		It("links particles symmetrically", func() {
			a := mount(field.ModeNetwork)
			host.Frames(10)
			pool := a.Pool()
			for i := range pool {
				for j := range pool {
					Expect(field.Linked(pool[i], pool[j])).To(Equal(field.Linked(pool[j], pool[i])))
				}
			}
		})

		It("fades links with distance", func() {
			mount(field.ModeNetwork)
			host.Frames(10)
			Expect(host.Surf.Lines).To(BeNumerically(">", 0))
			for _, alpha := range host.Surf.Alphas {
				Expect(alpha).To(BeNumerically(">", 0))
				Expect(alpha).To(BeNumerically("<", field.MaxOpacity))
			}
		})
	})

	It("is deterministic for a fixed seed", func() {
		other := headless.NewHost(800, 600)
		a := mount(field.ModeNetwork)
		b := field.New(field.WithMode(field.ModeNetwork), field.WithPalette(pal), field.WithSeed(7))
		b.Mount(other)

		host.Frames(100)
		other.Frames(100)
		Expect(a.Pool()).To(Equal(b.Pool()))
		Expect(host.Surf.Lines).To(Equal(other.Surf.Lines))
	})

	It("ages every particle by one on the first frame", func() {
		host = headless.NewHost(800, 600)
		a := field.New(field.WithMode(field.ModeDNA), field.WithPalette(field.MustPalette("#FF0000")), field.WithSeed(99))
		a.Mount(host)
		before := a.Pool()
		Expect(before).To(HaveLen(100))

		host.Frames(1)
		after := a.Pool()
		Expect(after).To(HaveLen(100))
		for i := range after {
			Expect(after[i].Age).To(Equal(before[i].Age + 1))
			Expect(after[i].Color.String()).To(Equal("#FF0000"))
		}
		Expect(host.Surf.Colors).To(HaveKeyWithValue("#FF0000", 100))
	})
})
