package fluid_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/geometry"
)

const boatID engine.BodyID = 1

var _ = Describe("Transfer", func() {
	var (
		sys      *fluid.System
		boatY    float64
		position func(engine.BodyID) mgl64.Vec2
	)

	// Pool area 20, boat hull displacement 2, interior area 1.44.
	setup := func(poolVolume, boatVolume float64) {
		var err error
		sys, err = fluid.NewSystem(
			dynamo.Bounds{MinX: -5, MaxX: 5, MinY: 0, MaxY: 4, Depth: 2},
			poolVolume, fluid.DefaultTuning(), &dynamo.Ratio{})
		Expect(err).NotTo(HaveOccurred())

		hull := geometry.Boat{W: 2, H: 1, D: 1, Wall: 0.1}
		Expect(sys.Add(fluid.NewBody(boatID, "boat", hull, 300, sys.Ratio()), boatVolume)).To(Succeed())

		position = func(engine.BodyID) mgl64.Vec2 { return mgl64.Vec2{0, boatY} }
		sys.Prime(position)
	}

	Context("when a boat holding fluid floats steadily", func() {
		BeforeEach(func() {
			boatY = 1.5
			setup(29, 0.2)
		})

		It("keeps its fluid", func() {
			Expect(sys.Pool.Height.Current()).To(BeNumerically("~", 1.5, 1e-9))
			for i := 0; i < 50; i++ {
				sys.Update(position)
				Expect(sys.Draining()).To(BeFalse())
			}
			Expect(sys.Child.FluidVolume).To(Equal(0.2))
			Expect(sys.Pool.FluidVolume).To(Equal(29.0))
		})
	})

	Context("when a boat holding fluid is lifted clear of the surface", func() {
		BeforeEach(func() {
			boatY = 2.5
			setup(29, 0.5)
		})

		It("drains a fixed share of the hull per sub-step", func() {
			Expect(sys.Pool.Height.Current()).To(BeNumerically("~", 1.45, 1e-9))

			prev := sys.Child.FluidVolume
			for i := 0; i < 25; i++ {
				pool := sys.Pool.FluidVolume
				sys.Update(position)

				Expect(sys.Draining()).To(BeTrue())
				Expect(sys.Child.FluidVolume).To(BeNumerically("<", prev))
				Expect(prev - sys.Child.FluidVolume).To(BeNumerically("~", 0.02, 1e-12))
				Expect(sys.Pool.FluidVolume - pool).To(BeNumerically("~", 0.02, 1e-12))
				prev = sys.Child.FluidVolume
			}
			Expect(sys.Child.FluidVolume).To(BeNumerically("~", 0, 1e-12))
			Expect(sys.TotalVolume()).To(BeNumerically("~", 29.5, 1e-9))
		})

		It("stops draining once the boat is empty", func() {
			for i := 0; i < 30; i++ {
				sys.Update(position)
			}
			Expect(sys.Draining()).To(BeFalse())
			Expect(sys.Child.FluidVolume).To(BeNumerically("~", 0, 1e-12))
			Expect(sys.Child.Height.Current()).To(BeNumerically("~", sys.Child.Bounds().MinY, 1e-9))
		})
	})

	Context("when the pool overtops an empty boat", func() {
		BeforeEach(func() {
			boatY = 0.7
			setup(28, 0)
		})

		It("fills the boat to its rim in one sub-step and conserves volume", func() {
			sys.Update(position)

			Expect(sys.Child.FluidVolume).To(BeNumerically("~", 1.296, 1e-9))
			Expect(sys.Pool.FluidVolume).To(BeNumerically("~", 28-1.296, 1e-9))
			Expect(sys.TotalVolume()).To(BeNumerically("~", 28, 1e-9))
			Expect(sys.Child.Height.Current()).To(BeNumerically("~", 1.2, 1e-6))
		})

		It("leaves a full boat alone", func() {
			sys.Update(position)
			child := sys.Child.FluidVolume
			for i := 0; i < 10; i++ {
				sys.Update(position)
			}
			Expect(sys.Child.FluidVolume).To(Equal(child))
			Expect(sys.Spilled).To(BeZero())
		})
	})

	Context("when the pool overtops a partly filled boat", func() {
		BeforeEach(func() {
			boatY = 0.7
			setup(27.7, 0.3)
		})

		It("fills at the transfer rate", func() {
			for i := 0; i < 10; i++ {
				boat := sys.Child.FluidVolume
				sys.Update(position)

				Expect(sys.Draining()).To(BeFalse())
				Expect(sys.Child.FluidVolume - boat).To(BeNumerically("~", 0.02, 1e-12))
			}
			Expect(sys.Child.FluidVolume).To(BeNumerically("~", 0.5, 1e-9))
			Expect(sys.TotalVolume()).To(BeNumerically("~", 28, 1e-9))
		})
	})

	Context("when the boat is removed", func() {
		BeforeEach(func() {
			boatY = 1.5
			setup(29, 0.5)
		})

		It("returns its fluid to the pool", func() {
			Expect(sys.Remove(boatID)).To(Succeed())
			Expect(sys.Child).To(BeNil())
			Expect(sys.Pool.FluidVolume).To(BeNumerically("~", 29.5, 1e-12))
		})
	})
})
