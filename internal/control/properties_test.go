package control_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/songsen/servoM8/internal/control"
	"github.com/songsen/servoM8/internal/registers"
)

type ipdCase struct {
	pGain, dGain, iGain uint16
	min, max, seek      uint16
	previous, position  int16
}

func randomCase(rng *rand.Rand) ipdCase {
	return ipdCase{
		pGain:    uint16(rng.Intn(0x1000)),
		dGain:    uint16(rng.Intn(0x1000)),
		iGain:    uint16(rng.Intn(0x10000)),
		min:      uint16(rng.Intn(1024)),
		max:      uint16(rng.Intn(1024)),
		seek:     uint16(rng.Intn(1024)),
		previous: int16(rng.Intn(1024)),
		position: int16(rng.Intn(1024)),
	}
}

// run primes a fresh controller with c.previous and returns the output for
// c.position.
func (c ipdCase) run(reverse bool) (int16, *control.IPD, *registers.Table) {
	regs := registers.NewTable()
	ipd := control.NewIPD(regs)
	ipd.Init()
	ipd.LoadDefaults()

	// Prime with zero gains so only the remembered position changes.
	regs.SetWord(registers.PositionGain, 0)
	regs.SetWord(registers.VelocityGain, 0)
	regs.SetWord(registers.IntegralGain, 0)
	ipd.PositionToPWM(c.previous)

	regs.SetWord(registers.PositionGain, c.pGain)
	regs.SetWord(registers.VelocityGain, c.dGain)
	regs.SetWord(registers.IntegralGain, c.iGain)
	regs.SetWord(registers.MinSeek, c.min)
	regs.SetWord(registers.MaxSeek, c.max)
	regs.SetWord(registers.SeekPosition, c.seek)
	if reverse {
		regs.SetByte(registers.RegReverseSeek, 1)
	}
	return ipd.PositionToPWM(c.position), ipd, regs
}

var _ = Describe("IPD", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	It("keeps every output inside the drive range", func() {
		for i := 0; i < 2000; i++ {
			c := randomCase(rng)
			out, _, _ := c.run(rng.Intn(2) == 1)
			Expect(out).To(BeNumerically(">=", -255), "%+v", c)
			Expect(out).To(BeNumerically("<=", 255), "%+v", c)
		}
	})

	It("ignores errors inside the deadband", func() {
		for i := 0; i < 500; i++ {
			c := randomCase(rng)
			c.min, c.max = 0x60, 0x3A0
			c.position = int16(0x60 + 2 + rng.Intn(0x3A0-0x60-4))
			c.seek = uint16(c.position + int16(rng.Intn(5)) - 2)
			c.pGain, c.dGain = 0, 0

			out, ipd, _ := c.run(false)
			Expect(out).To(BeZero(), "%+v", c)
			Expect(ipd.Integral()).To(BeZero(), "%+v", c)
		}
	})

	It("leaves an in-range seek untouched", func() {
		for i := 0; i < 500; i++ {
			c := randomCase(rng)
			c.min, c.max = 0x60, 0x3A0
			c.seek = uint16(0x60 + rng.Intn(0x3A0-0x60+1))

			want, _, _ := c.run(false)

			wide := c
			wide.min, wide.max = 0, 1023
			got, _, _ := wide.run(false)
			Expect(got).To(Equal(want), "%+v", c)
		}
	})

	It("stays pinned at the bound once saturated", func() {
		saturated := 0
		for i := 0; i < 1000; i++ {
			c := randomCase(rng)
			c.previous = c.position
			out, ipd, regs := c.run(false)
			if out != 255 && out != -255 {
				continue
			}
			saturated++
			// freeze the integral so only the reset value acts
			regs.SetWord(registers.IntegralGain, 0)
			Expect(ipd.PositionToPWM(c.position)).To(Equal(out), "%+v", c)
		}
		Expect(saturated).To(BeNumerically(">", 0))
	})

	It("matches a forward run with mirrored registers when reversed", func() {
		for i := 0; i < 1000; i++ {
			c := randomCase(rng)
			reversed, _, regs := c.run(true)

			mirrored := c
			mirrored.min = 1023 - c.min
			mirrored.max = 1023 - c.max
			mirrored.seek = 1023 - c.seek
			forward, _, _ := mirrored.run(false)

			Expect(reversed).To(Equal(forward), "%+v", c)
			Expect(regs.Word(registers.Position)).To(Equal(uint16(1023 - c.position)))
		}
	})
})

var _ = Describe("Accumulator", func() {
	It("exposes the upper half as the integral", func() {
		var a control.Accumulator
		a.Update(3, 0x8000)
		Expect(a.Get()).To(Equal(int16(1)))
		Expect(a.Raw()).To(Equal(int32(3 * 0x8000)))
	})

	It("floors negative sums", func() {
		var a control.Accumulator
		a.Update(-1, 1)
		Expect(a.Get()).To(Equal(int16(-1)))
	})

	It("discards the fraction on reset", func() {
		var a control.Accumulator
		a.Update(5, 0x3333)
		a.ResetTo(-42)
		Expect(a.Get()).To(Equal(int16(-42)))
		Expect(a.Raw()).To(Equal(int32(-42) << 16))
	})
})
