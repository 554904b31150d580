package gtx8

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/gtx8/gtx8test"
)

// supply records Enable/Disable calls into a shared log.
type supply struct {
	name      string
	log       *[]string
	enableErr error
}

func (s *supply) Enable() error {
	*s.log = append(*s.log, s.name+" on")
	return s.enableErr
}

func (s *supply) Disable() error {
	*s.log = append(*s.log, s.name+" off")
	return nil
}

func supplies() (*supply, *supply, *[]string) {
	var log []string
	return &supply{name: "vddio", log: &log}, &supply{name: "avdd", log: &log}, &log
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{PoweredOff, "PoweredOff"},
		{PoweredOn, "PoweredOn"},
		{Confirmed, "Confirmed"},
		{VersionRead, "VersionRead"},
		{Ready, "Ready"},
		{Failed, "Failed"},
		{State(42), "State(42)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestBringUp(t *testing.T) {
	vddio, avdd, log := supplies()
	rst := &gpiotest.Pin{N: "RST", L: gpio.High}
	sim := simFor(GT9886, "9886")

	d, slept, err := newTestDev(t, sim, &Opts{VDDIO: vddio, AVDD: avdd, RST: rst})
	if err != nil {
		t.Fatalf("bring-up error = %v", err)
	}
	if d.State() != Ready {
		t.Errorf("State() = %v, want Ready", d.State())
	}
	if want := []string{"vddio on", "avdd on"}; !equalStrings(*log, want) {
		t.Errorf("supplies = %v, want %v", *log, want)
	}
	if rst.Read() != gpio.High {
		t.Error("reset should be released (high)")
	}
	if want := []time.Duration{powerOnDelay, resetDelay, normalResetDelay}; !equalDurations(slept, want) {
		t.Errorf("sleeps = %v, want %v", slept, want)
	}
	if want := (gtx8test.Read{Reg: GT9886.TouchDataAddr, Len: 1}); sim.Reads[0] != want {
		t.Errorf("confirm read = %+v, want %+v", sim.Reads[0], want)
	}
	if want := (gtx8test.Read{Reg: GT9886.FWVersionAddr, Len: 12}); sim.Reads[1] != want {
		t.Errorf("version read = %+v, want %+v", sim.Reads[1], want)
	}
	v := d.Version()
	if string(v.ProductID[:]) != "9886" || v.FWVersion != [4]byte{1, 2, 3, 4} {
		t.Errorf("Version() = %+v", v)
	}
}

func TestConfirmRetry(t *testing.T) {
	sim := simFor(GT9896, "9896")
	sim.FailReads = 2

	d, slept, err := newTestDev(t, sim, &Opts{Profile: GT9896})
	if err != nil {
		t.Fatalf("bring-up error = %v", err)
	}
	if d.State() != Ready {
		t.Errorf("State() = %v, want Ready", d.State())
	}
	want := []time.Duration{powerOnDelay, resetDelay, confirmDelay, confirmDelay, normalResetDelay}
	if !equalDurations(slept, want) {
		t.Errorf("sleeps = %v, want %v", slept, want)
	}
	// 3 confirm attempts then the version read.
	if len(sim.Reads) != 4 {
		t.Errorf("reads = %+v", sim.Reads)
	}
}

func TestConfirmStopsAtConfirmed(t *testing.T) {
	sim := simFor(GT9886, "9886")
	sim.FailReads = 2
	d, err := newDev(&i2c.Dev{Bus: sim, Addr: DefaultAddr}, &Opts{})
	if err != nil {
		t.Fatal(err)
	}
	d.sleep = func(time.Duration) {}
	if err := d.powerOn(); err != nil {
		t.Fatalf("powerOn() error = %v", err)
	}
	if d.state != Confirmed {
		t.Errorf("state = %v, want Confirmed", d.state)
	}
}

func TestConfirmExhausted(t *testing.T) {
	vddio, avdd, log := supplies()
	rst := &gpiotest.Pin{N: "RST"}
	sim := simFor(GT9886, "9886")
	sim.FailReads = 3

	d, _, err := newTestDev(t, sim, &Opts{VDDIO: vddio, AVDD: avdd, RST: rst})
	if err == nil {
		t.Fatal("bring-up should fail")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("error = %v, want wrapped transport error", err)
	}
	if d.State() != Failed {
		t.Errorf("State() = %v, want Failed", d.State())
	}
	if want := []string{"vddio on", "avdd on", "avdd off", "vddio off"}; !equalStrings(*log, want) {
		t.Errorf("supplies = %v, want %v", *log, want)
	}
	if rst.Read() != gpio.Low {
		t.Error("reset should be asserted (low)")
	}
	if len(sim.Reads) != 3 {
		t.Errorf("reads = %+v, want 3 confirm attempts", sim.Reads)
	}
}

func TestAVDDFailure(t *testing.T) {
	vddio, avdd, log := supplies()
	avdd.enableErr = errors.New("regulator fault")
	sim := simFor(GT9886, "9886")

	d, _, err := newTestDev(t, sim, &Opts{VDDIO: vddio, AVDD: avdd})
	var pe *PowerError
	if !errors.As(err, &pe) || pe.Supply != "avdd" || pe.Op != "enable" {
		t.Fatalf("error = %v, want avdd power error", err)
	}
	if want := []string{"vddio on", "avdd on", "vddio off"}; !equalStrings(*log, want) {
		t.Errorf("supplies = %v, want %v", *log, want)
	}
	if d.State() != Failed {
		t.Errorf("State() = %v, want Failed", d.State())
	}
	if len(sim.Reads) != 0 {
		t.Errorf("reads = %+v, bus must not be touched", sim.Reads)
	}
}

func TestProductIDMismatch(t *testing.T) {
	vddio, avdd, log := supplies()
	sim := simFor(GT9886, "9887")

	d, _, err := newTestDev(t, sim, &Opts{VDDIO: vddio, AVDD: avdd})
	var pe *ProductIDError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want product id error", err)
	}
	if string(pe.Actual[:]) != "9887" || string(pe.Expected[:]) != "9886" {
		t.Errorf("ProductIDError = %+v", pe)
	}
	if !errors.Is(err, ErrProtocol) {
		t.Error("product id error should match ErrProtocol")
	}
	if d.State() != Failed {
		t.Errorf("State() = %v, want Failed", d.State())
	}
	if want := []string{"vddio on", "avdd on", "avdd off", "vddio off"}; !equalStrings(*log, want) {
		t.Errorf("supplies = %v, want %v", *log, want)
	}
	if _, err := d.Poll(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Poll() error = %v, want ErrNotReady", err)
	}
}

func TestSuspendResume(t *testing.T) {
	vddio, avdd, log := supplies()
	rst := &gpiotest.Pin{N: "RST"}
	sim := simFor(GT9886, "9886")
	d, _, err := newTestDev(t, sim, &Opts{VDDIO: vddio, AVDD: avdd, RST: rst})
	if err != nil {
		t.Fatal(err)
	}
	*log = nil
	sim.Reset()

	if err := d.Suspend(); err != nil {
		t.Fatalf("Suspend() error = %v", err)
	}
	if d.State() != PoweredOff {
		t.Errorf("State() = %v, want PoweredOff", d.State())
	}
	if rst.Read() != gpio.Low {
		t.Error("reset should be asserted while suspended")
	}
	if want := []string{"avdd off", "vddio off"}; !equalStrings(*log, want) {
		t.Errorf("supplies = %v, want %v", *log, want)
	}
	if _, err := d.Poll(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Poll() while suspended error = %v", err)
	}
	if len(sim.Reads) != 0 {
		t.Errorf("reads while suspended = %+v", sim.Reads)
	}

	if err := d.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if d.State() != Ready {
		t.Errorf("State() = %v, want Ready", d.State())
	}
	if len(sim.Reads) != 2 || sim.Reads[1].Reg != GT9886.FWVersionAddr {
		t.Errorf("resume reads = %+v, want confirm and version", sim.Reads)
	}
	if err := d.Resume(); err != nil {
		t.Errorf("Resume() on a ready device error = %v", err)
	}
}

func TestResumeAfterFailure(t *testing.T) {
	sim := simFor(GT9886, "9886")
	sim.FailReads = 3
	d, _, err := newTestDev(t, sim, &Opts{})
	if err == nil {
		t.Fatal("bring-up should fail")
	}
	if err := d.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if d.State() != Ready {
		t.Errorf("State() = %v, want Ready", d.State())
	}
}

func TestHalt(t *testing.T) {
	d, _ := mustDev(t, GT9896)
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if d.State() != PoweredOff {
		t.Errorf("State() = %v, want PoweredOff", d.State())
	}
}

func TestResetActiveHigh(t *testing.T) {
	rst := &gpiotest.Pin{N: "RST"}
	sim := simFor(GT9886, "9886")
	d, _, err := newTestDev(t, sim, &Opts{RST: rst, ResetActiveHigh: true})
	if err != nil {
		t.Fatal(err)
	}
	if rst.Read() != gpio.Low {
		t.Error("active-high reset should be released low")
	}
	d.Suspend()
	if rst.Read() != gpio.High {
		t.Error("active-high reset should be asserted high")
	}
}

func TestPinRegulator(t *testing.T) {
	tests := []struct {
		name      string
		activeLow bool
		on, off   gpio.Level
	}{
		{"active high", false, gpio.High, gpio.Low},
		{"active low", true, gpio.Low, gpio.High},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &gpiotest.Pin{N: "EN"}
			r := &PinRegulator{Pin: p, ActiveLow: tt.activeLow}
			if err := r.Enable(); err != nil {
				t.Fatal(err)
			}
			if p.Read() != tt.on {
				t.Errorf("enabled level = %v, want %v", p.Read(), tt.on)
			}
			if err := r.Disable(); err != nil {
				t.Fatal(err)
			}
			if p.Read() != tt.off {
				t.Errorf("disabled level = %v, want %v", p.Read(), tt.off)
			}
		})
	}
}

func TestFirmwareVersionString(t *testing.T) {
	v := FirmwareVersion{ProductID: [4]byte{'9', '8', '9', '6'}, FWVersion: [4]byte{0, 1, 10, 255}}
	if got := v.String(); got != "GT9896 0.1.10.255" {
		t.Errorf("String() = %q", got)
	}
}
