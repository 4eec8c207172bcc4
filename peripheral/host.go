//go:build !(rp2040 || rp2350)

package peripheral

import "sync"

// FakeSPIBus is a host-side stand-in for a thermocouple's SPI
// chip-select-scoped bus, in the spirit of the teacher's HostI2C: it
// records the last transaction and returns a settable canned reply.
type FakeSPIBus struct {
	mu      sync.Mutex
	reply   [3]byte
	failNext bool
	lastW   []byte
}

func (b *FakeSPIBus) Tx(w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastW = append([]byte(nil), w...)
	if b.failNext {
		b.failNext = false
		return errTransient{}
	}
	copy(r, b.reply[:])
	return nil
}

// SetReply sets the raw bytes the next successful Tx returns, encoding
// tempC via the same 8.8 fixed-point shape decodeTemperature expects.
func (b *FakeSPIBus) SetReply(tempC float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := int32(tempC * 256)
	b.reply[1] = byte(v >> 8)
	b.reply[2] = byte(v)
}

// FailNext makes the next Tx call return a transient error.
func (b *FakeSPIBus) FailNext() {
	b.mu.Lock()
	b.failNext = true
	b.mu.Unlock()
}

type errTransient struct{}

func (errTransient) Error() string { return "simulated transient spi fault" }

// FakeThermometer is a directly settable Thermometer for Roaster-core
// tests that don't need to exercise the SPI/backoff path.
type FakeThermometer struct {
	mu   sync.Mutex
	temp float32
	err  error
}

func NewFakeThermometer(initial float32) *FakeThermometer {
	return &FakeThermometer{temp: initial}
}

func (f *FakeThermometer) Set(temp float32) {
	f.mu.Lock()
	f.temp = temp
	f.mu.Unlock()
}

func (f *FakeThermometer) SetError(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *FakeThermometer) ReadTemperature() (float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.temp, nil
}

// FakePWMChannel records the last commanded duty for assertions.
type FakePWMChannel struct {
	mu   sync.Mutex
	duty uint16
}

func (p *FakePWMChannel) SetDutyPermille(duty uint16) {
	p.mu.Lock()
	p.duty = duty
	p.mu.Unlock()
}

func (p *FakePWMChannel) Duty() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duty
}

// FakePresenceInput is a settable PresenceInput.
type FakePresenceInput struct {
	mu      sync.Mutex
	present bool
}

func NewFakePresenceInput(present bool) *FakePresenceInput {
	return &FakePresenceInput{present: present}
}

func (p *FakePresenceInput) Set(present bool) {
	p.mu.Lock()
	p.present = present
	p.mu.Unlock()
}

func (p *FakePresenceInput) Present() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.present
}
