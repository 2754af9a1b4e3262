package audio

import (
	"math"
	"sync"
	"time"

	"github.com/blockrun/game/internal/core/event"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"go.uber.org/zap"
)

// DefaultSampleRate is used when the config leaves it unset.
const DefaultSampleRate = beep.SampleRate(44100)

// Cue describes a synthesized sound: a sine tone, optionally followed by a
// second tone of the same length.
type Cue struct {
	Freq     float64
	Then     float64
	Duration time.Duration
}

// DefaultCues covers every cue the game publishes.
var DefaultCues = map[string]Cue{
	"jump":   {Freq: 660, Duration: 80 * time.Millisecond},
	"win":    {Freq: 523, Then: 784, Duration: 150 * time.Millisecond},
	"Die":    {Freq: 220, Then: 110, Duration: 200 * time.Millisecond},
	"bump":   {Freq: 120, Duration: 40 * time.Millisecond},
	"pickup": {Freq: 988, Then: 1319, Duration: 60 * time.Millisecond},
	"menu":   {Freq: 440, Duration: 50 * time.Millisecond},
}

// RefDistance is the distance at which a 3D cue plays at half gain.
const RefDistance = 10

// minGain drops 3D cues too far away to be heard.
const minGain = 0.02

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// Manager plays cues published on the Sound category into a mixer. The
// caller hands Streamer to an output device; tests read it directly.
type Manager struct {
	mu     sync.Mutex
	device sync.Locker // held while touching streamers read by the device

	rate   beep.SampleRate
	cues   map[string]Cue
	mixer  *beep.Mixer
	ctrl   *beep.Ctrl
	volume *effects.Volume

	level    float64 // master volume 0..1
	muted    bool
	listener mgl32.Vec3
	played   int

	subs event.Group
	log  *zap.Logger
}

// NewManager builds the mixer chain mixer -> ctrl -> volume. A zero rate
// selects DefaultSampleRate; nil cues selects DefaultCues.
func NewManager(rate beep.SampleRate, cues map[string]Cue, level float64, log *zap.Logger) *Manager {
	if rate == 0 {
		rate = DefaultSampleRate
	}
	if cues == nil {
		cues = DefaultCues
	}
	mixer := &beep.Mixer{}
	ctrl := &beep.Ctrl{Streamer: mixer}
	m := &Manager{
		device: nopLocker{},
		rate:   rate,
		cues:   cues,
		mixer:  mixer,
		ctrl:   ctrl,
		volume: &effects.Volume{Streamer: ctrl, Base: 2},
		log:    log,
	}
	m.setLevel(level)
	return m
}

// SetDeviceLocker installs the lock of the output device (speaker.Lock) so
// mixer changes do not race with playback.
func (m *Manager) SetDeviceLocker(l sync.Locker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.device = l
}

func (m *Manager) SampleRate() beep.SampleRate { return m.rate }

// Streamer is the final output of the chain.
func (m *Manager) Streamer() beep.Streamer { return m.volume }

func (m *Manager) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Manager) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctrl.Paused
}

// Active is the number of cues still playing.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.device.Lock()
	defer m.device.Unlock()
	return m.mixer.Len()
}

// Played counts cues started since creation.
func (m *Manager) Played() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.played
}

// SetListener moves the point 3D cues are attenuated against.
func (m *Manager) SetListener(p mgl32.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = p
}

// ── Playback ──

// Play2D starts a cue at full gain. Unknown cues are ignored.
func (m *Manager) Play2D(name string) bool {
	return m.play(name, 1)
}

// Play3D starts a cue attenuated by its distance to the listener.
func (m *Manager) Play3D(name string, at mgl32.Vec3) bool {
	m.mu.Lock()
	d := at.Sub(m.listener).Len()
	m.mu.Unlock()
	gain := Attenuation(d)
	if gain < minGain {
		return false
	}
	return m.play(name, gain)
}

// Attenuation is the inverse-distance gain for distance d.
func Attenuation(d float32) float64 {
	if d <= 0 {
		return 1
	}
	return 1 / (1 + float64(d)/RefDistance)
}

func (m *Manager) play(name string, gain float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	cue, ok := m.cues[name]
	if !ok {
		m.log.Debug("unknown sound cue", zap.String("cue", name))
		return false
	}
	s, err := m.synth(cue)
	if err != nil {
		m.log.Warn("synthesize cue", zap.String("cue", name), zap.Error(err))
		return false
	}
	if gain < 1 {
		s = &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
	}
	m.device.Lock()
	m.mixer.Add(s)
	m.device.Unlock()
	m.played++
	return true
}

func (m *Manager) synth(c Cue) (beep.Streamer, error) {
	n := m.rate.N(c.Duration)
	first, err := generators.SineTone(m.rate, c.Freq)
	if err != nil {
		return nil, err
	}
	if c.Then == 0 {
		return beep.Take(n, first), nil
	}
	second, err := generators.SineTone(m.rate, c.Then)
	if err != nil {
		return nil, err
	}
	return beep.Seq(beep.Take(n, first), beep.Take(n, second)), nil
}

// Pause and Resume gate the whole mix.
func (m *Manager) Pause()  { m.setPaused(true) }
func (m *Manager) Resume() { m.setPaused(false) }

func (m *Manager) setPaused(p bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.device.Lock()
	m.ctrl.Paused = p
	m.device.Unlock()
}

// Stop drops every playing cue.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.device.Lock()
	m.mixer.Clear()
	m.device.Unlock()
}

// SetVolume sets the master level, clamped to 0..1.
func (m *Manager) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLevel(v)
}

func (m *Manager) AddVolume(delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLevel(m.level + delta)
}

// SetMuted silences the output without losing the level.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	m.applyVolume()
}

func (m *Manager) setLevel(v float64) {
	m.level = max(0, min(1, v))
	m.applyVolume()
}

func (m *Manager) applyVolume() {
	m.device.Lock()
	defer m.device.Unlock()
	if m.muted || m.level <= 0 {
		m.volume.Silent = true
		return
	}
	m.volume.Silent = false
	m.volume.Volume = math.Log2(m.level)
}

// ── Events ──

// Subscribe registers the manager on the Sound category.
func (m *Manager) Subscribe(bus *event.Bus) {
	m.subs.Subscribe(bus, event.CategorySound, m.handle)
}

func (m *Manager) Close() { m.subs.Cancel() }

func (m *Manager) handle(d event.Data) {
	switch d.Action {
	case event.OnPlay2D:
		if name, ok := d.StringParam(0); ok {
			m.Play2D(name)
		}
	case event.OnPlay3D:
		name, ok := d.StringParam(0)
		if !ok {
			return
		}
		at, ok := d.Param(1).(mgl32.Vec3)
		if !ok {
			return
		}
		m.Play3D(name, at)
	case event.OnPause:
		m.Pause()
	case event.OnResume:
		m.Resume()
	case event.OnStop:
		m.Stop()
	case event.OnVolumeSet:
		if v, ok := d.FloatParam(0); ok {
			m.SetVolume(float64(v))
		}
	case event.OnVolumeDelta:
		if v, ok := d.FloatParam(0); ok {
			m.AddVolume(float64(v))
		}
	case event.OnMute:
		if on, ok := d.Param(0).(bool); ok {
			m.SetMuted(on)
		} else {
			m.SetMuted(!m.Muted())
		}
	}
}
