package sound

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

const sampleRate = 44100

var octx *oto.Context

func Init() error {
	// Prepare an Oto context (this will use your default audio device) that will
	// play all our sounds. Its configuration can't be changed later.

	op := &oto.NewContextOptions{}

	// Usually 44100 or 48000. Other values might cause distortions in Oto
	op.SampleRate = sampleRate

	// Number of channels (aka locations) to play sounds from. Either 1 or 2.
	// 1 is mono sound, and 2 is stereo (most speakers are stereo).
	op.ChannelCount = 2

	// Signed 16bit integers, same as the tone generator below emits.
	op.Format = oto.FormatSignedInt16LE

	// Remember that you should **not** create more than one context
	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("sound.Init failed: %w", err)
	}
	// It might take a bit for the hardware audio devices to be ready, so we wait on the channel.
	select {
	case <-readyChan:
		octx = otoCtx
		return nil
	case <-time.After(10 * time.Second):
		return fmt.Errorf("sound.Init timed out")
	}
}

// Create a new 'player' that will handle our sound. Paused by default.
func NewPlayer(r io.Reader) (*oto.Player, error) {
	if octx == nil {
		if err := Init(); err != nil {
			return nil, fmt.Errorf("sound.NewPlayer: %w", err)
		}
	}
	return octx.NewPlayer(r), nil
}

// Play blocks until the tone has finished.
func Play(freq float64, dur time.Duration) error {
	p, err := NewPlayer(newTone(freq, dur))
	if err != nil {
		return err
	}
	p.Play()
	for p.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return p.Close()
}

// tone is a sine wave with a short fade in/out to avoid clicks,
// rendered as interleaved stereo int16 samples.
type tone struct {
	freq    float64
	samples int
	pos     int
}

func newTone(freq float64, dur time.Duration) *tone {
	return &tone{
		freq:    freq,
		samples: int(float64(sampleRate) * dur.Seconds()),
	}
}

func (t *tone) Read(p []byte) (int, error) {
	if t.pos >= t.samples {
		return 0, io.EOF
	}
	const fade = sampleRate / 50 // 20ms ramp
	n := 0
	for n+4 <= len(p) && t.pos < t.samples {
		amp := 0.3
		if t.pos < fade {
			amp *= float64(t.pos) / fade
		}
		if left := t.samples - t.pos; left < fade {
			amp *= float64(left) / fade
		}
		v := int16(amp * math.MaxInt16 * math.Sin(2*math.Pi*t.freq*float64(t.pos)/sampleRate))
		p[n] = byte(v)
		p[n+1] = byte(v >> 8)
		p[n+2] = byte(v)
		p[n+3] = byte(v >> 8)
		n += 4
		t.pos++
	}
	return n, nil
}
