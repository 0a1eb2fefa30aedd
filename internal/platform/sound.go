package platform

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"

	"go-space-shooter/internal/logging"
)

const sampleRate = beep.SampleRate(44100)

// ErrUnknownSound is returned by Play for an id that Load never handed out.
var ErrUnknownSound = errors.New("platform: unknown sound")

// SoundBank keeps decoded sounds in memory and mixes them into one speaker stream.
// Sounds are identified by the index Load returns. A bank that was never started
// still accepts Load, but Play drops the sound.
type SoundBank struct {
	mu      sync.Mutex
	log     *zap.Logger
	mixer   *beep.Mixer
	sounds  []*beep.Buffer
	started bool
}

func NewSoundBank(log *zap.Logger) *SoundBank {
	return &SoundBank{
		log:   logging.OrNop(log),
		mixer: &beep.Mixer{},
	}
}

// Start opens the audio device and starts playing the mixer.
func (b *SoundBank) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("platform: init speaker: %w", err)
	}
	speaker.Play(b.mixer)
	b.started = true
	return nil
}

// Load decodes a WAV stream into memory, resampled to the bank's rate.
func (b *SoundBank) Load(name string, r io.Reader) (int32, error) {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return -1, fmt.Errorf("platform: decode sound %s: %w", name, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	if format.SampleRate != sampleRate {
		buf.Append(beep.Resample(4, format.SampleRate, sampleRate, streamer))
	} else {
		buf.Append(streamer)
	}
	if err := streamer.Err(); err != nil {
		return -1, fmt.Errorf("platform: decode sound %s: %w", name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.sounds = append(b.sounds, buf)
	id := int32(len(b.sounds) - 1)
	b.log.Debug("sound loaded",
		zap.String("name", name),
		zap.Int32("id", id),
		zap.Duration("length", sampleRate.D(buf.Len())))
	return id, nil
}

// LoadFile loads the WAV file name from fsys.
func (b *SoundBank) LoadFile(fsys fs.FS, name string) (int32, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return -1, fmt.Errorf("platform: open sound: %w", err)
	}
	defer f.Close()
	return b.Load(name, f)
}

// Play starts sound id from the beginning. A looping sound plays until Stop.
// Before Start succeeds nothing drains the mixer, so plays are dropped.
func (b *SoundBank) Play(id int32, loop bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if id < 0 || int(id) >= len(b.sounds) {
		return fmt.Errorf("%w: %d", ErrUnknownSound, id)
	}
	if !b.started {
		return nil
	}
	buf := b.sounds[id]
	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if loop {
		s = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}

	speaker.Lock()
	b.mixer.Add(s)
	speaker.Unlock()
	return nil
}

// Playing returns the number of sounds currently mixed.
func (b *SoundBank) Playing() int {
	speaker.Lock()
	defer speaker.Unlock()
	return b.mixer.Len()
}

// Stop silences every playing sound.
func (b *SoundBank) Stop() {
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
}

// Close stops playback and releases the audio device.
func (b *SoundBank) Close() {
	b.Stop()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		speaker.Close()
		b.started = false
	}
}
