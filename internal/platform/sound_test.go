package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// constTone streams n samples of a constant level.
type constTone struct {
	n int
}

func (c *constTone) Stream(samples [][2]float64) (int, bool) {
	if c.n == 0 {
		return 0, false
	}
	k := min(len(samples), c.n)
	for i := range samples[:k] {
		samples[i] = [2]float64{0.25, 0.25}
	}
	c.n -= k
	return k, true
}

func (c *constTone) Err() error { return nil }

func writeWAV(t *testing.T, dir, name string, rate beep.SampleRate, n int) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()
	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, &constTone{n: n}, format); err != nil {
		t.Fatalf("encode wav: %v", err)
	}
}

func TestSoundBankLoadAndPlay(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "shot.wav", sampleRate, 441)
	writeWAV(t, dir, "boom.wav", 22050, 2205)

	bank := NewSoundBank(nil)
	shot, err := bank.LoadFile(os.DirFS(dir), "shot.wav")
	if err != nil {
		t.Fatalf("load shot: %v", err)
	}
	boom, err := bank.LoadFile(os.DirFS(dir), "boom.wav")
	if err != nil {
		t.Fatalf("load boom: %v", err)
	}
	if shot != 0 || boom != 1 {
		t.Fatalf("ids %d %d, want 0 1", shot, boom)
	}
	if n := bank.sounds[boom].Len(); n < 4300 || n > 4500 {
		t.Errorf("resampled length %d, want about 4410", n)
	}

	// Mix without opening the audio device.
	bank.started = true
	if err := bank.Play(shot, false); err != nil {
		t.Fatalf("play: %v", err)
	}
	if err := bank.Play(boom, true); err != nil {
		t.Fatalf("play loop: %v", err)
	}
	if got := bank.Playing(); got != 2 {
		t.Errorf("playing %d, want 2", got)
	}

	bank.Stop()
	if got := bank.Playing(); got != 0 {
		t.Errorf("playing %d after Stop", got)
	}
}

func TestSoundBankDropsPlaysUntilStarted(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "shot.wav", sampleRate, 441)

	bank := NewSoundBank(nil)
	shot, err := bank.LoadFile(os.DirFS(dir), "shot.wav")
	if err != nil {
		t.Fatalf("load shot: %v", err)
	}
	for range 100 {
		if err := bank.Play(shot, false); err != nil {
			t.Fatalf("play: %v", err)
		}
	}
	if err := bank.Play(shot, true); err != nil {
		t.Fatalf("play loop: %v", err)
	}
	if got := bank.Playing(); got != 0 {
		t.Errorf("playing %d on a bank that was never started, want 0", got)
	}
	if err := bank.Play(7, false); !errors.Is(err, ErrUnknownSound) {
		t.Errorf("Play(7) = %v, want ErrUnknownSound", err)
	}
}

func TestSoundBankUnknownID(t *testing.T) {
	bank := NewSoundBank(nil)
	for _, id := range []int32{-1, 0, 3} {
		if err := bank.Play(id, false); !errors.Is(err, ErrUnknownSound) {
			t.Errorf("Play(%d) = %v", id, err)
		}
	}
}

func TestSoundBankRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.wav"), []byte("not a wav file"), 0o644); err != nil {
		t.Fatal(err)
	}
	bank := NewSoundBank(nil)
	if _, err := bank.LoadFile(os.DirFS(dir), "bad.wav"); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := bank.LoadFile(os.DirFS(dir), "missing.wav"); err == nil {
		t.Fatalf("expected open error")
	}
}
