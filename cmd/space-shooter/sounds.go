package main

import (
	"io/fs"
	"sort"

	"go.uber.org/zap"

	"go-space-shooter/internal/config"
	"go-space-shooter/internal/platform"
)

// soundBank is a started platform.SoundBank plus the ids of the configured cues.
type soundBank struct {
	*platform.SoundBank
	cues map[string]int32
}

// openSounds returns nil when there is no audio device. A broken file only drops
// its cue.
func openSounds(cfg config.AudioConfig, assets fs.FS, log *zap.Logger) *soundBank {
	b := &soundBank{
		SoundBank: platform.NewSoundBank(log),
		cues:      make(map[string]int32, len(cfg.Sounds)),
	}
	if err := b.Start(); err != nil {
		log.Warn("audio unavailable, continuing without sound", zap.Error(err))
		return nil
	}

	names := make([]string, 0, len(cfg.Sounds))
	for name := range cfg.Sounds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id, err := b.LoadFile(assets, cfg.Sounds[name])
		if err != nil {
			log.Warn("sound not loaded", zap.String("cue", name), zap.Error(err))
			continue
		}
		b.cues[name] = id
	}
	return b
}
