// Package audio plays synthesized positional sound effects through ebiten's
// audio context
package audio

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleRate is the output rate for every effect
const SampleRate = 44100

// SoundID identifies a sound effect
type SoundID string

const (
	SndShot   SoundID = "shot"
	SndArmed  SoundID = "armed"
	SndEscape SoundID = "escape"
)

// Tone describes a decaying sine blip
type Tone struct {
	Freq     float64 // start frequency in Hz
	Sweep    float64 // Hz per second added over the tone
	Duration float64 // seconds
	Decay    float64 // exponential decay rate
}

var tones = map[SoundID]Tone{
	SndShot:   {Freq: 880, Sweep: -2400, Duration: 0.08, Decay: 40},
	SndArmed:  {Freq: 440, Sweep: 800, Duration: 0.2, Decay: 8},
	SndEscape: {Freq: 220, Sweep: -300, Duration: 0.35, Decay: 6},
}

// PCM renders t as 16-bit little-endian stereo samples
func (t Tone) PCM(sampleRate int) []byte {
	n := int(t.Duration * float64(sampleRate))
	out := make([]byte, n*4)
	phase := 0.0
	for i := 0; i < n; i++ {
		sec := float64(i) / float64(sampleRate)
		phase += 2 * math.Pi * (t.Freq + t.Sweep*sec) / float64(sampleRate)
		v := int16(math.Sin(phase) * math.Exp(-t.Decay*sec) * 0.6 * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(v))
	}
	return out
}

// AudioManager handles sound effects
type AudioManager struct {
	MasterVolume float64
	SFXVolume    float64
	MaxDistance  float64    // beyond this from the listener effects are silent
	Listener     mgl64.Vec3 // usually the camera target

	ctx     *audio.Context
	sounds  map[SoundID][]byte
	playing []*audio.Player
}

// NewAudioManager opens the process-wide audio context. Only one may exist
func NewAudioManager(sampleRate int) *AudioManager {
	am := newManager(sampleRate)
	am.ctx = audio.NewContext(sampleRate)
	return am
}

func newManager(sampleRate int) *AudioManager {
	am := &AudioManager{
		MasterVolume: 1.0,
		SFXVolume:    0.8,
		MaxDistance:  60,
		sounds:       make(map[SoundID][]byte),
	}
	for id, t := range tones {
		am.sounds[id] = t.PCM(sampleRate)
	}
	return am
}

// PlaySFX plays a sound effect at a world position
func (am *AudioManager) PlaySFX(id SoundID, pos mgl64.Vec3) {
	vol := am.volumeAt(pos)
	data, ok := am.sounds[id]
	if !ok || vol <= 0 || am.ctx == nil {
		return
	}
	p := am.ctx.NewPlayerFromBytes(data)
	p.SetVolume(vol)
	p.Play()
	am.playing = append(am.playing, p)
}

// Update releases players that finished. Call once per frame
func (am *AudioManager) Update() {
	live := am.playing[:0]
	for _, p := range am.playing {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		_ = p.Close()
	}
	am.playing = live
}

// volumeAt computes volume based on distance from the listener
func (am *AudioManager) volumeAt(pos mgl64.Vec3) float64 {
	d := pos.Sub(am.Listener)
	d[1] = 0
	dist := d.Len()
	if dist >= am.MaxDistance {
		return 0
	}
	return (1.0 - dist/am.MaxDistance) * am.SFXVolume * am.MasterVolume
}

// SetVolume sets master volume (0-1)
func (am *AudioManager) SetVolume(v float64) {
	am.MasterVolume = mgl64.Clamp(v, 0, 1)
}
