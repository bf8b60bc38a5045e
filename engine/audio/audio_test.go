package audio

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestVolumeFallsOffWithDistance(t *testing.T) {
	am := newManager(8000)
	am.Listener = mgl64.Vec3{10, 0, 10}

	near := am.volumeAt(mgl64.Vec3{10, 5, 10})
	if !floatNear(near, am.SFXVolume, 1e-12) {
		t.Errorf("volume at listener = %v, want %v", near, am.SFXVolume)
	}
	half := am.volumeAt(mgl64.Vec3{10 + am.MaxDistance/2, 0, 10})
	if !floatNear(half, am.SFXVolume/2, 1e-12) {
		t.Errorf("volume at half distance = %v", half)
	}
	if v := am.volumeAt(mgl64.Vec3{10 + am.MaxDistance, 0, 10}); v != 0 {
		t.Errorf("volume at max distance = %v", v)
	}

	am.SetVolume(3)
	if am.MasterVolume != 1 {
		t.Errorf("master volume = %v, want clamped to 1", am.MasterVolume)
	}
}

func TestTonePCM(t *testing.T) {
	tone := Tone{Freq: 440, Duration: 0.5, Decay: 4}
	data := tone.PCM(8000)
	if len(data) != 4000*4 {
		t.Fatalf("len = %d", len(data))
	}
	peak := func(from, to int) float64 {
		m := 0.0
		for i := from; i < to; i++ {
			l := int16(binary.LittleEndian.Uint16(data[i*4:]))
			r := int16(binary.LittleEndian.Uint16(data[i*4+2:]))
			if l != r {
				t.Fatalf("sample %d: channels differ", i)
			}
			m = math.Max(m, math.Abs(float64(l)))
		}
		return m
	}
	if early, late := peak(0, 400), peak(3600, 4000); late >= early {
		t.Errorf("tone does not decay: early %v late %v", early, late)
	}
}

func TestMutedManagerIgnoresPlay(t *testing.T) {
	am := newManager(8000)
	am.PlaySFX(SndShot, mgl64.Vec3{})
	am.Update()
	if len(am.playing) != 0 {
		t.Errorf("muted manager started %d players", len(am.playing))
	}
	for id := range tones {
		if len(am.sounds[id]) == 0 {
			t.Errorf("%s not synthesized", id)
		}
	}
}

func floatNear(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}
