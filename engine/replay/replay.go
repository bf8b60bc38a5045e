// Package replay records fired shots as JSON lines and reads them back for
// regression comparison
package replay

import (
	"bufio"
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/1siamBot/turret-defense/engine/core"
	"github.com/1siamBot/turret-defense/engine/turret"
	"github.com/pkg/errors"
)

// Shot is one fired projectile
type Shot struct {
	Tick      uint64     `json:"tick"`
	Turret    string     `json:"turret"`
	Origin    [3]float64 `json:"origin"`
	Direction [3]float64 `json:"direction"`
}

// Recorder appends shots to a replay file
type Recorder struct {
	Shots []Shot
	file  *os.File
	w     *bufio.Writer
	enc   *json.Encoder
	err   error
}

// NewRecorder creates a replay file for recording
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create replay")
	}
	r := NewRecorderTo(f)
	r.file = f
	return r, nil
}

// NewRecorderTo records into w. Close flushes but does not close w
func NewRecorderTo(w io.Writer) *Recorder {
	bw := bufio.NewWriter(w)
	return &Recorder{w: bw, enc: json.NewEncoder(bw)}
}

// Record writes one shot
func (r *Recorder) Record(s Shot) error {
	r.Shots = append(r.Shots, s)
	if err := r.enc.Encode(s); err != nil {
		return errors.Wrap(err, "record shot")
	}
	return nil
}

// Listen records every projectile_fired event on bus. names maps turret
// entities to the IDs written to the file. Write errors are reported by
// Close
func (r *Recorder) Listen(bus *core.EventBus, names map[core.EntityID]string) {
	bus.On(core.EvtProjectileFired, func(e core.Event) {
		shot, ok := e.Payload.(turret.Shot)
		if !ok {
			return
		}
		err := r.Record(Shot{
			Tick:      e.Tick,
			Turret:    names[e.Source],
			Origin:    shot.Origin,
			Direction: shot.Direction,
		})
		if err != nil && r.err == nil {
			r.err = err
		}
	})
}

// Close flushes and closes the replay file
func (r *Recorder) Close() error {
	err := r.err
	if ferr := r.w.Flush(); ferr != nil && err == nil {
		err = errors.Wrap(ferr, "flush replay")
	}
	if r.file != nil {
		if cerr := r.file.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close replay")
		}
	}
	return err
}

// Replay is a loaded shot log
type Replay struct {
	Shots []Shot
}

// Load reads a replay file
func Load(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open replay")
	}
	defer f.Close()
	rp, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return rp, nil
}

// Read decodes shots from r until EOF
func Read(r io.Reader) (*Replay, error) {
	rp := &Replay{}
	dec := json.NewDecoder(bufio.NewReader(r))
	for {
		var s Shot
		if err := dec.Decode(&s); err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "shot %d", len(rp.Shots))
		}
		rp.Shots = append(rp.Shots, s)
	}
	return rp, nil
}

// ShotsForTick returns all shots fired on the given tick
func (rp *Replay) ShotsForTick(tick uint64) []Shot {
	var result []Shot
	for _, s := range rp.Shots {
		if s.Tick == tick {
			result = append(result, s)
		}
	}
	return result
}

// Compare returns the index of the first shot that differs between rp and
// other by more than tol in any coordinate, or -1 if they match
func (rp *Replay) Compare(other []Shot, tol float64) int {
	n := len(rp.Shots)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		a, b := rp.Shots[i], other[i]
		if a.Tick != b.Tick || a.Turret != b.Turret || !near(a.Origin, b.Origin, tol) || !near(a.Direction, b.Direction, tol) {
			return i
		}
	}
	if len(rp.Shots) != len(other) {
		return n
	}
	return -1
}

func near(a, b [3]float64, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
