package sim

// Recorder is a Sink that keeps every Every-th frame, for saving a run
// after it finishes.
type Recorder struct {
	Every  int
	frames []Frame
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

func (r *Recorder) OnFrame(f Frame) {
	if f.Index%r.Every == 0 {
		r.frames = append(r.frames, f)
	}
}

func (r *Recorder) Frames() []Frame { return r.frames }

func (r *Recorder) Reset() { r.frames = r.frames[:0] }
