package audio

import (
	"errors"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	log "github.com/sirupsen/logrus"
)

const (
	SampleRate = 16000
	Frames     = 1024

	// MaxClip caps a voice recording.
	MaxClip = 60 * SampleRate
)

var ErrNoClip = errors.New("no voice recording to replay")

// stream is the part of a PortAudio stream the recorder uses.
type stream interface {
	Start() error
	Read() error
	Write() error
	Stop() error
	Close() error
}

type streamOpener func(inputChannels, outputChannels int, buf []int16) (stream, error)

func openDefaultStream(inputChannels, outputChannels int, buf []int16) (stream, error) {
	return portaudio.OpenDefaultStream(inputChannels, outputChannels, SampleRate, len(buf), buf)
}

// Recorder records the reviewer's voice and replays the last recording,
// for checking pronunciation against a card.
type Recorder struct {
	mu        sync.Mutex
	open      streamOpener
	beep      func(string)
	recording bool
	playing   bool
	clip      []int16
	maxRMS    float64
	stopChan  chan struct{}
	wg        sync.WaitGroup

	silenceThreshold float64
}

func NewRecorder() *Recorder {
	return &Recorder{
		open:             openDefaultStream,
		beep:             PlayBeep,
		silenceThreshold: 250.0,
	}
}

func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// calculateRMS computes the Root Mean Square of int16 audio samples
func calculateRMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, sample := range samples {
		sum += float64(sample) * float64(sample)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// ToggleRecording starts a new recording, or finishes the current one.
func (r *Recorder) ToggleRecording() error {
	if r.IsRecording() {
		r.Stop()
		return nil
	}
	return r.startRecording()
}

func (r *Recorder) startRecording() error {
	r.Stop()

	in := make([]int16, Frames)
	s, err := r.open(1, 0, in)
	if err != nil {
		return err
	}
	if err := s.Start(); err != nil {
		s.Close()
		return err
	}

	r.mu.Lock()
	r.recording = true
	r.clip = r.clip[:0]
	r.maxRMS = 0
	r.stopChan = make(chan struct{})
	stop := r.stopChan
	r.mu.Unlock()

	r.beep(BeepRecord)
	r.wg.Add(1)
	go r.recordLoop(s, in, stop)
	return nil
}

func (r *Recorder) recordLoop(s stream, in []int16, stop <-chan struct{}) {
	defer r.wg.Done()
	defer closeStream(s)

	for {
		select {
		case <-stop:
			return
		default:
		}

		if err := s.Read(); err != nil {
			log.Warnf("[AUDIO] Error reading from stream: %v", err)
			r.finish()
			return
		}

		chunkRMS := calculateRMS(in)

		r.mu.Lock()
		r.clip = append(r.clip, in...)
		r.maxRMS = max(r.maxRMS, chunkRMS)
		full := len(r.clip) >= MaxClip
		r.mu.Unlock()

		if full {
			log.Infof("[AUDIO] Recording reached %ds, stopping", MaxClip/SampleRate)
			r.finish()
			return
		}
	}
}

// finish marks the loop as done from inside it.
func (r *Recorder) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
	r.playing = false
}

// Replay plays the last recording.
func (r *Recorder) Replay() error {
	r.Stop()

	r.mu.Lock()
	if len(r.clip) == 0 {
		r.mu.Unlock()
		return ErrNoClip
	}
	if r.maxRMS < r.silenceThreshold {
		log.Warnf("[AUDIO] Last recording is nearly silent (peak RMS %.0f)", r.maxRMS)
	}
	clip := append([]int16(nil), r.clip...)
	r.mu.Unlock()

	out := make([]int16, Frames)
	s, err := r.open(0, 1, out)
	if err != nil {
		return err
	}
	if err := s.Start(); err != nil {
		s.Close()
		return err
	}

	r.mu.Lock()
	r.playing = true
	r.stopChan = make(chan struct{})
	stop := r.stopChan
	r.mu.Unlock()

	r.wg.Add(1)
	go r.playLoop(s, out, clip, stop)
	return nil
}

func (r *Recorder) playLoop(s stream, out, clip []int16, stop <-chan struct{}) {
	defer r.wg.Done()
	defer closeStream(s)
	defer r.finish()

	for offset := 0; offset < len(clip); offset += len(out) {
		select {
		case <-stop:
			return
		default:
		}

		n := copy(out, clip[offset:])
		clear(out[n:])
		if err := s.Write(); err != nil {
			log.Warnf("[AUDIO] Error writing to stream: %v", err)
			return
		}
	}
}

// Stop ends any recording or playback and waits for it to finish.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.stopChan != nil {
		close(r.stopChan)
		r.stopChan = nil
	}
	r.recording = false
	r.playing = false
	r.mu.Unlock()

	r.wg.Wait()
}

func closeStream(s stream) {
	if err := s.Stop(); err != nil {
		log.Debugf("[AUDIO] Error stopping stream: %v", err)
	}
	s.Close()
}

// Initialize initializes PortAudio - should be called at application startup
func Initialize() error {
	return portaudio.Initialize()
}

// Terminate terminates PortAudio - should be called at application shutdown
func Terminate() {
	portaudio.Terminate()
}
