package domain

// MediaEventKind classifies a notification from the media player
type MediaEventKind int

const (
	MediaTimeUpdate MediaEventKind = iota // Position advanced
	MediaPlay                             // Playback resumed or started
	MediaPause                            // Playback paused
	MediaEnded                            // Reached the end of the source
)

func (k MediaEventKind) String() string {
	switch k {
	case MediaTimeUpdate:
		return "timeupdate"
	case MediaPlay:
		return "play"
	case MediaPause:
		return "pause"
	case MediaEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MediaEvent is one notification delivered through a MediaBinding
type MediaEvent struct {
	Kind     MediaEventKind
	Position float64 // Seconds at the time of the event
}

// MediaBinding is a live subscription to a media player's events.
// Release detaches it; after Release the Events channel is closed and no
// further events are delivered. Release may be called more than once.
type MediaBinding interface {
	Events() <-chan MediaEvent
	Release()
}

// MediaPlayer is the single playable resource a media session controls.
// Only one binding may be live at a time.
type MediaPlayer interface {
	Play() error
	Pause() error
	TogglePause() error
	Seek(position float64) error
	SeekRelative(delta float64) error
	Load(url string) error
	Position() (float64, error)
	Eject() error
	Bind() (MediaBinding, error)
}
