package services

import (
	"sync"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
)

// Mode selects which flow is rendered
type Mode int

const (
	ModeShare Mode = iota
	ModeRetrieve
)

func (m Mode) String() string {
	if m == ModeRetrieve {
		return "retrieve"
	}
	return "share"
}

// Screen identifies the view a descriptor asks the presentation layer to draw
type Screen int

const (
	ScreenUploader Screen = iota
	ScreenPreview
	ScreenLoading
	ScreenShareResult
	ScreenRetriever
	ScreenImage
)

func (s Screen) String() string {
	switch s {
	case ScreenUploader:
		return "uploader"
	case ScreenPreview:
		return "preview"
	case ScreenLoading:
		return "loading"
	case ScreenShareResult:
		return "share-result"
	case ScreenRetriever:
		return "retriever"
	case ScreenImage:
		return "image"
	default:
		return "unknown"
	}
}

// Action is a user action offered by a screen
type Action string

const (
	ActionSelectFile   Action = "select-file"
	ActionCancel       Action = "cancel"
	ActionConfirmShare Action = "confirm-share"
	ActionCopyKey      Action = "copy-key"
	ActionShareAnother Action = "share-another"
	ActionSubmitKey    Action = "submit-key"
	ActionRetrieveNext Action = "retrieve-another"
)

// Labels shown for loading screens and the footer
const (
	LoadingShare    = "Generating secure key..."
	LoadingRetrieve = "Retrieving image..."
	FooterNotice    = "Images are stored locally and are not uploaded to any server."
)

// Descriptor is everything needed to draw the active view
type Descriptor struct {
	Mode     Mode
	Screen   Screen
	Title    string
	Subtitle string
	Loading  string // Non-empty while a flow is suspended
	FileName string
	Preview  string
	Key      domain.ShareKey
	Image    *domain.DecodedImage
	Error    string
	Actions  []Action
}

// Busy reports whether the descriptor shows a pending operation
func (d Descriptor) Busy() bool {
	return d.Loading != ""
}

// Render maps the mode and both flow snapshots to a descriptor.
// It has no side effects and covers every reachable combination.
func Render(mode Mode, share domain.ShareState, retrieve domain.RetrieveState) Descriptor {
	if mode == ModeRetrieve {
		return renderRetrieve(retrieve)
	}
	return renderShare(share)
}

func renderShare(s domain.ShareState) Descriptor {
	d := Descriptor{Mode: ModeShare}

	switch s.Phase {
	case domain.ShareSharing:
		d.Screen = ScreenLoading
		d.Loading = LoadingShare
		d.FileName = s.FileName
	case domain.ShareShared:
		d.Screen = ScreenShareResult
		d.Title = "Your key is ready!"
		d.Subtitle = "Share this key with anyone to let them view your image."
		d.Key = s.Key
		d.FileName = s.FileName
		d.Actions = []Action{ActionCopyKey, ActionShareAnother}
	case domain.ShareSelected:
		d.Screen = ScreenPreview
		d.FileName = s.FileName
		d.Preview = s.Preview
		d.Error = s.Error
		d.Actions = []Action{ActionCancel, ActionConfirmShare}
	default:
		d.Screen = ScreenUploader
		d.Title = "Select an image to share"
		d.Subtitle = "PNG, JPG, GIF, WEBP"
		d.Error = s.Error
		d.Actions = []Action{ActionSelectFile}
	}

	return d
}

func renderRetrieve(r domain.RetrieveState) Descriptor {
	d := Descriptor{Mode: ModeRetrieve}

	switch r.Phase {
	case domain.Retrieving:
		d.Screen = ScreenLoading
		d.Loading = LoadingRetrieve
		d.Key = r.Key
	case domain.RetrieveFound:
		d.Screen = ScreenImage
		d.Key = r.Key
		d.Image = r.Image
		d.Actions = []Action{ActionRetrieveNext}
	default:
		d.Screen = ScreenRetriever
		d.Title = "View a Shared Image"
		d.Subtitle = "Enter the share key you received to load the image."
		d.Key = r.Key
		d.Error = r.Message
		d.Actions = []Action{ActionSubmitKey}
	}

	return d
}

// ViewController owns both flows and tracks which one is active.
// Switching modes never resets either flow.
type ViewController struct {
	share    *ShareFlow
	retrieve *RetrieveFlow

	mu   sync.RWMutex
	mode Mode
}

// NewViewController starts in share mode
func NewViewController(share *ShareFlow, retrieve *RetrieveFlow) *ViewController {
	return &ViewController{share: share, retrieve: retrieve, mode: ModeShare}
}

func (v *ViewController) SetMode(m Mode) {
	v.mu.Lock()
	v.mode = m
	v.mu.Unlock()
}

func (v *ViewController) Mode() Mode {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.mode
}

func (v *ViewController) Share() *ShareFlow {
	return v.share
}

func (v *ViewController) Retrieve() *RetrieveFlow {
	return v.retrieve
}

// Render describes the active view from the current snapshots
func (v *ViewController) Render() Descriptor {
	return Render(v.Mode(), v.share.State(), v.retrieve.State())
}
