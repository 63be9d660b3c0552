package domain

// SharePhase enumerates the share flow states
type SharePhase int

const (
	ShareIdle SharePhase = iota
	ShareSelected
	ShareSharing
	ShareShared
)

func (p SharePhase) String() string {
	switch p {
	case ShareIdle:
		return "idle"
	case ShareSelected:
		return "selected"
	case ShareSharing:
		return "sharing"
	case ShareShared:
		return "shared"
	default:
		return "unknown"
	}
}

// ShareState is an immutable snapshot of the share flow.
// Error is an overlay: it may be set while Phase is ShareIdle or ShareSelected.
type ShareState struct {
	Phase    SharePhase
	FileName string
	MimeType string
	Preview  string   // Preview handle, empty unless Selected or Sharing
	Key      ShareKey // Set only in ShareShared
	Error    string
}

// HasError reports whether the snapshot carries an error message
func (s ShareState) HasError() bool {
	return s.Error != ""
}

// RetrievePhase enumerates the retrieve flow states
type RetrievePhase int

const (
	RetrieveIdle RetrievePhase = iota
	Retrieving
	RetrieveFound
	RetrieveNotFound
	RetrieveError
)

func (p RetrievePhase) String() string {
	switch p {
	case RetrieveIdle:
		return "idle"
	case Retrieving:
		return "retrieving"
	case RetrieveFound:
		return "found"
	case RetrieveNotFound:
		return "not-found"
	case RetrieveError:
		return "error"
	default:
		return "unknown"
	}
}

// RetrieveState is an immutable snapshot of the retrieve flow
type RetrieveState struct {
	Phase   RetrievePhase
	Key     ShareKey
	Image   *DecodedImage // Set only in RetrieveFound
	Message string
}

// Terminal reports whether the retrieve flow has settled on an outcome
func (s RetrieveState) Terminal() bool {
	switch s.Phase {
	case RetrieveFound, RetrieveNotFound, RetrieveError:
		return true
	}
	return false
}
