package editor

import "errors"

// Rejections returned by Engine operations. A rejected operation leaves
// the state untouched.
var (
	ErrClipNotFound     = errors.New("clip not found")
	ErrNotVideo         = errors.New("clip is not a video clip")
	ErrNoSelection      = errors.New("no clip selected")
	ErrNoActiveVideo    = errors.New("no active video")
	ErrCutNotVideo      = errors.New("only video clips can be cut")
	ErrCutOutsideClip   = errors.New("playhead outside clip")
	ErrCropTooSmall     = errors.New("crop area too small")
	ErrInvalidTrim      = errors.New("clip start must be before its end")
	ErrInvalidDuration  = errors.New("media duration must be positive")
	ErrUnsupportedMedia = errors.New("unsupported file type")
	ErrUnknownEffect    = errors.New("unknown effect")
	ErrUnknownFilter    = errors.New("unknown filter")
	ErrUnknownPreset    = errors.New("unknown text preset")
	ErrOverlayNotFound  = errors.New("overlay not found")
	ErrInvalidStyle     = errors.New("invalid text style")
	ErrInvalidSize      = errors.New("overlay size must be positive")
)

var userMessages = map[error]string{
	ErrNoActiveVideo:    "Import a video first.",
	ErrCutNotVideo:      "Currently, only video clips can be cut.",
	ErrCutOutsideClip:   "The playhead must be positioned within the clip to cut it.",
	ErrCropTooSmall:     "Please select a larger crop area",
	ErrUnsupportedMedia: "Unsupported file type",
	ErrNoSelection:      "Select a clip first.",
}

// UserMessage returns the text shown to the user for err
func UserMessage(err error) string {
	for sentinel, msg := range userMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return err.Error()
}
