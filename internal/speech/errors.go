package speech

// CaptureErrorCode identifies why a capture session failed. The codes mirror
// the error taxonomy of browser speech engines so each maps to a distinct
// instructive message.
type CaptureErrorCode string

const (
	ErrCodeAudioCapture      CaptureErrorCode = "audio-capture"
	ErrCodeNotAllowed        CaptureErrorCode = "not-allowed"
	ErrCodeServiceNotAllowed CaptureErrorCode = "service-not-allowed"
	ErrCodeNetwork           CaptureErrorCode = "network"
	ErrCodeNoSpeech          CaptureErrorCode = "no-speech"
	ErrCodeAborted           CaptureErrorCode = "aborted"
	ErrCodeBadGrammar        CaptureErrorCode = "bad-grammar"
	ErrCodeLanguage          CaptureErrorCode = "language-not-supported"
	ErrCodeUnsupported       CaptureErrorCode = "unsupported"
)

var captureMessages = map[CaptureErrorCode]string{
	ErrCodeAudioCapture:      "No microphone detected. Please check your microphone connection and permissions.",
	ErrCodeNotAllowed:        "Microphone access was denied. Please allow microphone access in your system settings.",
	ErrCodeServiceNotAllowed: "Speech recognition service is not allowed. Please check your settings.",
	ErrCodeNetwork:           "Network error occurred. Please check your internet connection.",
	ErrCodeNoSpeech:          "No speech was detected. Please try speaking again.",
	ErrCodeAborted:           "Speech recognition was aborted.",
	ErrCodeBadGrammar:        "Speech recognition grammar error.",
	ErrCodeLanguage:          "Language not supported.",
	ErrCodeUnsupported:       "Speech recognition is not supported on this system.",
}

// CaptureError is a capture-engine failure with a user-facing message.
type CaptureError struct {
	Code  CaptureErrorCode
	cause error
}

// NewCaptureError wraps a low-level engine failure with its code.
func NewCaptureError(code CaptureErrorCode, cause error) *CaptureError {
	return &CaptureError{Code: code, cause: cause}
}

func (e *CaptureError) Error() string {
	if msg, ok := captureMessages[e.Code]; ok {
		return msg
	}
	return "Speech recognition error occurred."
}

func (e *CaptureError) Unwrap() error { return e.cause }
