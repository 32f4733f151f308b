package speech

import "context"

// Handlers carries the capture session callbacks. The controller only ever
// interacts with a Recognizer through Start/Stop and these events, so the
// state machine can be exercised without a microphone.
type Handlers struct {
	// OnResult delivers the accumulated transcript. final is false for
	// interim updates within a chunk and true once the chunk is committed.
	OnResult func(transcript string, final bool)
	// OnError reports a *CaptureError. The session keeps running unless
	// OnEnd follows.
	OnError func(err error)
	// OnEnd fires when the capture session stops, whether requested or not.
	OnEnd func()
}

// Recognizer is a continuous speech-to-text capture session.
type Recognizer interface {
	// Start begins capturing. It returns an error if the session cannot
	// start at all; later failures arrive through OnError/OnEnd.
	Start(ctx context.Context) error

	// Stop ends the session. OnEnd fires once capture has wound down.
	Stop()

	// SetHandlers installs the event callbacks. Must be called before Start.
	SetHandlers(h Handlers)
}
