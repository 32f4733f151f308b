// Package speech provides the speech engines: a continuous microphone
// capture session transcribed via OpenAI Whisper, and text-to-speech
// playback with an OpenAI provider and an espeak-ng fallback. Both engines
// sit behind small interfaces so the session controllers can be driven by
// deterministic test doubles.
package speech
