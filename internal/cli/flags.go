package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile string
	Text    string
	Verbose bool

	// Backend flags
	BaseURL           string
	TranslateEndpoint string

	// Speech flags
	SpeechProvider  string
	CaptureLanguage string
	ChunkSeconds    int
	NoCache         bool

	// OpenAI flags
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		SpeechProvider:  "openai",
		CaptureLanguage: "en",
		ChunkSeconds:    5,
		OpenAIModel:     "gpt-4o-mini-tts",
		OpenAIVoice:     "nova",
		OpenAISpeed:     1.0,
	}
}
