package config

const (
	defaultWorkDir            = "temp"
	defaultOutputDir          = "out"
	defaultBackend            = BackendWhisperX
	defaultModel              = "small"
	defaultTask               = TaskTranscribe
	defaultLanguage           = "auto"
	defaultVADMethod          = "silero"
	defaultTargetLanguage     = "zh"
	defaultTranslationTimeout = 60
	defaultOnFailure          = FailureContinue
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultUVXBinary          = "uvx"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultOpenAIBaseURL      = "https://api.openai.com/v1"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
		},
		Transcription: Transcription{
			Backend:           defaultBackend,
			Model:             defaultModel,
			Task:              defaultTask,
			Language:          defaultLanguage,
			WhisperXVADMethod: defaultVADMethod,
		},
		Translation: Translation{
			TargetLanguage: defaultTargetLanguage,
			TimeoutSeconds: defaultTranslationTimeout,
		},
		Pipeline: Pipeline{
			OnFailure: defaultOnFailure,
		},
		Binaries: Binaries{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
			UVX:     defaultUVXBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
