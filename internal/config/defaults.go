package config

// Ollama defaults
const (
	DefaultOllamaURL           = "http://localhost:11434"
	DefaultModel               = "qwen2.5-coder:7b"
	DefaultOllamaCommand       = "ollama"
	DefaultStartTimeoutSeconds = 20
)

// Loop defaults
const (
	DefaultMaxAttempts = 4
)

// Run defaults
const (
	DefaultPython = "python3"
	DefaultStream = true
)

// Installer defaults
const (
	DefaultInstallerQuiet = true
)

// Classify defaults
const (
	DefaultAliasesFile = ".codemend/aliases.yaml"
)
