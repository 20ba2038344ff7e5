package enclaveml

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Configuration configures both binaries. Fields irrelevant to a
// binary are ignored by it; one file can drive a whole deployment.
type Configuration struct {
	// If true, the trust boundary runs in simulation mode: the
	// simulated engine and attester replace the hardware-backed
	// ones. The equivalent of OE_ENCLAVE_FLAG_SIMULATE.
	Simulate bool `yaml:"simulate" mapstructure:"simulate"`

	// The address the enclaved gRPC server listens on.
	ListenAddr string `yaml:"listen-addr" mapstructure:"listen-addr"`

	// PEM encoded TLS certificate and private key for the enclaved
	// server. If both are empty the server runs without TLS, which
	// is only acceptable on a loopback deployment.
	TLSCert string `yaml:"tls-cert" mapstructure:"tls-cert"`
	TLSKey  string `yaml:"tls-key" mapstructure:"tls-key"`

	// The maximum number of live sessions kept on each side of the
	// boundary. -1 allows an unlimited number of sessions.
	MaxSessions int `yaml:"max-sessions" mapstructure:"max-sessions"`

	// Buffer bounds enforced at the marshalling layer. 0 falls back
	// to DefaultLimits.
	MaxModelBytes  int `yaml:"max-model-bytes" mapstructure:"max-model-bytes"`
	MaxInputBytes  int `yaml:"max-input-bytes" mapstructure:"max-input-bytes"`
	MaxOutputBytes int `yaml:"max-output-bytes" mapstructure:"max-output-bytes"`

	// The embedding width the simulated engine produces. Real
	// engines read this from the model instead.
	EmbeddingDim int `yaml:"embedding-dim" mapstructure:"embedding-dim"`

	// The model file the backend loads and sends to initialize.
	ModelPath string `yaml:"model-path" mapstructure:"model-path"`

	// The enclaved address the backend dials.
	EnclavedAddr string `yaml:"enclaved-addr" mapstructure:"enclaved-addr"`

	// The tokenizer command the backend shells out to, and the
	// tokenizer data directory passed as its argument.
	TokenizerCommand string `yaml:"tokenizer-command" mapstructure:"tokenizer-command"`
	TokenizerDir     string `yaml:"tokenizer-dir" mapstructure:"tokenizer-dir"`

	// The address the backend HTTP server listens on, and the
	// directory of static frontend files it serves.
	BackendAddr string `yaml:"backend-addr" mapstructure:"backend-addr"`
	FrontendDir string `yaml:"frontend-dir" mapstructure:"frontend-dir"`

	// JSON files holding the positive and negative reference
	// embeddings for the sentiment heuristic.
	PositiveReference string `yaml:"positive-reference" mapstructure:"positive-reference"`
	NegativeReference string `yaml:"negative-reference" mapstructure:"negative-reference"`
}

// Limits returns the marshalling bounds this configuration asks for.
func (c *Configuration) Limits() Limits {
	return Limits{
		MaxModelBytes:  c.MaxModelBytes,
		MaxInputBytes:  c.MaxInputBytes,
		MaxOutputBytes: c.MaxOutputBytes,
	}.withDefaults()
}

// LoadConfiguration reads and unmarshals the YAML configuration file.
func LoadConfiguration(fileName string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(fileName)
	v.SetConfigType("yaml")

	v.SetDefault("simulate", true)
	v.SetDefault("listen-addr", "localhost:50051")
	v.SetDefault("max-sessions", -1)
	v.SetDefault("embedding-dim", 384)
	v.SetDefault("enclaved-addr", "localhost:50051")
	v.SetDefault("backend-addr", ":8080")
	v.SetDefault("frontend-dir", "./frontend")
	v.SetDefault("tokenizer-command", "python3 tokenize_script.py")
	v.SetDefault("tokenizer-dir", "./tokenizer")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	config := &Configuration{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "unmarshal config file")
	}
	if config.TLSCert == "" != (config.TLSKey == "") {
		return nil, errors.New("tls-cert and tls-key must be set together")
	}
	return config, nil
}
