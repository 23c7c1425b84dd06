// Package config defines default configuration for cluster access, analysis,
// planning, and result storage.
package config

import "time"

// ClusterConfig defines how the advisor reaches an HDFS cluster.
type ClusterConfig struct {
	// Host is the NameNode hostname.
	Host string `mapstructure:"host"`
	// Port is the NameNode RPC port.
	Port int `mapstructure:"port"`
	// WebPort is the NameNode HTTP port serving WebHDFS and JMX.
	WebPort int `mapstructure:"web_port"`
	// User is the identity passed as user.name on WebHDFS calls.
	User string `mapstructure:"user"`
	// AuthType selects the authentication scheme ("simple" or "kerberos").
	AuthType string `mapstructure:"auth_type"`
	// Timeout bounds individual NameNode HTTP requests.
	Timeout time.Duration `mapstructure:"timeout"`
}

// AdvisorConfig defines settings for the LLM-backed recommendation layer.
type AdvisorConfig struct {
	// Provider names the model backend. Only "gemini" is wired today.
	Provider string `mapstructure:"provider"`
	// Model is the model identifier sent to the provider.
	Model string `mapstructure:"model"`
	// APIKey authenticates against the provider. Redacted in logs.
	APIKey string `mapstructure:"api_key"`
	// MaxTokens caps the response size.
	MaxTokens int `mapstructure:"max_tokens"`
	// Temperature controls sampling. Kept low for reproducible plans.
	Temperature float64 `mapstructure:"temperature"`
	// Timeout bounds a single analysis request.
	Timeout time.Duration `mapstructure:"timeout"`
}

// StoreConfig selects where scan results and plans are persisted.
type StoreConfig struct {
	// Backend is one of "memory", "local", or "s3".
	Backend string `mapstructure:"backend"`
	// Dir is the root directory for the local backend.
	Dir string `mapstructure:"dir"`
	// Bucket is the S3 bucket for the s3 backend.
	Bucket string `mapstructure:"bucket"`
	// Prefix is prepended to every S3 key.
	Prefix string `mapstructure:"prefix"`
	// Region overrides the SDK default region for the s3 backend.
	Region string `mapstructure:"region"`
}

// Defaults.
const (
	DefaultRegion = "us-east-1"
)

// DefaultClusterConfig returns connection defaults for a single-node dev cluster.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		Host:     "localhost",
		Port:     9000,
		WebPort:  9870,
		User:     "hadoop",
		AuthType: "simple",
		Timeout:  30 * time.Second,
	}
}

// DefaultAdvisorConfig returns advisor defaults. The API key must come from
// the environment or config file.
func DefaultAdvisorConfig() AdvisorConfig {
	return AdvisorConfig{
		Provider:    "gemini",
		Model:       "gemini-2.0-flash",
		MaxTokens:   3000,
		Temperature: 0.3,
		Timeout:     60 * time.Second,
	}
}

// DefaultStoreConfig returns the local filesystem store rooted under the
// user's state directory.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Backend: "local",
		Dir:     "~/.hdfslash/store",
		Region:  DefaultRegion,
	}
}
