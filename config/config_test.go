package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	var err error
	s.origDir, err = os.Getwd()
	require.NoError(s.T(), err)

	s.tempDir = s.T().TempDir()
	require.NoError(s.T(), os.Chdir(s.tempDir))

	s.T().Setenv(DefaultAPIKeyEnv, "test-key")
}

func (s *ConfigTestSuite) TearDownTest() {
	if s.origDir != "" {
		_ = os.Chdir(s.origDir)
	}
}

func (s *ConfigTestSuite) writeConfig(content string) string {
	p := filepath.Join(s.tempDir, "tutor.yaml")
	require.NoError(s.T(), os.WriteFile(p, []byte(content), 0o644))
	return p
}

func (s *ConfigTestSuite) TestLoadDefaultsWithoutFile() {
	cfg, err := Load("")
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 3000, cfg.Server.Port)
	assert.Equal(s.T(), []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(s.T(), ProviderOpenAI, cfg.GenAI.Provider)
	assert.Equal(s.T(), DefaultBaseURL, cfg.GenAI.BaseURL)
	assert.Equal(s.T(), DefaultModel, cfg.GenAI.Model)
	assert.Equal(s.T(), "test-key", cfg.GenAI.APIKey)
	assert.Equal(s.T(), 5, cfg.GenAI.MaxRetries)
	assert.Equal(s.T(), 2*time.Second, cfg.RetryBackoff())
	assert.Equal(s.T(), 120*time.Second, cfg.RequestTimeout())
	assert.Equal(s.T(), ModeServer, cfg.Conversation.Mode)
	assert.Equal(s.T(), 20, cfg.Conversation.MaxContextTurns)
	assert.Equal(s.T(), time.Hour, cfg.SessionTTL())
	assert.True(s.T(), cfg.Metrics.Enabled)
	assert.Equal(s.T(), "/metrics", cfg.Metrics.Path)
}

func (s *ConfigTestSuite) TestLoadFromFile() {
	p := s.writeConfig(`
server:
  port: 8088
genai:
  model: gemini-1.5-flash
  api_key_env: MY_TUTOR_KEY
  max_retries: 3
  retry_backoff_ms: 500
conversation:
  mode: stateless
  max_context_turns: 6
log:
  level: debug
  format: json
`)
	s.T().Setenv("MY_TUTOR_KEY", "file-key")

	cfg, err := Load(p)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 8088, cfg.Server.Port)
	assert.Equal(s.T(), "gemini-1.5-flash", cfg.GenAI.Model)
	assert.Equal(s.T(), "file-key", cfg.GenAI.APIKey)
	assert.Equal(s.T(), 3, cfg.GenAI.MaxRetries)
	assert.Equal(s.T(), 500*time.Millisecond, cfg.RetryBackoff())
	assert.Equal(s.T(), ModeStateless, cfg.Conversation.Mode)
	assert.Equal(s.T(), 6, cfg.Conversation.MaxContextTurns)
	assert.Equal(s.T(), "debug", cfg.Log.Level)
	assert.Equal(s.T(), "json", cfg.Log.Format)
	// untouched keys keep their defaults
	assert.Equal(s.T(), DefaultBaseURL, cfg.GenAI.BaseURL)
}

func (s *ConfigTestSuite) TestEnvOverridesFile() {
	p := s.writeConfig("server:\n  port: 8088\n")
	s.T().Setenv("TUTOR_SERVER_PORT", "9099")

	cfg, err := Load(p)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 9099, cfg.Server.Port)
}

func (s *ConfigTestSuite) TestMissingAPIKey() {
	s.T().Setenv(DefaultAPIKeyEnv, "")

	_, err := Load("")
	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), DefaultAPIKeyEnv)
}

func (s *ConfigTestSuite) TestEchoProviderNeedsNoKey() {
	s.T().Setenv(DefaultAPIKeyEnv, "")
	p := s.writeConfig("genai:\n  provider: echo\n")

	cfg, err := Load(p)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), ProviderEcho, cfg.GenAI.Provider)
	assert.Empty(s.T(), cfg.GenAI.APIKey)
}

func (s *ConfigTestSuite) TestRejectsUnknownMode() {
	p := s.writeConfig("conversation:\n  mode: shared\n")

	_, err := Load(p)
	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "conversation.mode")
}

func (s *ConfigTestSuite) TestMissingExplicitFile() {
	_, err := Load(filepath.Join(s.tempDir, "nope.yaml"))
	require.Error(s.T(), err)
}
