package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestLoadAppliesDefaults() {
	s.T().Setenv("OPENAI_API_KEY", "")
	os.Unsetenv("PDFRAG_TOP_K")
	os.Unsetenv("PDFRAG_CHAT_MODEL")

	cfg, err := Load()
	s.Require().NoError(err)
	s.Equal(ProviderOpenAI, cfg.Provider)
	s.Equal(DefaultOpenAIBaseURL, cfg.OpenAIBaseURL)
	s.Equal(5, cfg.TopK)
	s.Equal(700, cfg.ChunkMinTokens)
	s.Equal(1200, cfg.ChunkMaxTokens)
	s.Equal(20, cfg.MemoryMaxMessages)
}

func (s *ConfigTestSuite) TestLoadHonorsEnvOverrides() {
	s.T().Setenv("PDFRAG_TOP_K", "8")
	s.T().Setenv("PDFRAG_CHAT_MODEL", "gpt-4.1")
	s.T().Setenv("PDFRAG_PROVIDER", ProviderOllama)

	cfg, err := Load()
	s.Require().NoError(err)
	s.Equal(8, cfg.TopK)
	s.Equal("gpt-4.1", cfg.ChatModel)
	s.Equal(ProviderOllama, cfg.Provider)
}

func (s *ConfigTestSuite) TestLoadInvalidIntFallsBackToDefault() {
	s.T().Setenv("PDFRAG_TOP_K", "not-a-number")

	cfg, err := Load()
	s.Require().NoError(err)
	s.Equal(5, cfg.TopK)
}
