package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coverflow/pkg/domainerrors"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) setRequired() {
	s.T().Setenv("INSURER_BASE_URL", "https://api.insurer.example")
	s.T().Setenv("INSURER_CLIENT_ID", "client-id")
	s.T().Setenv("INSURER_CLIENT_SECRET", "client-secret")
}

func (s *ConfigSuite) TestFromEnv() {
	s.Run("defaults are applied", func() {
		s.setRequired()

		cfg, err := FromEnv()
		s.Require().NoError(err)
		s.Equal(":8080", cfg.Addr)
		s.Equal("sandbox", cfg.Insurer.Environment)
		s.Equal(30*time.Second, cfg.Insurer.Timeout)
		s.Equal("coverflow.audit", cfg.AuditKafkaTopic)
		s.Empty(cfg.AuditKafkaBrokers)
	})

	s.Run("missing credentials fail with a config code", func() {
		s.setRequired()
		s.T().Setenv("INSURER_CLIENT_SECRET", "")

		_, err := FromEnv()
		s.Require().Error(err)
		s.Equal(domainerrors.CodeConfig, domainerrors.CodeOf(err))
		s.Contains(err.Error(), "INSURER_CLIENT_SECRET")
	})

	s.Run("timeout is parsed as a duration", func() {
		s.setRequired()
		s.T().Setenv("INSURER_TIMEOUT", "45s")

		cfg, err := FromEnv()
		s.Require().NoError(err)
		s.Equal(45*time.Second, cfg.Insurer.Timeout)
	})

	s.Run("malformed timeout fails", func() {
		s.setRequired()
		s.T().Setenv("INSURER_TIMEOUT", "soon")

		_, err := FromEnv()
		s.Require().Error(err)
		s.Equal(domainerrors.CodeConfig, domainerrors.CodeOf(err))
	})

	s.Run("kafka brokers are split and trimmed", func() {
		s.setRequired()
		s.T().Setenv("AUDIT_KAFKA_BROKERS", "broker-1:9092, broker-2:9092 ,")

		cfg, err := FromEnv()
		s.Require().NoError(err)
		s.Equal([]string{"broker-1:9092", "broker-2:9092"}, cfg.AuditKafkaBrokers)
	})
}
