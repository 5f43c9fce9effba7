package ai

import (
	"strings"

	"github.com/ycfeng/slimhub/internal/config"
)

const (
	ModeMock = "mock"
	ModeArk  = "ark"
)

func NewProvider(cfg *config.Config) Provider {
	mode := strings.ToLower(strings.TrimSpace(cfg.AIMode))
	if mode == "" {
		mode = ModeMock
	}

	switch mode {
	case ModeArk:
		return NewArkProvider(cfg)
	default:
		return NewMockProvider()
	}
}
