// Package service orchestrates the engine: session tracking, command
// translation, agent round trips, reply parsing and metadata updates.
package service

import (
	"github.com/sirupsen/logrus"

	"github.com/procureai/engine/internal/adapter/agent"
	"github.com/procureai/engine/internal/config"
	store "github.com/procureai/engine/internal/repository"
	"github.com/procureai/engine/policy"
)

type Service struct {
	store  store.Store
	agent  agent.Client
	policy *policy.Engine
	config *config.Config
	log    *logrus.Logger
}

func New(store store.Store, agentClient agent.Client, policyEngine *policy.Engine, cfg *config.Config, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		store:  store,
		agent:  agentClient,
		policy: policyEngine,
		config: cfg,
		log:    log,
	}
}
