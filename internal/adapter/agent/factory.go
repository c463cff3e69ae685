package agent

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// EnvAgentMode is the environment variable name for mode selection.
	EnvAgentMode = "AGENT_MODE"
	// ModeMock indicates the scripted mock agent should be used.
	ModeMock = "MOCK"
)

// New creates an agent client based on the AGENT_MODE environment variable.
// If AGENT_MODE=MOCK, returns a MockClient; otherwise returns an HTTPClient.
func New(baseURL, apiKey string, timeout time.Duration) Client {
	if os.Getenv(EnvAgentMode) == ModeMock {
		logrus.Info("AGENT_MODE=MOCK detected, using mock agent client")
		return NewMockClient()
	}
	return NewHTTPClient(baseURL, apiKey, timeout)
}
