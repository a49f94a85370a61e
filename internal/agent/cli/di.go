package cli

import (
	"github.com/IvanChernomyrdin/go-taskboard/internal/agent/api"
)

// для тестов
var (
	NewAPIClient = func(baseURL string, insecure bool) *api.Client {
		if insecure {
			return api.NewClient(baseURL, api.WithInsecureTLS())
		}
		return api.NewClient(baseURL)
	}
	ReadPassword = readPassword
)
