// Package main содержит точку входа консольного клиента taskctl.
//
// Версия и дата сборки задаются при компиляции:
//
//	go build -ldflags "-X main.buildVersion=v1.0.0 -X main.buildDate=2026-01-01" ./cmd/taskctl
package main

import "github.com/IvanChernomyrdin/go-taskboard/internal/agent/cli"

var (
	// buildVersion содержит версию приложения, передаваемую при сборке.
	buildVersion = "dev"
	// buildDate содержит дату сборки приложения.
	buildDate = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
