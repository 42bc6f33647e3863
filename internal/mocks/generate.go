// Package mocks provides mock implementations for testing the notify-api job system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository interfaces, plus hand-written test doubles under mocks/core
// for cases where a simple func-field fake reads better than codegen.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for JobRepository interface from internal/core package.
//go:generate go tool mockgen -package=mocks -destination=job_repository_mock.go github.com/festivo/notify-api/internal/core JobRepository

// Generate mock for GuestDirectory interface from internal/core package.
//go:generate go tool mockgen -package=mocks -destination=guest_directory_mock.go github.com/festivo/notify-api/internal/core GuestDirectory
