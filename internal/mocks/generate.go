// Package mocks provides mock implementations for testing the beacon audit system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockAuditRepository(ctrl)
//	mockRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

// Generate mock for AuditRepository interface from internal/core package.
// This creates MockAuditRepository with methods for all AuditRepository interface methods:
// CreateWithResults, GetByID, ListByOwner, SetResultFailed, SetJobFailed, WithJobLock, ResultStatusesTx, SetJobStatusTx
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=audit_repository_mock.go github.com/feru-app/beacon/internal/core AuditRepository

// Generate mock for ResultRepository interface from internal/core package.
// This creates MockResultRepository with methods for all ResultRepository interface methods:
// JobIDForResult, ApplyTerminal, SetRunningByJobRegion
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=result_repository_mock.go github.com/feru-app/beacon/internal/core ResultRepository

// Generate mock for MonitorRepository interface from internal/core package.
// This creates MockMonitorRepository with methods for all MonitorRepository interface methods:
// Create, GetByID, ListByOwner, CountByOwner, Delete, LinkJob, TouchLastRun, FindDue, TryWithMonitorLock
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=monitor_repository_mock.go github.com/feru-app/beacon/internal/core MonitorRepository

// Generate mock for TaskLauncher interface from internal/core package.
// This creates MockTaskLauncher with methods for all TaskLauncher interface methods:
// Launch
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=task_launcher_mock.go github.com/feru-app/beacon/internal/core TaskLauncher

// Generate mock for DeliveryDedupe interface from internal/core package.
// This creates MockDeliveryDedupe with methods for all DeliveryDedupe interface methods:
// AlreadyDelivered, MarkDelivered
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=delivery_dedupe_mock.go github.com/feru-app/beacon/internal/core DeliveryDedupe
