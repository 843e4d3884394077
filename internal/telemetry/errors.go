package telemetry

import "github.com/matthewwall/weewx-l7/internal/errors"

const (
	// Configuration errors
	ErrInvalidConfig = errors.ErrorCode("telemetry_invalid_config")
	ErrInvalidDBPath = errors.ErrorCode("telemetry_invalid_db_path")

	// Archiving errors
	ErrInvalidRecord = errors.ErrorCode("telemetry_invalid_record")
	ErrArchiveFailed = errors.ErrorCode("telemetry_archive_failed")

	// Storage errors
	ErrStorageAccess = errors.ErrorCode("telemetry_storage_access_failed")
	ErrStorageInit   = errors.ErrorCode("telemetry_storage_init_failed")
	ErrStorageClose  = errors.ErrorCode("telemetry_storage_close_failed")

	// Operation errors
	ErrOperationTimeout = errors.ErrorCode("telemetry_operation_timeout")
	ErrServiceShutdown  = errors.ErrorCode("telemetry_service_shutdown_failed")
)
