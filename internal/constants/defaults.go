package constants

// Default bridge configuration values
const (
	DefaultBridgeTimeoutSec     = 30
	DefaultBridgeMaxAttempts    = 3
	DefaultBridgeRateLimit      = 20
	DefaultBridgeRateBurst      = 40
	DefaultBackoffInitialMs     = 500
	DefaultBackoffMaxSec        = 5
	DefaultBreakerFailures      = 5
	DefaultBreakerOpenSec       = 30
	DefaultBreakerHalfOpenCalls = 1
)

// Default snapshot store values
const (
	DefaultRetentionDays        = 30
	DefaultCleanupIntervalHours = 24
)

// Default daemon values
const (
	DefaultServerPort            = 8090
	DefaultGracefulShutdownSec   = 30
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultMaxEventBodyBytes     = 10 * 1024 * 1024
)

// Media and sticker values
const (
	DefaultMediaDownloadTimeoutSec = 60
	MaxImageDownloadMB             = 5
	MaxAudioDownloadMB             = 16
	MaxVideoDownloadMB             = 100
	MaxDocumentDownloadMB          = 100
	MediaAcceptHeader              = "image/* video/* text/* audio/*"
	StickerSize                    = 512
	DefaultStickerName             = "whatsweb"
	DefaultStickerAuthor           = "whatsweb"
)

// Snapshot store encryption and retry values
const (
	EncryptionSalt            = "whatsweb-snapshot-store-v1"
	EncryptionLookupSalt      = "whatsweb-snapshot-lookup-v1"
	EncryptionKeySize         = 32
	EncryptionNonceSize       = 12
	EncryptionIterations      = 100000
	MinEncryptionSecretLength = 32

	DefaultStoreRetryAttempts  = 3
	DefaultStoreRetryBackoffMs = 100
	DefaultStoreMaxBackoffMs   = 1000
)
