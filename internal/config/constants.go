package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the SQLite database used in development
	DefaultDatabasePath = "./foundation.db"

	// DefaultUploadDir is where uploaded media and attachments are stored
	DefaultUploadDir = "./uploads"

	// DefaultUploadMaxBytes caps a single uploaded file
	DefaultUploadMaxBytes = 5 * 1024 * 1024
)
