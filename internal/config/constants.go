package config

// Default paths for databases and run artifacts
const (
	// DefaultDatabasePath is the default path for the content store database
	DefaultDatabasePath = "./curriculum.db"

	// DefaultManifestName is the manifest file name inside an export directory
	DefaultManifestName = "export_manifest.json"

	// DefaultAssetDir is where migrated assets are copied to
	DefaultAssetDir = "./public/assets/studygo"

	// DefaultPublicAssetPrefix is the public URL prefix rewritten into content
	DefaultPublicAssetPrefix = "/assets/studygo"

	DefaultLogPath    = "./import_log.jsonl"
	DefaultReportPath = "./import_report.json"

	// DefaultOwnerID is written to owner columns when no owner is configured
	DefaultOwnerID = "00000000-0000-0000-0000-000000000000"
)
