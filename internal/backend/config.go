package backend

import (
	"errors"
	"fmt"

	"taxiledger/internal/config"
)

// FromAppConfig extracts the store settings from the application config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s (must be one of %v)", appConfig.DataBackend, GetBackendTypeStrings())
	}

	return Config{
		Type:         backendType,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		SeedFile:     appConfig.SeedFile,
		SeedDefaults: true,
	}, nil
}

// MirrorFromAppConfig extracts the spreadsheet mirror settings.
func MirrorFromAppConfig(appConfig *config.Config) MirrorConfig {
	if appConfig == nil {
		return MirrorConfig{}
	}
	return MirrorConfig{
		SpreadsheetID:   appConfig.GoogleSpreadsheetID,
		SheetName:       appConfig.GoogleSheetName,
		CredentialsFile: appConfig.GoogleCredentialsFile,
		CredentialsJSON: appConfig.GoogleCredentialsJSON,
		BatchSize:       appConfig.SyncBatchSize,
	}
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s (must be one of %v)", c.Type, GetBackendTypeStrings())
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return errors.New("SQLite database path is required for sqlite backend")
		}
	case MemoryBackend:
	}
	return nil
}

func (c MirrorConfig) Validate() error {
	if c.SpreadsheetID == "" {
		return nil
	}
	if c.SheetName == "" {
		return errors.New("Google Sheet name is required when a spreadsheet ID is set")
	}
	if c.CredentialsFile == "" && c.CredentialsJSON == "" {
		return errors.New("either a credentials file or credentials JSON must be provided for the sheets mirror")
	}
	return nil
}

func GetBackendTypes() []BackendType {
	return []BackendType{SQLiteBackend, MemoryBackend}
}

func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
