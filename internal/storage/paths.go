package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "attackgen"

// DefaultDir is the store_dir value that selects the per-platform store
// directory returned by GetStoreDir.
const DefaultDir = "default"

// dataHome returns the per-user base directory applications keep data in.
func dataHome() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// GetDataDir returns the application data directory, creating it.
//   - macOS: ~/Library/Application Support/attackgen/
//   - Linux: $XDG_DATA_HOME/attackgen/ or ~/.local/share/attackgen/
//   - Windows: %APPDATA%/attackgen/
func GetDataDir() (string, error) {
	base, err := dataHome()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetStoreDir returns the default directory of the table store, creating it.
func GetStoreDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(dataDir, "store")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
