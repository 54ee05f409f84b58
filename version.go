package inertia

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"go.uber.org/zap"
)

// Versioner computes the current asset version. ok is false when no
// version is available, which disables version negotiation.
type Versioner interface {
	Version() (version string, ok bool)
}

// VersionFunc adapts a function to Versioner.
type VersionFunc func() (string, bool)

// Version calls f.
func (f VersionFunc) Version() (string, bool) { return f() }

// StaticVersion always reports v. An empty v means no version.
func StaticVersion(v string) Versioner {
	return VersionFunc(func() (string, bool) { return v, v != "" })
}

// ManifestVersion hashes the build manifest at path on every call, so a
// rebuilt frontend is picked up without a restart. A missing or
// unreadable manifest yields no version.
func ManifestVersion(path string, logger *zap.Logger) Versioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return VersionFunc(func() (string, bool) {
		sum, err := hashFile(path)
		if err != nil {
			logger.Debug("asset manifest unavailable", zap.String("path", path), zap.Error(err))
			return "", false
		}
		return sum, true
	})
}

// hashFile returns the hex SHA-256 of the file at path.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
