package tablefile

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash"
)

// ManifestFile lists every artifact of a run with its digest.
const ManifestFile = "manifest.json"

// ManifestEntry describes one artifact.
type ManifestEntry struct {
	Name   string `json:"name"`
	Size   int    `json:"size"`
	Digest string `json:"xxhash64"`
}

// Manifest describes the artifacts of one generation run. Two runs of the
// same generator produce identical manifests.
type Manifest struct {
	Format    string          `json:"format"`
	Artifacts []ManifestEntry `json:"artifacts"`
}

const formatVersion = "le-u32-u64/1"

// NewManifest digests the artifacts.
func NewManifest(artifacts []Artifact) *Manifest {
	m := &Manifest{Format: formatVersion}
	for _, a := range artifacts {
		m.Artifacts = append(m.Artifacts, ManifestEntry{
			Name:   a.Name,
			Size:   len(a.Data),
			Digest: Digest(a.Data),
		})
	}
	return m
}

// Digest returns the hex xxhash64 of data.
func Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Check reports the first artifact whose digest differs from the manifest.
func (m *Manifest) Check(artifacts []Artifact) error {
	want := make(map[string]string, len(m.Artifacts))
	for _, e := range m.Artifacts {
		want[e.Name] = e.Digest
	}
	for _, a := range artifacts {
		d, ok := want[a.Name]
		if !ok {
			return fmt.Errorf("artifact %s not in manifest", a.Name)
		}
		if got := Digest(a.Data); got != d {
			return fmt.Errorf("artifact %s digest %s, manifest has %s", a.Name, got, d)
		}
	}
	return nil
}

// Marshal encodes the manifest as indented JSON.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteManifest writes the manifest into dir.
func WriteManifest(dir string, m *Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return WriteFileAtomic(filepath.Join(dir, ManifestFile), data)
}
