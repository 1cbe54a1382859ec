package sbom

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Manifest is the subset of an SPDX 2.2 document the scan consumes.
type Manifest struct {
	Name              string    `json:"name"`
	SPDXID            string    `json:"SPDXID"`
	DocumentNamespace string    `json:"documentNamespace"`
	Packages          []Package `json:"packages"`
}

// Package is one SPDX package entry.
type Package struct {
	SPDXID            string        `json:"SPDXID"`
	Name              string        `json:"name"`
	VersionInfo       string        `json:"versionInfo"`
	LicenseDeclared   string        `json:"licenseDeclared"`
	LicenseConcluded  string        `json:"licenseConcluded"`
	ExternalRefs      []ExternalRef `json:"externalRefs"`
}

// ExternalRef carries the purl/cpe locators used for CVE matching.
type ExternalRef struct {
	ReferenceType    string `json:"referenceType"`
	ReferenceLocator string `json:"referenceLocator"`
}

// Component is the flattened per-package view returned to the client.
type Component struct {
	SPDXID   string   `json:"spdx_id"`
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	PURL     string   `json:"purl,omitempty"`
	CPE      string   `json:"cpe23,omitempty"`
	Licenses Licenses `json:"licenses"`
}

// Licenses holds the declared and concluded license expressions.
type Licenses struct {
	Declared  string `json:"declared,omitempty"`
	Concluded string `json:"concluded,omitempty"`
}

// ParseManifest reads and decodes an SPDX manifest file.
func ParseManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return DecodeManifest(f)
}

// DecodeManifest decodes an SPDX manifest from r.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// Components extracts the minimal component list needed for CVE matching.
func (m *Manifest) Components() []Component {
	components := make([]Component, 0, len(m.Packages))
	for _, pkg := range m.Packages {
		comp := Component{
			SPDXID:  pkg.SPDXID,
			Name:    pkg.Name,
			Version: pkg.VersionInfo,
			Licenses: Licenses{
				Declared:  pkg.LicenseDeclared,
				Concluded: pkg.LicenseConcluded,
			},
		}
		for _, ref := range pkg.ExternalRefs {
			switch ref.ReferenceType {
			case "purl":
				comp.PURL = ref.ReferenceLocator
			case "cpe23Type":
				comp.CPE = ref.ReferenceLocator
			}
		}
		components = append(components, comp)
	}
	return components
}
