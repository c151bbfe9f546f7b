package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// ReportVersion tags the serialized report layout so consumers can detect
// incompatible changes.
const ReportVersion = "1"

// reportEnvelope wraps a QualityReport with its layout version on the wire.
type reportEnvelope struct {
	Version string        `json:"version"`
	Report  QualityReport `json:"report"`
}

// EncodeReport serializes a report as indented JSON. Field order is fixed by
// the struct definitions, so the same report always encodes to identical
// bytes.
func EncodeReport(r QualityReport) ([]byte, error) {
	data, err := json.MarshalIndent(reportEnvelope{Version: ReportVersion, Report: r}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode quality report: %w", err)
	}
	return data, nil
}

// DecodeReport parses a serialized report, rejecting unknown layout versions.
func DecodeReport(data []byte) (QualityReport, error) {
	var env reportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return QualityReport{}, fmt.Errorf("decode quality report: %w", err)
	}
	if env.Version != ReportVersion {
		return QualityReport{}, fmt.Errorf("decode quality report: unsupported version %q", env.Version)
	}
	return env.Report, nil
}

// ReportDigest returns a short content digest of a report's scores, stable
// across runs because the timestamp is excluded. Used by the registry as a
// quilt-style top hash for the stored package revision.
func ReportDigest(r QualityReport) string {
	stripped := r
	stripped.Timestamp = time.Time{}
	data, err := json.Marshal(stripped)
	if err != nil {
		// QualityReport contains only marshalable types.
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
