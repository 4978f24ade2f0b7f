package ui

import (
	"encoding/json"
	"fmt"
	"os"

	"trackmatch/internal/common"
)

// FingerprintFile is the exchange format produced by the external extractor.
type FingerprintFile struct {
	Track        TrackMeta            `json:"track"`
	Fingerprints []common.Fingerprint `json:"fingerprints"`
}

type TrackMeta struct {
	Name     string `json:"name"`
	FileSHA1 string `json:"file_sha1"`
}

func ReadFingerprintFile(path string) (f FingerprintFile, err error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read fingerprint file: %w", err)
	}
	if err = json.Unmarshal(body, &f); err != nil {
		return f, fmt.Errorf("decode fingerprint file %s: %w", path, err)
	}
	if len(f.Fingerprints) == 0 {
		return f, fmt.Errorf("fingerprint file %s holds no fingerprints", path)
	}
	return f, nil
}
