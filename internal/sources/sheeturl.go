package sources

import (
	"os"
	"strings"
)

// Origins of the resolved spreadsheet URL
const (
	URLFromExplicit = "explicit"
	URLFromSidecar  = "sidecar"
	URLFromOverride = "override"
	URLUnset        = "unset"
)

type sidecarConfig struct {
	CSVURL string `json:"csvUrl"`
	URL    string `json:"url"`
}

// ResolveSheetURL picks the spreadsheet export URL by priority: explicit value,
// sidecar config file, then the override document field.
func ResolveSheetURL(explicit, sidecarPath string, doc OverrideDocument) (string, string) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, URLFromExplicit
	}
	if sidecarPath != "" {
		if data, err := os.ReadFile(sidecarPath); err == nil {
			var sc sidecarConfig
			if err := json.Unmarshal(data, &sc); err == nil {
				if v := strings.TrimSpace(sc.CSVURL); v != "" {
					return v, URLFromSidecar
				}
				if v := strings.TrimSpace(sc.URL); v != "" {
					return v, URLFromSidecar
				}
			}
		}
	}
	if v := strings.TrimSpace(doc.SheetCSVURL); v != "" {
		return v, URLFromOverride
	}
	return "", URLUnset
}
