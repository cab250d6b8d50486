package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/passport/internal/catalog"
	"github.com/sadopc/passport/internal/session"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var Formats = []Format{FormatCSV, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write exports st in format f to path.
func Write(f Format, st session.State, cat *catalog.Catalog, path string) error {
	switch f {
	case FormatCSV:
		return ToCSV(st, cat, path)
	case FormatJSON:
		return ToJSON(st, cat, path)
	case FormatYAML:
		return ToYAML(st, cat, path)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// DefaultPath names an export file in dir, e.g. passport-20260314-1800.csv.
func DefaultPath(dir string, f Format, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("passport-%s.%s", now.Format("20060102-1504"), f))
}
