package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/passport/internal/catalog"
	"github.com/sadopc/passport/internal/session"
)

func ToJSON(st session.State, cat *catalog.Catalog, path string) error {
	data, err := json.MarshalIndent(NewReport(st, cat, time.Now()), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
