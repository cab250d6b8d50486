package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/passport/internal/catalog"
	"github.com/sadopc/passport/internal/session"
)

var csvHeader = []string{"#", "Key", "Country", "Completed", "Drink", "Rating", "Notes", "Photo", "Updated"}

func ToCSV(st session.State, cat *catalog.Catalog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range Records(st, cat) {
		row := []string{
			strconv.Itoa(r.Position),
			r.Key,
			r.Country,
			yesNo(r.Completed),
			r.Drink,
			r.Rating,
			r.Notes,
			r.Photo,
			r.UpdatedAt,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
