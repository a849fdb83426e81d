package commits

import (
	"sort"

	"github.com/alexanderramin/nippo/internal/domain"
)

// SortByDateDesc orders commits newest first. Equal dates keep their input order.
func SortByDateDesc(records []domain.CommitRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}
