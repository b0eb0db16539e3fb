package repository

import (
	"time"

	"gorm.io/gorm"
)

// createdWithin narrows a query by creation time. Unknown filter values leave
// the query untouched.
func createdWithin(query *gorm.DB, filter string) *gorm.DB {
	now := time.Now()
	switch filter {
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return query.Where("created_at >= ?", start)
	case "last_7_days":
		return query.Where("created_at >= ?", now.AddDate(0, 0, -7))
	case "last_30_days":
		return query.Where("created_at >= ?", now.AddDate(0, 0, -30))
	default:
		return query
	}
}
