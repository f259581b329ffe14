package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/task-manager/internal/utils"
)

// likeEscape is the escape character used by Contains. '!' behaves the same
// on postgres, mysql and sqlite, unlike the backslash.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// Contains filters rows whose column contains term as given, ignoring case.
// A blank or whitespace-only term leaves the query untouched. column must be
// a trusted identifier.
func Contains(column, term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(term) == "" {
			return db
		}
		pattern := "%" + likeReplacer.Replace(strings.ToLower(term)) + "%"
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '"+likeEscape+"'", pattern)
	}
}
