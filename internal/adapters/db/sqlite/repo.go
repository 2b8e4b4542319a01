package sqlite

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
)

// Repo is the shared base of the settings-store repositories.
type Repo struct {
	DB *sql.DB
	SQ sq.StatementBuilderType
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db, SQ: sq.StatementBuilder.PlaceholderFormat(sq.Question)}
}
