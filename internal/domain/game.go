package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ReleaseDateLayout задаёт формат release_date во входящих запросах и ответах.
const ReleaseDateLayout = "2006-01-02"

const (
	maxGameNameLength     = 255
	maxGameCategoryLength = 100
)

// Game — запись каталога.
type Game struct {
	ID          int64
	Name        string
	Category    string
	ReleaseDate time.Time
	Price       decimal.Decimal
	CreatedAt   time.Time
}

// GameInput содержит все изменяемые поля игры: используется и для создания, и для полной перезаписи.
type GameInput struct {
	Name        string
	Category    string
	ReleaseDate time.Time
	Price       decimal.Decimal
}

// Validate проверяет поля игры до обращения к хранилищу.
func (in GameInput) Validate() error {
	switch name := strings.TrimSpace(in.Name); {
	case name == "":
		return NewValidationError("name", "is required")
	case utf8.RuneCountInString(in.Name) > maxGameNameLength:
		return NewValidationError("name", "is too long")
	}
	switch category := strings.TrimSpace(in.Category); {
	case category == "":
		return NewValidationError("category", "is required")
	case utf8.RuneCountInString(in.Category) > maxGameCategoryLength:
		return NewValidationError("category", "is too long")
	}
	if in.ReleaseDate.IsZero() {
		return NewValidationError("release_date", "is required")
	}
	return validatePrice("price", in.Price, true)
}

// ParseReleaseDate разбирает дату в формате YYYY-MM-DD.
func ParseReleaseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, NewValidationError("release_date", "is required")
	}
	date, err := time.Parse(ReleaseDateLayout, raw)
	if err != nil {
		return time.Time{}, NewValidationError("release_date", "must be a date in YYYY-MM-DD format")
	}
	return date, nil
}

// Apply перезаписывает изменяемые поля игры.
func (g Game) Apply(in GameInput) Game {
	g.Name = in.Name
	g.Category = in.Category
	g.ReleaseDate = in.ReleaseDate
	g.Price = in.Price
	return g
}
