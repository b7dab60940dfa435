// Command load-data bulk-imports CSV fixtures into the database. Each
// entity kind has a row mapper; the load loop itself is shared. A kind
// that already has rows in its table is skipped, so re-running the
// command is harmless.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/gorm"

	"reviewhub/database"
	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/models"
)

type titleGenre struct {
	TitleID int64 `gorm:"column:title_id"`
	GenreID int64 `gorm:"column:genre_id"`
}

func (titleGenre) TableName() string { return "title_genres" }

// entityLoader binds one CSV file to a table via a row mapper.
type entityLoader struct {
	file  string
	table string
	row   func(rec map[string]string) (any, error)
}

var loaders = []entityLoader{
	{
		file:  "category.csv",
		table: "categories",
		row: func(rec map[string]string) (any, error) {
			id, err := atoi64(rec["id"])
			if err != nil {
				return nil, err
			}
			return &models.Category{ID: id, Name: rec["name"], Slug: rec["slug"]}, nil
		},
	},
	{
		file:  "genre.csv",
		table: "genres",
		row: func(rec map[string]string) (any, error) {
			id, err := atoi64(rec["id"])
			if err != nil {
				return nil, err
			}
			return &models.Genre{ID: id, Name: rec["name"], Slug: rec["slug"]}, nil
		},
	},
	{
		file:  "users.csv",
		table: "users",
		row: func(rec map[string]string) (any, error) {
			return &models.User{
				ID:        rec["id"],
				Username:  rec["username"],
				Email:     rec["email"],
				Role:      rec["role"],
				Bio:       rec["bio"],
				FirstName: rec["first_name"],
				LastName:  rec["last_name"],
			}, nil
		},
	},
	{
		file:  "titles.csv",
		table: "titles",
		row: func(rec map[string]string) (any, error) {
			id, err := atoi64(rec["id"])
			if err != nil {
				return nil, err
			}
			year, err := strconv.Atoi(rec["year"])
			if err != nil {
				return nil, err
			}
			categoryID, err := atoi64(rec["category"])
			if err != nil {
				return nil, err
			}
			return &models.Title{ID: id, Name: rec["name"], Year: year, CategoryID: categoryID}, nil
		},
	},
	{
		file:  "genre_title.csv",
		table: "title_genres",
		row: func(rec map[string]string) (any, error) {
			titleID, err := atoi64(rec["title_id"])
			if err != nil {
				return nil, err
			}
			genreID, err := atoi64(rec["genre_id"])
			if err != nil {
				return nil, err
			}
			return &titleGenre{TitleID: titleID, GenreID: genreID}, nil
		},
	},
	{
		file:  "review.csv",
		table: "reviews",
		row: func(rec map[string]string) (any, error) {
			id, err := atoi64(rec["id"])
			if err != nil {
				return nil, err
			}
			titleID, err := atoi64(rec["title_id"])
			if err != nil {
				return nil, err
			}
			score, err := strconv.Atoi(rec["score"])
			if err != nil {
				return nil, err
			}
			pubDate, err := parseDate(rec["pub_date"])
			if err != nil {
				return nil, err
			}
			return &models.Review{
				ID:       id,
				TitleID:  titleID,
				AuthorID: rec["author"],
				Text:     rec["text"],
				Score:    score,
				PubDate:  pubDate,
			}, nil
		},
	},
	{
		file:  "comments.csv",
		table: "comments",
		row: func(rec map[string]string) (any, error) {
			id, err := atoi64(rec["id"])
			if err != nil {
				return nil, err
			}
			reviewID, err := atoi64(rec["review_id"])
			if err != nil {
				return nil, err
			}
			pubDate, err := parseDate(rec["pub_date"])
			if err != nil {
				return nil, err
			}
			return &models.Comment{
				ID:       id,
				ReviewID: reviewID,
				AuthorID: rec["author"],
				Text:     rec["text"],
				PubDate:  pubDate,
			}, nil
		},
	},
}

func main() {
	dir := flag.String("dir", "static/data", "directory with CSV fixtures")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	for _, l := range loaders {
		if err := load(db, logger, *dir, l); err != nil {
			log.Fatalf("load %s: %v", l.file, err)
		}
	}
}

func load(db *gorm.DB, logger *slog.Logger, dir string, l entityLoader) error {
	var count int64
	if err := db.Table(l.table).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("table already populated, skipping", "table", l.table)
		return nil
	}

	f, err := os.Open(filepath.Join(dir, l.file))
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	loaded := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}

		obj, err := l.row(rec)
		if err != nil {
			return fmt.Errorf("row %d: %w", loaded+2, err)
		}
		if err := db.Create(obj).Error; err != nil {
			return fmt.Errorf("row %d: %w", loaded+2, err)
		}
		loaded++
	}

	logger.Info("loaded", "table", l.table, "rows", loaded)
	return nil
}

func atoi64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
