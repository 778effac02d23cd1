package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Pagination is a cursor-based page request. A zero PageSize means the
// caller wants everything.
type Pagination struct {
	PageToken string
	PageSize  int
}

type Cursor struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(c Cursor) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid page token: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, fmt.Errorf("invalid page token: %w", err)
	}
	return c, nil
}

// Apply adds the cursor predicate and over-fetches one row so the caller can
// detect a next page. Results must be ordered by (created_at desc, id desc).
func (p Pagination) Apply(query *gorm.DB) *gorm.DB {
	return p.ApplyColumns(query, "created_at", "id")
}

// ApplyColumns is Apply with qualified column names for joined queries.
func (p Pagination) ApplyColumns(query *gorm.DB, createdAtCol, idCol string) *gorm.DB {
	if p.PageToken != "" {
		cursor, err := DecodeCursor(p.PageToken)
		if err == nil {
			if at, parseErr := time.Parse(time.RFC3339, cursor.CreatedAt); parseErr == nil {
				predicate := fmt.Sprintf(
					"%s < ? OR (%s = ? AND %s < ?)",
					createdAtCol, createdAtCol, idCol,
				)
				query = query.Where(predicate, at, at, cursor.ID)
			}
		}
	}
	if p.PageSize > 0 {
		query = query.Limit(p.PageSize + 1)
	}
	return query
}

// BuildCursorPageInfo inspects an over-fetched result set and produces the
// next-page token from the last row that fits in the page.
func BuildCursorPageInfo[T any](items []T, pageSize int, token func(T) string) *PageInfo {
	if pageSize <= 0 {
		return nil
	}
	info := &PageInfo{}
	if len(items) > pageSize {
		info.HasMore = true
		info.NextPageToken = token(items[pageSize-1])
	}
	return info
}
