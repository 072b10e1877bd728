package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"workconnect/internal/model"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
	dateLayout      = "2006-01-02"
)

var phonePattern = regexp.MustCompile(`^[0-9+()\-\s]{7,20}$`)

// Notifier delivers in-app notifications. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

func pageBounds(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, clampLimit(limit, defaultPageSize, maxPageSize)
}

func clampLimit(limit int, fallback int, ceiling int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > ceiling {
		return ceiling
	}
	return limit
}

// parseDate returns nil for blank input; callers validate the layout first.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

func validPhone(v string) bool {
	return phonePattern.MatchString(strings.TrimSpace(v))
}

func logBestEffort(msg string, err error, attrs ...any) {
	if err == nil {
		return
	}
	slog.Warn(msg, append(attrs, "error", err)...)
}
