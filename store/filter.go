package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidFilter marks a malformed search filter. The HTTP layer surfaces
// it as a client error rather than swallowing it.
var ErrInvalidFilter = errors.New("invalid filter")

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// Page carries client-requested pagination. Zero values select the defaults.
type Page struct {
	Current int `form:"current" json:"current"`
	Size    int `form:"size" json:"size"`
}

// Normalized applies the default page and size.
func (p Page) Normalized() Page {
	if p.Current <= 0 {
		p.Current = defaultPage
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	return p
}

func (p Page) offset() int { return (p.Current - 1) * p.Size }

// parseTimeRange parses "startMs,endMs" (millisecond epochs) into inclusive
// range bounds.
func parseTimeRange(s string) (time.Time, time.Time, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: time range %q is not two comma-separated timestamps", ErrInvalidFilter, s)
	}
	startMs, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad range start %q", ErrInvalidFilter, parts[0])
	}
	endMs, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad range end %q", ErrInvalidFilter, parts[1])
	}
	return time.UnixMilli(startMs), time.UnixMilli(endMs), nil
}

// contains builds the LIKE pattern for a case-sensitive substring match.
func contains(v string) string { return "%" + v + "%" }
