package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// newOrderNumber builds a human-friendly unique order number such as
// BK-20260102-1A2B3C4D.
func newOrderNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return prefix + "-" + now.Format("20060102") + "-" + suffix
}
