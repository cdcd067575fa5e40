package alertdispatch

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewAlertID returns an id of the form ALT_<unix-ms>_<5 upper-case alphanumerics>.
func NewAlertID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:5])
	return "ALT_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix
}
