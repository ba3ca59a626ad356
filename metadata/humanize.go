package metadata

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns a machine column name into a display name, e.g.
// "created_at" becomes "Created At". A cases.Caser carries transformer
// state and is not safe for concurrent use, so one is built per call.
func Humanize(name string) string {
	if name == "" {
		return ""
	}
	s := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	return cases.Title(language.English).String(s)
}
