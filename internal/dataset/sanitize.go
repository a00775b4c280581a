package dataset

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces a client-supplied name to a flat ASCII filename that
// is safe to join onto a storage directory. Only [A-Za-z0-9_.-] survives;
// whitespace and path separators become underscores. The result may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	ascii := make([]rune, 0, len(name))
	for _, r := range name {
		if r < 0x80 {
			ascii = append(ascii, r)
		}
	}
	name = string(ascii)

	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// ArtifactFilename keeps column names readable in chart filenames while making
// sure they cannot escape the artifact directory.
func ArtifactFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, name)
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "_"
	}
	return name
}
