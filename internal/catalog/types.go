package catalog

import "fmt"

// Category is one of the six fixed prompt groupings.
type Category string

const (
	CategoryCritical   Category = "critical"
	CategoryBusiness   Category = "business"
	CategoryIdeation   Category = "ideation"
	CategoryAutomation Category = "automation"
	CategoryPersonal   Category = "personal"
	CategoryUtility    Category = "utility"
)

// Categories lists all categories in their canonical display order.
var Categories = []Category{
	CategoryCritical,
	CategoryBusiness,
	CategoryIdeation,
	CategoryAutomation,
	CategoryPersonal,
	CategoryUtility,
}

// ParseCategory maps a directory name to a Category.
func ParseCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// Prompt is a single catalog entry: one prompt template file plus the
// metadata extracted from it. Immutable once loaded; a rebuild replaces it.
type Prompt struct {
	ID             string   // Unique slug, derived from the filename
	Title          string   // From front-matter, or the first markdown heading
	Category       Category // Directory the file lives under
	Description    string
	UsageNotes     string
	OutputArtifact string   // Name of the artifact the prompt produces (e.g. "PRD.md")
	Tags           []string

	// File metadata
	Path      string // Relative to the library root
	Hash      string // sha256 of the file content
	SizeBytes int64
	MtimeUnix int64
	Body      string // Prompt text without front-matter
}

// WalkError records a per-file failure during library discovery.
// Discovery continues past these; only an inaccessible root is fatal.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Warning is a non-fatal catalog issue surfaced to the user, such as a
// chain referencing an unknown prompt or a duplicate slug.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	if w.Path == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}
