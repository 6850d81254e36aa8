package commits

import (
	"fmt"
	"io"
)

const (
	commitCountsHeaderConstant      = "Commit counts by user across all repositories (sorted):\n"
	originsHeaderConstant           = "\nRepositories with their remote origins:\n"
	authorCountLineTemplateConstant = "%s: %d\n"
	originLineTemplateConstant      = "%s\n"
)

// AuthorCount pairs an author identity with its total commit count.
type AuthorCount struct {
	Identity string
	Commits  int
}

// Report is the final, sorted view of the run.
type Report struct {
	Authors []AuthorCount
	Origins []string
}

// Write renders the commit counts section followed by the origins section.
func (report Report) Write(writer io.Writer) error {
	if _, writeError := io.WriteString(writer, commitCountsHeaderConstant); writeError != nil {
		return writeError
	}
	for _, authorCount := range report.Authors {
		if _, writeError := fmt.Fprintf(writer, authorCountLineTemplateConstant, authorCount.Identity, authorCount.Commits); writeError != nil {
			return writeError
		}
	}

	if _, writeError := io.WriteString(writer, originsHeaderConstant); writeError != nil {
		return writeError
	}
	for _, originURL := range report.Origins {
		if _, writeError := fmt.Fprintf(writer, originLineTemplateConstant, originURL); writeError != nil {
			return writeError
		}
	}

	return nil
}
