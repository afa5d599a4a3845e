package doctor

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// ResumeCheck verifies that the resume glob resolves to a usable source file.
type ResumeCheck struct {
	glob string
	root fs.FS
}

// NewResumeCheck creates a resume source check rooted at the current directory.
func NewResumeCheck(glob string) *ResumeCheck {
	return &ResumeCheck{glob: glob, root: os.DirFS(".")}
}

func (c *ResumeCheck) Name() string {
	return "Resume"
}

func (c *ResumeCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if c.glob == "" {
		result.Items = append(result.Items, CheckItem{
			Label:  "resume glob",
			Status: StatusWarn,
			Detail: "editor.resume_glob is empty; pass a file path on the command line",
		})
		return result
	}

	matches, err := doublestar.Glob(c.root, c.glob)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.glob,
			Status: StatusFail,
			Detail: fmt.Sprintf("invalid pattern: %v", err),
		})
		return result
	}

	switch len(matches) {
	case 0:
		result.Items = append(result.Items, CheckItem{
			Label:  c.glob,
			Status: StatusWarn,
			Detail: "no matching files in current directory",
		})
	case 1:
		result.Items = append(result.Items, CheckItem{
			Label:  c.glob,
			Status: StatusPass,
			Detail: matches[0],
		})
	default:
		result.Items = append(result.Items, CheckItem{
			Label:  c.glob,
			Status: StatusWarn,
			Detail: fmt.Sprintf("%d matches, first match %s will be used", len(matches), matches[0]),
		})
	}

	return result
}
