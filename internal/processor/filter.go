package processor

import (
	"strings"

	"dbt-change-tracker/pkg/githubapi"
)

// FilterModelFiles returns the subset of files whose path starts with dir and
// ends with ext. Exact prefix/suffix match, case-sensitive, order-preserving;
// the change status is not considered (a removed model is still a change).
func FilterModelFiles(files []githubapi.ChangedFile, dir, ext string) []githubapi.ChangedFile {
	tracked := make([]githubapi.ChangedFile, 0, len(files))
	for _, f := range files {
		if strings.HasPrefix(f.Path, dir) && strings.HasSuffix(f.Path, ext) {
			tracked = append(tracked, f)
		}
	}
	return tracked
}
