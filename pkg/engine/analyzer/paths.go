package analyzer

import "strings"

// SplitParent cuts an absolute HDFS path into its parent directory and the
// final segment. Files directly under the root report "/" as their parent.
func SplitParent(path string) (dir, name string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "/", path
	}
	name = path[idx+1:]
	dir = path[:idx]
	if dir == "" {
		dir = "/"
	}
	return dir, name
}
