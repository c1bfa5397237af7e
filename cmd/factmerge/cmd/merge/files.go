package merge

import (
	"os"

	"github.com/karrick/godirwalk"

	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/extract"
)

// collectFiles expands directories to the supported files they contain, in
// lexical order. Files named explicitly are kept even when their type is not
// supported, so the merge reports them as skipped.
func collectFiles(args []string, recursive bool) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.WrapIO("stat", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		err = godirwalk.Walk(arg, &godirwalk.Options{
			Callback: func(path string, de *godirwalk.Dirent) error {
				if de.IsDir() {
					if path != arg && !recursive {
						return godirwalk.SkipThis
					}
					return nil
				}
				if de.IsRegular() && extract.Supported(path) {
					paths = append(paths, path)
				}
				return nil
			},
		})
		if err != nil {
			return nil, errors.WrapIO("walk", arg, err)
		}
	}
	return paths, nil
}
