package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StorageCheck verifies the data directory and the export target are writable.
type StorageCheck struct {
	dataDir    string
	exportFile string
	autofix    bool
}

// NewStorageCheck creates a storage check. When autofix is set a missing data
// directory is created instead of reported.
func NewStorageCheck(dataDir, exportFile string, autofix bool) *StorageCheck {
	return &StorageCheck{dataDir: dataDir, exportFile: exportFile, autofix: autofix}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}
	result.Items = append(result.Items, c.checkDataDir())
	result.Items = append(result.Items, c.checkExportTarget())
	return result
}

func (c *StorageCheck) checkDataDir() CheckItem {
	info, err := os.Stat(c.dataDir)
	switch {
	case os.IsNotExist(err):
		if c.autofix {
			if mkErr := os.MkdirAll(c.dataDir, 0o755); mkErr != nil {
				return CheckItem{Label: "data directory", Status: StatusFail, Detail: mkErr.Error()}
			}
			return CheckItem{Label: "data directory", Status: StatusPass, Detail: "created " + c.dataDir}
		}
		return CheckItem{
			Label:   "data directory",
			Status:  StatusWarn,
			Detail:  c.dataDir + " does not exist",
			Fixable: true,
		}
	case err != nil:
		return CheckItem{Label: "data directory", Status: StatusFail, Detail: err.Error()}
	case !info.IsDir():
		return CheckItem{Label: "data directory", Status: StatusFail, Detail: c.dataDir + " is not a directory"}
	}
	return CheckItem{Label: "data directory", Status: StatusPass, Detail: c.dataDir}
}

func (c *StorageCheck) checkExportTarget() CheckItem {
	dir := filepath.Dir(c.exportFile)
	if dir == "" {
		dir = "."
	}

	info, err := os.Stat(dir)
	if err != nil {
		return CheckItem{
			Label:  "export target",
			Status: StatusFail,
			Detail: fmt.Sprintf("directory for %s: %v", c.exportFile, err),
		}
	}
	if !info.IsDir() {
		return CheckItem{
			Label:  "export target",
			Status: StatusFail,
			Detail: dir + " is not a directory",
		}
	}
	return CheckItem{Label: "export target", Status: StatusPass, Detail: c.exportFile}
}
