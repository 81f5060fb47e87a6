package director

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// GeneratePlanPath creates a timestamped plan filename in dir, named after the input file
func GeneratePlanPath(dir, input string) string {
	baseName := filepath.Base(input)
	nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	cleanName := strings.ReplaceAll(nameOnly, " ", "_")
	if cleanName == "" || cleanName == "." {
		cleanName = "lyrics"
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.yaml", cleanName, timestamp))
}
