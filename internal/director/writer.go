package director

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WritePlan writes a plan to path, as JSON when the path ends in .json and as YAML otherwise
func WritePlan(plan *Plan, path string) error {
	var data []byte
	var err error
	if isJSON(path) {
		data, err = json.MarshalIndent(plan, "", "  ")
	} else {
		data, err = yaml.Marshal(plan)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadPlan reads a plan written by WritePlan
func ReadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if isJSON(path) {
		err = json.Unmarshal(data, &plan)
	} else {
		err = yaml.Unmarshal(data, &plan)
	}
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
