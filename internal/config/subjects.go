package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultSubjects is the closed subject taxonomy offered for suggestions
var DefaultSubjects = []string{"Physics", "Chemistry", "Mathematics", "Biology"}

type subjectsFile struct {
	Subjects []string `yaml:"subjects"`
}

// LoadSubjects reads the subject taxonomy from a YAML file of the form
// `subjects: [...]`. An empty path yields DefaultSubjects.
func LoadSubjects(path string) ([]string, error) {
	if path == "" {
		return append([]string{}, DefaultSubjects...), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read subjects file")
	}

	var f subjectsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse subjects file")
	}

	subjects := make([]string, 0, len(f.Subjects))
	seen := make(map[string]bool)
	for _, s := range f.Subjects {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		subjects = append(subjects, s)
	}
	if len(subjects) == 0 {
		return nil, errors.Errorf("subjects file %s lists no subjects", path)
	}
	return subjects, nil
}
