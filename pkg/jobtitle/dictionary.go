package jobtitle

import (
	_ "embed"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed substitutions.yaml
//nolint:gochecknoglobals // Embedded data
var defaultSubstitutions []byte

// DefaultDictionary returns the built-in substitutions.
func DefaultDictionary() (dict Dictionary) {
	var err error
	dict, err = ParseDictionary(defaultSubstitutions)
	if err != nil {
		panic(errors.Wrap(err, "embedded job title dictionary is invalid"))
	}
	return dict
}

// LoadDictionary reads a YAML or JSON list of {from, to} entries.
func LoadDictionary(path string) (dict Dictionary, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read job title dictionary: %s", path)
		return dict, err
	}

	dict, err = ParseDictionary(data)
	if err != nil {
		err = errors.Wrapf(err, "failed to load job title dictionary: %s", path)
		return dict, err
	}

	return dict, err
}

// ParseDictionary decodes and validates a dictionary document. JSON is
// accepted since it is valid YAML.
func ParseDictionary(data []byte) (dict Dictionary, err error) {
	err = yaml.Unmarshal(data, &dict)
	if err != nil {
		err = errors.Wrap(err, "failed to parse job title dictionary")
		return dict, err
	}

	err = dict.Validate()
	return dict, err
}

// Validate checks every entry has a From and that it compiles.
func (d Dictionary) Validate() (err error) {
	validate := validator.New()
	for i, s := range d {
		err = validate.Struct(s)
		if err != nil {
			err = errors.Wrapf(err, "substitution %d", i)
			return err
		}
		_, err = compile(s.From)
		if err != nil {
			err = errors.Wrapf(err, "substitution %d", i)
			return err
		}
	}
	return err
}
