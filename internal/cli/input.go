package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/rshade/ghgcalc/internal/engine"
)

// Input file formats, chosen by extension. Stdin ("-") is read as YAML,
// which also accepts JSON.
const (
	inputYAML = "yaml"
	inputJSON = "json"
	inputTOML = "toml"
)

// calculationFile is the document read by `calculate`. YAML and JSON files
// may also be a bare list of requests.
type calculationFile struct {
	Standard string              `json:"standard,omitempty" yaml:"standard,omitempty" toml:"standard"`
	Requests []engine.RawRequest `json:"requests"           yaml:"requests"           toml:"requests"`
}

func inputFormat(path string) (string, error) {
	if path == "-" {
		return inputYAML, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return inputYAML, nil
	case ".json":
		return inputJSON, nil
	case ".toml":
		return inputTOML, nil
	default:
		return "", fmt.Errorf("unsupported input file %q: use .yaml, .yml, .json or .toml", path)
	}
}

func readInput(path string, stdin io.Reader) ([]byte, string, error) {
	if path == "" {
		return nil, "", errors.New("--input is required")
	}
	format, err := inputFormat(path)
	if err != nil {
		return nil, "", err
	}
	var data []byte
	if path == "-" {
		if f, ok := stdin.(*os.File); ok && isTerminal(f) {
			return nil, "", errors.New("--input - expects requests piped on stdin")
		}
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading input: %w", err)
	}
	return data, format, nil
}

// decodeInput unmarshals data into v. TOML keys that v does not declare
// are rejected.
func decodeInput(data []byte, format string, v any) error {
	switch format {
	case inputJSON:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parsing JSON input: %w", err)
		}
	case inputTOML:
		meta, err := toml.Decode(string(data), v)
		if err != nil {
			return fmt.Errorf("parsing TOML input: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("parsing TOML input: unknown key %q", undecoded[0].String())
		}
	default:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parsing YAML input: %w", err)
		}
	}
	return nil
}

// loadCalculationFile reads a request document from path ("-" for stdin).
func loadCalculationFile(path string, stdin io.Reader) (calculationFile, error) {
	var file calculationFile
	data, format, err := readInput(path, stdin)
	if err != nil {
		return file, err
	}

	if isList(data, format) {
		err = decodeInput(data, format, &file.Requests)
	} else {
		err = decodeInput(data, format, &file)
	}
	if err != nil {
		return file, err
	}
	if len(file.Requests) == 0 {
		return file, errors.New("input contains no requests")
	}
	return file, nil
}

// isList reports whether a YAML or JSON document is a top-level sequence.
func isList(data []byte, format string) bool {
	switch format {
	case inputJSON:
		return bytes.HasPrefix(bytes.TrimSpace(data), []byte("["))
	case inputYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil || len(node.Content) == 0 {
			return false
		}
		return node.Content[0].Kind == yaml.SequenceNode
	default:
		return false
	}
}

// loadLCARequest reads a pathway request. A document without an inputs
// section is taken as the inputs map itself.
func loadLCARequest(path string, stdin io.Reader) (engine.LCARequest, error) {
	var req engine.LCARequest
	data, format, err := readInput(path, stdin)
	if err != nil {
		return req, err
	}
	if format == inputTOML {
		// Leaf keys are free-form, so unknown-key checks do not apply.
		if _, err := toml.Decode(string(data), &req); err != nil {
			return req, fmt.Errorf("parsing TOML input: %w", err)
		}
	} else if err := decodeInput(data, format, &req); err != nil {
		return req, err
	}
	if len(req.Inputs) > 0 {
		return req, nil
	}

	inputs := map[string]any{}
	switch format {
	case inputTOML:
		_, err = toml.Decode(string(data), &inputs)
	default:
		err = decodeInput(data, format, &inputs)
	}
	if err != nil {
		return req, err
	}
	// fossilBaseline is also a pathway input and stays.
	delete(inputs, "formulaMode")
	delete(inputs, "includeNodes")
	req.Inputs = inputs
	return req, nil
}
