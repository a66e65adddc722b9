package scene

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/datalabels/pkg/errors"
	"github.com/matzehuels/datalabels/pkg/label/sink"
)

// Format is a scene serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported scene file %q (want .json, .yaml or .yml)", filepath.Base(path))
	}
}

// Decode reads a scene and validates it. Unknown fields are rejected.
func Decode(r io.Reader, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidScene, "decode json scene: %v", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.New(errors.ErrCodeInvalidScene, "decode yaml scene: %v", err)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported scene format %q", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Parse decodes a scene from memory.
func Parse(data []byte, format Format) (*Scene, error) {
	return Decode(bytes.NewReader(data), format)
}

// ReadFile reads a scene file, choosing the format by extension.
func ReadFile(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, format)
}

// Encode writes the scene.
func Encode(w io.Writer, s *Scene, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported scene format %q", format)
	}
}

// WriteFile writes the scene, choosing the format by extension.
func WriteFile(path string, s *Scene) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, s, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadLabelsFile reads a labels document written by the JSON sink.
func ReadLabelsFile(path string) (*sink.Output, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out sink.Output
	if err := json.NewDecoder(f).Decode(&out); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "decode labels %s: %v", filepath.Base(path), err)
	}
	return &out, nil
}

// WriteLabelsFile writes out as indented JSON, the shape ReadLabelsFile reads.
func WriteLabelsFile(path string, out sink.Output) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LabelsPath returns the default labels output path for a scene file:
// sales.yaml becomes sales.labels.json.
func LabelsPath(scenePath string) string {
	return strings.TrimSuffix(scenePath, filepath.Ext(scenePath)) + ".labels.json"
}

func open(path string) (*os.File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
