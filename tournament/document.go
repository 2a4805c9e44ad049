/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tournament

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatTOML
	FormatYAML
	FormatJSON
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatHTML:
		return "html"
	}
	return "unknown"
}

// FormatFromName picks a format from a file name or URL path extension.
func FormatFromName(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".html", ".htm":
		return FormatHTML
	}
	return FormatUnknown
}

// FormatFromContentType maps an HTTP Content-Type to a format.
func FormatFromContentType(contentType string) Format {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return FormatUnknown
	}
	switch {
	case mt == "text/html" || mt == "application/xhtml+xml":
		return FormatHTML
	case strings.HasSuffix(mt, "json"):
		return FormatJSON
	case strings.HasSuffix(mt, "yaml"):
		return FormatYAML
	case strings.HasSuffix(mt, "toml"):
		return FormatTOML
	}
	return FormatUnknown
}

// document mirrors the on-disk layout:
//
//	[Tournament]
//	size = 8
//	structure = "Single Elimination"
//
//	[Players.Fragga]
//	elo = 1600
//	draw = 1
type document struct {
	Tournament *tournamentRecord       `toml:"Tournament" yaml:"Tournament" json:"Tournament"`
	Players    map[string]playerRecord `toml:"Players" yaml:"Players" json:"Players" validate:"min=1,dive"`
}

type tournamentRecord struct {
	Name      string `toml:"name" yaml:"name" json:"name"`
	Date      string `toml:"date" yaml:"date" json:"date" validate:"omitempty,tdate"`
	Size      *int   `toml:"size" yaml:"size" json:"size" validate:"omitempty,pow2"`
	Structure string `toml:"structure" yaml:"structure" json:"structure" validate:"omitempty,structure"`
}

type playerRecord struct {
	Elo  *int `toml:"elo" yaml:"elo" json:"elo" validate:"required"`
	Draw *int `toml:"draw" yaml:"draw" json:"draw" validate:"required,min=1"`
}

func decode(data []byte, format Format) (*document, error) {
	var doc document
	var err error

	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
		if err == nil {
			// encoding/json keeps the last of repeated keys; the other
			// formats reject them
			err = checkJSONKeys(json.NewDecoder(bytes.NewReader(data)))
		}
	case FormatHTML:
		return decodeHTML(data)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrMalformed, format, err)
	}

	return &doc, nil
}

// checkJSONKeys walks one JSON value and fails on an object that repeats a
// key.
func checkJSONKeys(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]bool)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := tok.(string)
			if seen[key] {
				return fmt.Errorf("key %q listed twice", key)
			}
			seen[key] = true
			if err := checkJSONKeys(dec); err != nil {
				return err
			}
		}
	case '[':
		for dec.More() {
			if err := checkJSONKeys(dec); err != nil {
				return err
			}
		}
	}
	// closing delimiter
	_, err = dec.Token()
	return err
}
