// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package audiofile

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/richardwilkes/toolbox/errs"
	xfs "github.com/richardwilkes/toolbox/xio/fs"
	"github.com/richardwilkes/trail"
	"github.com/zeebo/bencode"
)

// DescriptorExt is the extension used for descriptor files.
const DescriptorExt = ".trailpcm"

// DescriptorFile is one PCM file listed in a descriptor.
type DescriptorFile struct {
	Path   []string `bencode:"path"`
	At     int64    `bencode:"at"`
	Length int64    `bencode:"length"`
}

// DescriptorMarker is a named position listed in a descriptor.
type DescriptorMarker struct {
	Name string `bencode:"name"`
	Pos  int64  `bencode:"pos"`
}

// Descriptor holds the contents of a descriptor file, which lists the raw PCM
// files making up a recording and where each one sits on the timeline.
type Descriptor struct {
	Path           string             `bencode:"-"`
	Name           string             `bencode:"name"`
	Files          []DescriptorFile   `bencode:"files"`
	Markers        []DescriptorMarker `bencode:"markers,omitempty"`
	SampleRate     int64              `bencode:"sample rate"`
	Channels       int64              `bencode:"channels"`
	BytesPerSample int64              `bencode:"bytes per sample"`
}

// NewDescriptorFromPath loads a descriptor from a file.
func NewDescriptorFromPath(path string) (*Descriptor, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	d, err := NewDescriptorFromReader(file)
	if err == nil {
		d.Path = path
	}
	if closeErr := file.Close(); closeErr != nil && err == nil {
		err = errs.Wrap(closeErr)
	}
	return d, err
}

// NewDescriptorFromReader loads a descriptor from a reader.
func NewDescriptorFromReader(r io.Reader) (*Descriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return NewDescriptorFromBytes(data)
}

// NewDescriptorFromBytes loads a descriptor from its encoded form.
func NewDescriptorFromBytes(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := bencode.DecodeBytes(data, &d); err != nil {
		return nil, errs.Wrap(err)
	}
	if err := d.Format().Validate(); err != nil {
		return nil, err
	}
	d.Path = xfs.SanitizeName(d.Name) + DescriptorExt
	return &d, nil
}

// Bytes returns the encoded form of the descriptor.
func (d *Descriptor) Bytes() ([]byte, error) {
	data, err := bencode.EncodeBytes(d)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return data, nil
}

// Save writes the descriptor to its path.
func (d *Descriptor) Save() error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err = os.WriteFile(d.Path, data, 0o640); err != nil {
		return errs.Wrap(err)
	}
	return nil
}

// Format returns the format of the PCM files.
func (d *Descriptor) Format() Format {
	return Format{
		SampleRate:     float64(d.SampleRate),
		Channels:       int(d.Channels),
		BytesPerSample: int(d.BytesPerSample),
	}
}

// MarkerStakes returns a marker for each named position.
func (d *Descriptor) MarkerStakes() []trail.Stake {
	stakes := make([]trail.Stake, len(d.Markers))
	for i, one := range d.Markers {
		stakes[i] = trail.NewMarker(one.Pos, one.Name)
	}
	return stakes
}

// Dir returns the directory the PCM file paths are relative to.
func (d *Descriptor) Dir() string {
	return filepath.Dir(d.Path)
}

// Open opens every PCM file listed in the descriptor and returns a stake for
// each, positioned as listed. The sources are released once the stakes have
// been disposed. On error, nothing is left open.
func (d *Descriptor) Open(logger *slog.Logger) ([]*Stake, error) {
	format := d.Format()
	stakes := make([]*Stake, 0, len(d.Files))
	fail := func(err error) ([]*Stake, error) {
		for _, st := range stakes {
			st.Dispose()
		}
		return nil, err
	}
	for _, one := range d.Files {
		parts := make([]string, len(one.Path))
		for i, part := range one.Path {
			parts[i] = xfs.SanitizeName(part)
		}
		src, err := OpenSource(filepath.Join(append([]string{d.Dir()}, parts...)...), format, logger)
		if err != nil {
			return fail(err)
		}
		if one.Length != 0 && one.Length != src.Frames() {
			src.Close()
			return fail(errs.Newf("%s: expected %d frames, found %d", src.Path(), one.Length, src.Frames()))
		}
		stakes = append(stakes, src.Stake(one.At))
		src.Close()
	}
	return stakes, nil
}
