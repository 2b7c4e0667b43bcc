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
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/richardwilkes/toolbox/errs"
	"github.com/richardwilkes/trail/container/bits"
	"github.com/richardwilkes/trail/span"
)

// DefaultBlockSize is the allocation unit of a store, in bytes.
const DefaultBlockSize = 64 * 1024

// Store is a scratch file holding recorded audio. Space is allocated in
// blocks; the blocks of an extent are returned to the store once every stake
// referring to them has been disposed.
type Store struct {
	logger    *slog.Logger
	file      *os.File
	blocks    *bits.Bits // protected by lock
	dir       string
	format    Format
	blockSize int64
	extents   int // protected by lock
	lock      sync.Mutex
	closed    bool // protected by lock
}

// NewStore creates a scratch store for audio in the given format.
func NewStore(format Format, options ...func(*Store) error) (*Store, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	s := &Store{
		format:    format,
		blockSize: DefaultBlockSize,
		blocks:    bits.New(0),
	}
	var err error
	for _, option := range options {
		if optionErr := option(s); optionErr != nil {
			err = errs.Append(err, optionErr)
		}
	}
	if err != nil {
		return nil, err
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.file, err = os.CreateTemp(s.dir, "trail-*.scratch"); err != nil {
		return nil, errs.Wrap(err)
	}
	s.logger = s.logger.With("store", s.file.Name())
	return s, nil
}

// Format returns the format of the audio held.
func (s *Store) Format() Format {
	return s.format
}

// Path returns the path of the scratch file.
func (s *Store) Path() string {
	return s.file.Name()
}

// Write copies the frames into the store and returns a stake covering them,
// placed at the given position on the timeline. The data must hold whole
// frames.
func (s *Store) Write(at int64, data []byte) (*Stake, error) {
	frameSize := s.format.FrameSize()
	if len(data) == 0 || int64(len(data))%frameSize != 0 {
		return nil, errs.Newf("data length %d is not a positive multiple of the frame size %d", len(data), frameSize)
	}
	count := int((int64(len(data)) + s.blockSize - 1) / s.blockSize)
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return nil, errs.New("store is closed")
	}
	first := s.blocks.FirstUnsetRun(count)
	if first == -1 {
		s.blocks.Grow(s.blocks.Length() + count)
		first = s.blocks.FirstUnsetRun(count)
	}
	s.blocks.SetRange(first, count)
	s.extents++
	s.lock.Unlock()
	offset := int64(first) * s.blockSize
	if _, err := s.file.WriteAt(data, offset); err != nil {
		s.free(first, count)
		return nil, errs.Wrap(err)
	}
	e := newExtent(s.file, offset, int64(len(data)), func() { s.free(first, count) })
	frames := int64(len(data)) / frameSize
	s.logger.Debug("write", "block", first, "blocks", count, "frames", frames)
	return newStake(e, s.format, span.Span{Start: at, Stop: at + frames}, 0, s.logger), nil
}

func (s *Store) free(first, count int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.blocks.UnsetRange(first, count)
	s.extents--
	s.logger.Debug("free", "block", first, "blocks", count)
}

// Used returns the number of bytes allocated to live extents.
func (s *Store) Used() int64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return int64(s.blocks.Count()) * s.blockSize
}

// Extents returns the number of extents with live stakes.
func (s *Store) Extents() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.extents
}

// Close closes and removes the scratch file. Stakes from the store must not be
// read afterwards. May be called more than once.
func (s *Store) Close() error {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return nil
	}
	s.closed = true
	s.lock.Unlock()
	err := s.file.Close()
	if removeErr := os.Remove(s.file.Name()); removeErr != nil && err == nil {
		err = removeErr
	}
	if err != nil {
		return errs.Wrap(err)
	}
	return nil
}

func (s *Store) String() string {
	return fmt.Sprintf("%s: %s in %d extents (%s)", s.file.Name(), humanize.IBytes(uint64(s.Used())), s.Extents(),
		s.format)
}
