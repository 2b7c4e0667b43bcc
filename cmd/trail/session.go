// Copyright (c) 2017-2025 by Richard A. Wilkes. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, version 2.0. If a copy of the MPL was not distributed with
// this file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// This Source Code Form is "Incompatible With Secondary Licenses", as
// defined by the Mozilla Public License, version 2.0.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/richardwilkes/toolbox/errs"
	"github.com/richardwilkes/trail"
	"github.com/richardwilkes/trail/audiofile"
	"github.com/richardwilkes/trail/dispatcher"
	"github.com/richardwilkes/trail/span"
	"github.com/richardwilkes/trail/undo"
)

const defaultSource = "script"

// session replays a script against a set of trails sharing one undo history
// and one dispatcher.
type session struct {
	logger     *slog.Logger
	cfg        *config
	manager    *undo.Manager
	dispatcher *dispatcher.Dispatcher
	store      *audiofile.Store
	trails     map[string]*trail.Trail
	txn        *trail.Transaction
	txnTrail   *trail.Trail
	order      []string
	changes    int
}

func newSession(cfg *config, logger *slog.Logger) (*session, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &session{
		logger: logger,
		cfg:    cfg,
		trails: make(map[string]*trail.Trail),
	}
	var err error
	if s.manager, err = undo.NewManager(undo.Limit(cfg.UndoLimit), undo.LogTo(logger)); err != nil {
		return nil, err
	}
	if s.dispatcher, err = dispatcher.NewDispatcher(dispatcher.LogTo(logger)); err != nil {
		return nil, err
	}
	return s, nil
}

// TrailModified implements trail.Listener.
func (s *session) TrailModified(t *trail.Trail, source any, modified span.Span) {
	s.changes++
	s.logger.Info("modified", "trail", t.Name(), "source", source, "span", modified.String())
}

func (s *session) load(sc *script) error {
	for _, def := range sc.Tracks {
		if err := s.addTrack(sc.Dir, def); err != nil {
			return errs.NewWithCause("track "+def.Name, err)
		}
	}
	// The initial contents are not undoable.
	s.manager.Discard()
	return nil
}

func (s *session) addTrack(dir string, def trackSpec) error {
	if def.Name == "" {
		return errs.New("missing name")
	}
	if _, exists := s.trails[def.Name]; exists {
		return errs.New("duplicate name")
	}
	options := []func(*trail.Trail) error{
		trail.Named(def.Name),
		trail.LogTo(s.logger),
		trail.UndoTo(s.manager),
		trail.DispatchTo(s.dispatcher),
	}
	if def.Fill != "" {
		options = append(options, trail.FillWith(trail.RegionFiller(def.Fill)))
	}
	t, err := trail.New(s.cfg.SampleRate, options...)
	if err != nil {
		return err
	}
	if def.Parent != "" {
		var parent *trail.Trail
		if parent, err = s.trail(def.Parent); err != nil {
			return err
		}
		if err = parent.AddDependant(t); err != nil {
			return err
		}
	}
	s.register(def.Name, t)
	var stakes []trail.Stake
	for _, one := range def.Regions {
		stakes = append(stakes, trail.NewRegion(span.New(one.Start, one.Stop), one.Name))
	}
	for _, one := range def.Markers {
		stakes = append(stakes, trail.NewMarker(one.Pos, one.Name))
	}
	for _, one := range def.Audio {
		var st *audiofile.Stake
		if st, err = s.record(one); err != nil {
			return err
		}
		stakes = append(stakes, st)
	}
	if def.Descriptor != "" {
		var more []trail.Stake
		if more, err = s.openDescriptor(filepath.Join(dir, def.Descriptor)); err != nil {
			return err
		}
		stakes = append(stakes, more...)
	}
	if len(stakes) == 0 {
		return nil
	}
	return t.AddAll(nil, stakes, nil)
}

func (s *session) register(name string, t *trail.Trail) {
	s.trails[name] = t
	s.order = append(s.order, name)
	t.AddListener(s)
}

func (s *session) trail(name string) (*trail.Trail, error) {
	t, exists := s.trails[name]
	if !exists {
		return nil, errs.Newf("unknown track %q", name)
	}
	return t, nil
}

// record writes a ramp of frames to the scratch store.
func (s *session) record(def audioSpec) (*audiofile.Stake, error) {
	if def.Frames < 1 {
		return nil, errs.Newf("audio at %d needs at least one frame", def.At)
	}
	if s.store == nil {
		blockSize, err := s.cfg.blockSize()
		if err != nil {
			return nil, err
		}
		if s.store, err = audiofile.NewStore(s.cfg.format(), audiofile.BlockSize(blockSize),
			audiofile.InDir(s.cfg.ScratchDir), audiofile.LogTo(s.logger)); err != nil {
			return nil, err
		}
	}
	frameSize := s.cfg.format().FrameSize()
	data := make([]byte, def.Frames*frameSize)
	for i := range data {
		data[i] = byte(i / int(frameSize))
	}
	return s.store.Write(def.At, data)
}

func (s *session) openDescriptor(path string) ([]trail.Stake, error) {
	d, err := audiofile.NewDescriptorFromPath(path)
	if err != nil {
		return nil, err
	}
	if float64(d.SampleRate) != s.cfg.SampleRate {
		return nil, errs.Newf("%s: sample rate %d does not match %v", path, d.SampleRate, s.cfg.SampleRate)
	}
	var opened []*audiofile.Stake
	if opened, err = d.Open(s.logger); err != nil {
		return nil, err
	}
	stakes := make([]trail.Stake, 0, len(opened)+len(d.Markers))
	for _, st := range opened {
		stakes = append(stakes, st)
	}
	return append(stakes, d.MarkerStakes()...), nil
}

func (s *session) run(steps []step) error {
	for i, one := range steps {
		if err := s.step(one); err != nil {
			return errs.NewWithCause(fmt.Sprintf("step %d (%s)", i+1, one.Op), err)
		}
	}
	if s.txn != nil {
		return errs.Newf("transaction %q was not ended", s.txn.Name())
	}
	return nil
}

func (s *session) step(one step) error {
	switch one.Op {
	case "undo":
		return s.manager.Undo()
	case "redo":
		return s.manager.Redo()
	case "end":
		return s.finish(true)
	case "abort":
		return s.finish(false)
	}
	t, err := s.trail(one.Track)
	if err != nil {
		return err
	}
	mode := trail.DefaultTouchMode
	if one.Mode != "" {
		if mode, err = trail.ParseTouchMode(one.Mode); err != nil {
			return err
		}
	}
	var source any = defaultSource
	if one.Source != "" {
		source = one.Source
	}
	s.logger.Debug("step", "op", one.Op, "track", one.Track, "span", span.New(one.Start, one.Stop).String())
	switch one.Op {
	case "begin":
		if s.txn != nil {
			return trail.ErrTransactionActive
		}
		txn := trail.NewTransaction(one.Name)
		if err = t.EditBegin(txn); err != nil {
			return err
		}
		s.txn = txn
		s.txnTrail = t
		return nil
	case "insert":
		return t.Insert(source, span.New(one.Start, one.Stop), mode, s.txnFor(t))
	case "remove":
		return t.Remove(source, span.New(one.Start, one.Stop), mode, s.txnFor(t))
	case "clear":
		return t.Clear(source, span.New(one.Start, one.Stop), mode, s.txnFor(t))
	case "cut":
		if one.Into == "" {
			return errs.New("cut requires a destination track")
		}
		if _, exists := s.trails[one.Into]; exists {
			return errs.Newf("track %q already exists", one.Into)
		}
		var cut *trail.Trail
		if cut, err = t.CutTrail(span.New(one.Start, one.Stop), mode, one.Shift, s.txnFor(t)); err != nil {
			return err
		}
		s.register(one.Into, cut)
		return nil
	default:
		return errs.Newf("unknown operation %q", one.Op)
	}
}

// txnFor returns the active transaction if it covers the trail.
func (s *session) txnFor(t *trail.Trail) *trail.Transaction {
	if s.txn != nil && t.Transaction() == s.txn {
		return s.txn
	}
	return nil
}

func (s *session) finish(commit bool) error {
	if s.txn == nil {
		return trail.ErrNoTransaction
	}
	var err error
	if commit {
		err = s.txnTrail.EditEnd(s.txn)
	} else {
		err = s.txnTrail.EditAbort(s.txn)
	}
	s.txn = nil
	s.txnTrail = nil
	return err
}

// report writes a table of stakes for each track, followed by a summary.
func (s *session) report(w io.Writer) {
	for _, name := range s.order {
		t := s.trails[name]
		tbl := table.NewWriter()
		tbl.SetOutputMirror(w)
		tbl.SetStyle(table.StyleLight)
		tbl.SetTitle(t.Status().String())
		tbl.AppendHeader(table.Row{"#", "Kind", "Name", "Start", "Stop", "Length", "Time"})
		for i, st := range t.GetAll(true, nil) {
			kind, label := describe(st)
			sp := st.Span()
			tbl.AppendRow(table.Row{i + 1, kind, label, sp.Start, sp.Stop, sp.Length(),
				trail.FormatFrames(sp.Start, t.SampleRate())})
		}
		tbl.Render()
	}
	fmt.Fprintf(w, "History: %d edits", s.manager.Len())
	if name := s.manager.UndoPresentationName(); name != "" {
		fmt.Fprintf(w, ", next undo %q", name)
	}
	fmt.Fprintf(w, "\nNotifications: %d\n", s.changes)
	if s.store != nil {
		fmt.Fprintln(w, "Scratch:", s.store)
	}
}

func describe(st trail.Stake) (kind, label string) {
	switch one := st.(type) {
	case *trail.Region:
		return "region", one.Name
	case *trail.Marker:
		return "marker", one.Name
	case *audiofile.Stake:
		return "audio", fmt.Sprintf("+%d (%d frames)", one.Offset(), one.Available())
	default:
		return fmt.Sprintf("%T", st), ""
	}
}

// close disposes the trails, root trails first so dependants are freed before
// their owners, then removes the scratch store.
func (s *session) close() error {
	for _, name := range s.order {
		s.trails[name].RemoveListener(s)
	}
	s.manager.Discard()
	for _, name := range s.order {
		s.trails[name].Dispose()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
