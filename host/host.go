// SPDX-License-Identifier: EPL-2.0

package host

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/ik5/oplpbx/database"
	"github.com/ik5/oplpbx/formats"
	"github.com/ik5/oplpbx/playback"
)

// Status codes returned to the embedding runtime.
const (
	OK     = 0
	Failed = -1

	// ComputeMore and ComputeEnded are the results of ComputeAudioSamples.
	ComputeMore  = 0
	ComputeEnded = 1
)

// Host owns the single playback session of a runtime.
type Host struct {
	session *playback.Session
	log     *log.Logger

	info [6]string
	err  error
}

// Option configures a Host.
type Option func(*config)

type config struct {
	opts playback.Options
}

func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.opts.Logger = l }
}

// WithDatabase replaces the shared format database.
func WithDatabase(db *database.Database) Option {
	return func(c *config) { c.opts.Database = func() *database.Database { return db } }
}

// WithRegistry loads modules with the formats in reg instead of the
// built-in catalog.
func WithRegistry(reg *formats.Registry) Option {
	return func(c *config) { c.opts.Opener = playback.OpenModule(reg) }
}

// WithOptions sets the session options wholesale. Later options still
// apply on top.
func WithOptions(o playback.Options) Option {
	return func(c *config) { c.opts = o }
}

func New(options ...Option) *Host {
	var c config
	for _, o := range options {
		o(&c)
	}
	logger := c.opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
		c.opts.Logger = logger
	}
	return &Host{session: playback.NewSession(c.opts), log: logger}
}

// Session returns the underlying session.
func (h *Host) Session() *playback.Session { return h.session }

// Err returns the error behind the last failed call, or nil.
func (h *Host) Err() error { return h.err }

func (h *Host) status(err error) int {
	h.err = err
	if err != nil {
		return Failed
	}
	return OK
}

// Init loads module from baseDir at sampleRate, replacing any loaded one.
func (h *Host) Init(sampleRate int, baseDir, module string) int {
	return h.status(h.session.Init(sampleRate, baseDir, module))
}

func (h *Host) Teardown() {
	h.session.Teardown()
	h.err = nil
}

// SetSubsong selects subsong i.
func (h *Host) SetSubsong(i int) int {
	_, err := h.session.SelectSubsong(i)
	return h.status(err)
}

// TrackInfo returns title, author, description, type, speed and subsong
// count. The array is overwritten by the next call; with nothing loaded
// the previous values are returned.
func (h *Host) TrackInfo() [6]string {
	md, err := h.session.Metadata()
	if err != nil {
		h.err = err
		return h.info
	}
	h.info = md.Fields()
	return h.info
}

// AudioBuffer returns the last rendered chunk. It is valid until the next
// ComputeAudioSamples.
func (h *Host) AudioBuffer() []byte { return h.session.Buffer() }

// AudioBufferLength returns the length of AudioBuffer in bytes.
func (h *Host) AudioBufferLength() int { return h.session.BufferLen() }

// ComputeAudioSamples renders one chunk. It returns ComputeEnded when the
// subsong has ended or nothing can be rendered.
func (h *Host) ComputeAudioSamples() int {
	st, err := h.session.RenderChunk()
	if err != nil {
		h.err = err
		return ComputeEnded
	}
	if st == playback.Finished {
		return ComputeEnded
	}
	return ComputeMore
}

// CurrentPosition returns the elapsed time in milliseconds, 0 when
// nothing is loaded.
func (h *Host) CurrentPosition() int {
	pos, err := h.session.PositionMs()
	if err != nil {
		h.err = err
	}
	return pos
}

// SeekPosition seeks to ms. Invalid requests are recorded in Err.
func (h *Host) SeekPosition(ms int) {
	if err := h.session.Seek(ms); err != nil {
		h.err = err
	}
}

// MaxPosition returns the length cached when the subsong was selected.
func (h *Host) MaxPosition() int {
	total, err := h.session.MaxPositionMs()
	if err != nil {
		h.err = err
	}
	return int(total)
}

// Loaded reports whether a module is loaded.
func (h *Host) Loaded() bool {
	return h.session.State() != playback.Unloaded
}

// IsLoadError reports whether err came from a failed Init.
func IsLoadError(err error) bool { return errors.Is(err, playback.ErrLoad) }
