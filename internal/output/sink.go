package output

import (
	"os"
	"path/filepath"

	"github.com/hyp3rd/ewrap"
)

const (
	defaultMaxSizeBytes = 20 * 1024 * 1024
	defaultMaxFiles     = 5
	defaultFileMode     = 0o644
	logDirMode          = 0o755
)

// SinkConfig holds configuration for a FileSink.
type SinkConfig struct {
	// Dir is the directory the log files live in; created if absent.
	Dir string
	// BaseName is the file base name: active file {BaseName}.log,
	// backups {BaseName}.{N}.log.
	BaseName string
	// MaxSizeBytes is the rotation threshold.
	MaxSizeBytes int64
	// MaxFiles is the number of rotated backups retained.
	MaxFiles int
	// InstantFlush forces an fsync after every write.
	InstantFlush bool
	// FileMode sets the permissions for new log files.
	FileMode os.FileMode
	// ErrorHandler receives rotation errors that were degraded rather
	// than surfaced; it must not write back into the same sink.
	ErrorHandler func(error)
}

// FileSink owns exactly one open log file handle plus its tracked
// size, and performs the rotation rename chain when the size threshold
// is crossed.
//
// FileSink is not safe for concurrent use. It is owned either by a
// SyncWriter (which serialises access with a mutex) or by the single
// consumer goroutine of an AsyncWriter; it is never shared.
type FileSink struct {
	file         *os.File
	size         int64
	dir          string
	baseName     string
	maxSize      int64
	maxFiles     int
	instantFlush bool
	fileMode     os.FileMode
	errorHandler func(error)
	closed       bool
}

// NewFileSink opens (or creates) the active log file and returns a
// sink tracking its current size. The directory is created here, once,
// not on every write.
func NewFileSink(config SinkConfig) (*FileSink, error) {
	if config.Dir == "" {
		return nil, ewrap.New("log directory is required")
	}

	if config.BaseName == "" {
		return nil, ewrap.New("log file base name is required")
	}

	if config.MaxSizeBytes <= 0 {
		config.MaxSizeBytes = defaultMaxSizeBytes
	}

	if config.MaxFiles < 1 {
		config.MaxFiles = defaultMaxFiles
	}

	if config.FileMode == 0 {
		config.FileMode = defaultFileMode
	}

	err := os.MkdirAll(config.Dir, logDirMode)
	if err != nil {
		return nil, ewrap.Wrapf(err, "creating log directory").
			WithMetadata("path", config.Dir)
	}

	path := filepath.Join(config.Dir, activeFileName(config.BaseName))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.FileMode)
	if err != nil {
		return nil, ewrap.Wrapf(err, "opening log file").
			WithMetadata("path", path)
	}

	info, err := file.Stat()
	if err != nil {
		ioErr := file.Close()
		if ioErr != nil {
			return nil, ewrap.Wrapf(ioErr, "closing file").
				WithMetadata("path", path).
				WithMetadata("err", err)
		}

		return nil, ewrap.Wrapf(err, "getting file stats").
			WithMetadata("path", path)
	}

	return &FileSink{
		file:         file,
		size:         info.Size(),
		dir:          config.Dir,
		baseName:     config.BaseName,
		maxSize:      config.MaxSizeBytes,
		maxFiles:     config.MaxFiles,
		instantFlush: config.InstantFlush,
		fileMode:     config.FileMode,
		errorHandler: config.ErrorHandler,
	}, nil
}

// WriteLine appends one rendered line to the active file, rotating
// first if the line would push the file past the size threshold.
//
// A failed rotation is reported through the error handler and degrades
// to appending on the current, possibly over-sized active file; it
// never blocks the write itself.
func (s *FileSink) WriteLine(line []byte) (int, error) {
	if s.closed {
		return 0, ErrWriterClosed
	}

	if s.file == nil {
		// A previous rotation lost the handle; get the active file back
		// before anything else.
		err := s.reopenActive()
		if err != nil {
			return 0, err
		}
	}

	if shouldRotate(s.size, int64(len(line)), s.maxSize) {
		err := s.rotate()
		if err != nil {
			s.reportError(ewrap.Wrap(err, "rotating log file"))

			if s.file == nil {
				return 0, ewrap.Wrap(err, "log file unavailable after failed rotation")
			}
		}
	}

	bytesWritten, err := s.file.Write(line)
	s.size += int64(bytesWritten)

	if err != nil {
		return bytesWritten, ewrap.Wrap(err, "writing to log file")
	}

	if s.instantFlush {
		err = s.file.Sync()
		if err != nil {
			return bytesWritten, ewrap.Wrap(err, "flushing log file")
		}
	}

	return bytesWritten, nil
}

// Rotate forces a rotation regardless of the current size.
func (s *FileSink) Rotate() error {
	if s.closed {
		return ErrWriterClosed
	}

	return s.rotate()
}

// Sync flushes the active file to durable storage.
func (s *FileSink) Sync() error {
	if s.closed || s.file == nil {
		return nil
	}

	err := s.file.Sync()
	if err != nil {
		return ewrap.Wrapf(err, "syncing log file")
	}

	return nil
}

// Close syncs and releases the active file handle. Closing twice is a
// no-op.
func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true

	if s.file == nil {
		return nil
	}

	err := s.file.Sync()
	if err != nil {
		s.file.Close()
		s.file = nil

		return ewrap.Wrapf(err, "final sync before close")
	}

	err = s.file.Close()
	s.file = nil

	if err != nil {
		return ewrap.Wrapf(err, "closing log file")
	}

	return nil
}

// ActivePath returns the path of the active log file.
func (s *FileSink) ActivePath() string {
	return filepath.Join(s.dir, activeFileName(s.baseName))
}

// BackupPath returns the path of the backup with the given suffix.
func (s *FileSink) BackupPath(suffix int) string {
	return filepath.Join(s.dir, backupFileName(s.baseName, suffix))
}

// rotate executes the rename chain: evict the oldest backup, shift the
// remaining suffixes up, move the active file to suffix 1 and open a
// fresh active file.
//
// Failures are collected, not fatal: a backup that cannot be renamed
// is skipped, and if the active file cannot be moved it is simply
// reopened and appending continues. The only hard failure is being
// unable to reopen an active file at all.
func (s *FileSink) rotate() error {
	if s.file != nil {
		// Settle pending bytes before the rename chain touches the file.
		err := s.file.Sync()
		if err != nil {
			s.reportError(ewrap.Wrap(err, "syncing before rotation"))
		}

		err = s.file.Close()
		s.file = nil

		if err != nil {
			s.reportError(ewrap.Wrap(err, "closing before rotation"))
		}
	}

	var firstErr error

	suffixes, err := scanBackups(s.dir, s.baseName)
	if err != nil {
		firstErr = ewrap.Wrapf(err, "scanning backups").
			WithMetadata("dir", s.dir)

		// Without the backup set the rename chain cannot run safely;
		// reopen the active file and keep writing to it.
		reopenErr := s.reopenActive()
		if reopenErr != nil {
			return reopenErr
		}

		return firstErr
	}

	plan := planRotation(s.baseName, suffixes, s.maxFiles)

	for _, name := range plan.removals {
		err := os.Remove(filepath.Join(s.dir, name))
		if err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = ewrap.Wrapf(err, "removing oldest backup").
				WithMetadata("path", name)
		}
	}

	for _, op := range plan.renames {
		src := filepath.Join(s.dir, op.src)
		dst := filepath.Join(s.dir, op.dst)

		err := os.Rename(src, dst)
		if err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = ewrap.Wrapf(err, "renaming backup").
				WithMetadata("from", src).
				WithMetadata("to", dst)
		}
	}

	err = s.reopenActive()
	if err != nil {
		return err
	}

	return firstErr
}

// reopenActive opens the active file in append mode and resynchronises
// the cached size from its metadata.
func (s *FileSink) reopenActive() error {
	path := s.ActivePath()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, s.fileMode)
	if err != nil {
		return ewrap.Wrapf(err, "opening active log file").
			WithMetadata("path", path)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()

		return ewrap.Wrapf(err, "getting file stats").
			WithMetadata("path", path)
	}

	s.file = file
	s.size = info.Size()

	return nil
}

func (s *FileSink) reportError(err error) {
	if s.errorHandler != nil {
		s.errorHandler(err)
	}
}
