package errmap

import "errors"

// Sentinel errors for the kinds that have no natural stdlib/os
// counterpart. Handlers return these (often wrapped with
// github.com/pkg/errors.Wrap for diagnostic context) and Classify
// recognizes them with errors.Is.
var (
	ErrNoSuchEntry          = errors.New("errmap: no such entry")
	ErrNoSuchDirectory      = errors.New("errmap: no such directory")
	ErrTooManyOpenFiles     = errors.New("errmap: too many open files")
	ErrIsADirectory         = errors.New("errmap: is a directory")
	ErrBadFileNumber        = errors.New("errmap: bad file number")
	ErrOutOfMemory          = errors.New("errmap: out of memory")
	ErrIllegalMemoryPointer = errors.New("errmap: illegal memory pointer")
	ErrIllegalFormat        = errors.New("errmap: illegal format")
	ErrIllegalFilename      = errors.New("errmap: illegal filename")
	ErrIllegalDrive         = errors.New("errmap: illegal drive")
	ErrReadOnly             = errors.New("errmap: read only")
	ErrNotEmpty             = errors.New("errmap: directory not empty")
	ErrDiskFull             = errors.New("errmap: disk full")
	ErrCannotSeek           = errors.New("errmap: cannot seek")
	ErrFileExists           = errors.New("errmap: file exists")
	ErrNoMoreEntries        = errors.New("errmap: no more entries")
	ErrAlreadyExists        = errors.New("errmap: already exists")
	ErrAgain                = errors.New("errmap: try again")
	ErrIllegalArgument      = errors.New("errmap: illegal argument")
	ErrBusy                 = errors.New("errmap: device busy")
)
