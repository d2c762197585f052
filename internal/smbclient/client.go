// Package smbclient wraps github.com/cloudsoda/go-smb2 with the single
// long-lived session-per-unit shape the driver needs, the way rclone's
// backend/smb wraps the same library with a pooled-connection shape for
// its own (many short-lived Fs operations) use case.
package smbclient

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	smb2 "github.com/cloudsoda/go-smb2"
	"github.com/pkg/errors"
)

// Credentials carries what the Mount Manager (C6) has resolved by the
// time it calls Dial: URL-embedded or caller-supplied username/password,
// and the NTLM domain/SPN knobs the protocol library needs.
type Credentials struct {
	User     string
	Password string
	Domain   string
	SPN      string
}

// Client is one unit's protocol session: a dialled connection, an
// authenticated session, and (once Mount is called) one mounted share.
// This is the "owned protocol-session handle" of spec.md's Unit.
type Client struct {
	conn    net.Conn
	session *smb2.Session
	share   *smb2.Share
	host    string
}

// Dial connects to host:port and authenticates, mirroring
// backend/smb/connpool.go's (*Fs).dial but without rclone's connection
// pool: a Unit owns exactly one Client for its whole mounted lifetime.
func Dial(ctx context.Context, host, port string, creds Credentials) (*Client, error) {
	addr := net.JoinHostPort(host, port)
	d := net.Dialer{}
	tconn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "smbclient: dial")
	}

	dialer := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:      creds.User,
			Password:  creds.Password,
			Domain:    creds.Domain,
			TargetSPN: creds.SPN,
		},
	}

	session, err := dialer.DialConn(ctx, tconn, addr)
	if err != nil {
		_ = tconn.Close()
		return nil, errors.Wrap(err, "smbclient: session setup")
	}

	return &Client{conn: tconn, session: session, host: host}, nil
}

// Mount binds a share name to this session, the way
// backend/smb/connpool.go's conn.mountShare does, minus the
// mount/unmount-on-reuse dance rclone needs for its pool: a Client is
// mounted exactly once, for the unit's lifetime.
func (c *Client) Mount(share string) error {
	s, err := c.session.Mount(share)
	if err != nil {
		return errors.Wrapf(err, "smbclient: mount %q", share)
	}
	c.share = s
	return nil
}

// Close tears the session down: unmount the share (if any), then log off.
func (c *Client) Close() error {
	var err error
	if c.share != nil {
		err = c.share.Umount()
		c.share = nil
	}
	logoffErr := c.session.Logoff()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	if err != nil {
		return err
	}
	return logoffErr
}

// Echo issues a no-op protocol ping, used by the Keepalive Driver (C7),
// mirroring connpool.go's conn.closed (`c.smbSession.Echo() != nil`).
func (c *Client) Echo() error {
	return c.session.Echo()
}

// ListShares enumerates share names on the server. No caller in this
// module uses it; the mount utility's listing mode reads its saved
// mount list instead.
func (c *Client) ListShares() ([]string, error) {
	return c.session.ListSharenames()
}

// File is an open remote file handle, the protocol-layer counterpart of
// a FileHandle entry (C4).
type File struct {
	f *smb2.File
}

const (
	ModeRead = iota
	ModeWrite
	ModeReadWrite
)

// openFlags maps the File-Handle Table's 0/1/2 mode byte (spec.md §4.4)
// to the os.O_* flags go-smb2's OpenFile expects.
func openFlags(mode int) int {
	switch mode {
	case ModeWrite:
		return os.O_WRONLY
	case ModeReadWrite:
		return os.O_RDWR
	default:
		return os.O_RDONLY
	}
}

// Open opens path for reading, writing, or both.
func (c *Client) Open(path string, mode int) (*File, error) {
	if c.share == nil {
		return nil, errNotMounted
	}
	f, err := c.share.OpenFile(path, openFlags(mode), 0o644)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

// Create opens path for writing, truncating it, optionally failing if
// it already exists (exclusive create), mirroring the create/excl
// handling spec.md §4.4 asks of create().
func (c *Client) Create(path string, excl bool) (*File, error) {
	if c.share == nil {
		return nil, errNotMounted
	}
	flags := os.O_RDWR | os.O_CREATE | os.O_TRUNC
	if excl {
		flags |= os.O_EXCL
	}
	f, err := c.share.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

func (f *File) Read(p []byte) (int, error)  { return f.f.Read(p) }
func (f *File) Write(p []byte) (int, error) { return f.f.Write(p) }
func (f *File) Close() error                { return f.f.Close() }
func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.f.Seek(offset, whence)
}
func (f *File) Truncate(size int64) error { return f.f.Truncate(size) }
func (f *File) Stat() (os.FileInfo, error) { return f.f.Stat() }

// Stat stats a remote path.
func (c *Client) Stat(path string) (os.FileInfo, error) {
	if c.share == nil {
		return nil, errNotMounted
	}
	return c.share.Stat(path)
}

// Mkdir creates the single directory path; missing parents are not
// created.
func (c *Client) Mkdir(path string) error {
	if c.share == nil {
		return errNotMounted
	}
	return c.share.Mkdir(path, 0o755)
}

// Rmdir removes an empty directory.
func (c *Client) Rmdir(path string) error {
	if c.share == nil {
		return errNotMounted
	}
	return c.share.Remove(path)
}

// Remove deletes a file.
func (c *Client) Remove(path string) error {
	if c.share == nil {
		return errNotMounted
	}
	return c.share.Remove(path)
}

// Rename renames oldpath to newpath on the same share.
func (c *Client) Rename(oldpath, newpath string) error {
	if c.share == nil {
		return errNotMounted
	}
	return c.share.Rename(oldpath, newpath)
}

// Chtimes sets a file's modification time, used by filedate(set).
func (c *Client) Chtimes(path string, mtime time.Time) error {
	if c.share == nil {
		return errNotMounted
	}
	return c.share.Chtimes(path, mtime, mtime)
}

// ReadDir lists a directory's entries in one round trip; Opendir wraps
// such a listing in a resumable DirIterator for the Directory
// Enumeration Engine (C3).
func (c *Client) ReadDir(path string) ([]os.FileInfo, error) {
	if c.share == nil {
		return nil, errNotMounted
	}
	return c.share.ReadDir(path)
}

// StatfsResult is the subset of statvfs(2)-shaped information the
// disk-free handler needs; real implementations of os.FileInfo-adjacent statvfs results
// vary by library, so Client normalizes to this struct.
type StatfsResult struct {
	BlockSize       int64
	TotalBlocks     int64
	FreeBlocks      int64
	AvailableBlocks int64
}

// Statfs reports free/used space for the mounted share.
func (c *Client) Statfs(path string) (*StatfsResult, error) {
	if c.share == nil {
		return nil, errNotMounted
	}
	st, err := c.share.Statfs(path)
	if err != nil {
		return nil, err
	}
	return &StatfsResult{
		BlockSize:       int64(st.BlockSize()),
		TotalBlocks:     int64(st.TotalBlockCount()),
		FreeBlocks:      int64(st.FreeBlockCount()),
		AvailableBlocks: int64(st.AvailableBlockCount()),
	}, nil
}

var errNotMounted = errors.New("smbclient: share not mounted")

// String formats the server as smb://host; the Mount Manager's
// GetMount reports it as the unit's server.
func (c *Client) String() string {
	return fmt.Sprintf("smb://%s", c.host)
}
