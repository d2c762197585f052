package mount

import (
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/yunkya2/smbfs-x68k/internal/errmap"
	"github.com/yunkya2/smbfs-x68k/internal/smbclient"
)

// MountParams bundles a mount IOCTL's payload: the URL, and the
// caller-supplied username/password/environment spec.md §4.6 names.
type MountParams struct {
	URL      string
	Username string
	Password string
	Env      map[string]string
}

// MountResult reports whether the caller must prompt for a password
// and retry, per spec.md §4.6 step 5.
type MountResult struct {
	NeedPassword     bool
	ResolvedUsername string
}

const defaultSMBPort = "445"

// Mount implements the IOCTL MOUNT sub-command (spec.md §4.6).
func (m *Manager) Mount(ctx context.Context, u int, p MountParams) (MountResult, error) {
	if err := validUnit(u); err != nil {
		return MountResult{}, err
	}

	m.mu.Lock()
	already := m.units[u].mounted
	m.mu.Unlock()
	if already {
		return MountResult{}, errmap.ErrAlreadyExists
	}

	// Step 3: temporarily swap in the caller's environment so URL
	// parsing can honour credential-file locations the protocol
	// library's initiator setup consults.
	restore := swapEnv(p.Env)
	parsed, err := parseSMBURL(p.URL)
	restore()
	if err != nil {
		return MountResult{}, errors.Wrap(errmap.ErrIllegalFormat, err.Error())
	}

	// Step 4: username/password precedence -- URL-embedded username,
	// then caller-supplied username (overrides), then caller-supplied
	// password.
	username := parsed.username
	if p.Username != "" {
		username = p.Username
	}
	password := parsed.password
	if p.Password != "" {
		password = p.Password
	}

	// Step 5: no password resolved yet -> ask the caller to prompt.
	if password == "" {
		return MountResult{NeedPassword: true, ResolvedUsername: username}, nil
	}

	port := parsed.port
	if port == "" {
		port = defaultSMBPort
	}

	client, err := smbclient.Dial(ctx, parsed.host, port, smbclient.Credentials{
		User:     username,
		Password: password,
	})
	if err != nil {
		return MountResult{}, errors.Wrap(err, "mount: dial")
	}
	if err := client.Mount(parsed.share); err != nil {
		_ = client.Close()
		return MountResult{}, errors.Wrap(err, "mount: share")
	}

	// Step 7: if the URL carries a root subpath, it must be a directory.
	if parsed.rootSubpath != "" {
		fi, err := client.Stat(toBackslash(parsed.rootSubpath))
		if err != nil || !fi.IsDir() {
			_ = client.Close()
			return MountResult{}, errmap.ErrNoSuchDirectory
		}
	}

	m.mu.Lock()
	m.units[u] = unit{
		client:   client,
		rootPath: parsed.rootSubpath,
		share:    parsed.share,
		user:     username,
		mounted:  true,
	}
	m.mu.Unlock()

	return MountResult{ResolvedUsername: username}, nil
}

type parsedURL struct {
	host, port, share, rootSubpath, username, password string
}

// parseSMBURL parses an smb://[user[:pass]@]host[:port]/share[/subpath]
// URL, as the mount utility normalizes it per spec.md §6 before handing
// it to the driver.
func parseSMBURL(raw string) (parsedURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return parsedURL{}, err
	}
	var p parsedURL
	p.host = u.Hostname()
	p.port = u.Port()
	if u.User != nil {
		p.username = u.User.Username()
		p.password, _ = u.User.Password()
	}
	segs := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if len(segs) > 0 {
		p.share = segs[0]
	}
	if len(segs) > 1 {
		p.rootSubpath = segs[1]
	}
	return p, nil
}

func toBackslash(p string) string {
	return strings.ReplaceAll(p, "/", "\\")
}

// swapEnv temporarily overlays env into the process environment and
// returns a function that restores the prior values (spec.md §4.6
// step 3). Driven entirely under the dispatcher's global mutex, so
// there is no concurrent os.Setenv risk despite the process-wide
// scope.
func swapEnv(env map[string]string) func() {
	if len(env) == 0 {
		return func() {}
	}
	prior := make(map[string]*string, len(env))
	for k := range env {
		if v, ok := os.LookupEnv(k); ok {
			vv := v
			prior[k] = &vv
		} else {
			prior[k] = nil
		}
	}
	for k, v := range env {
		_ = os.Setenv(k, v)
	}
	return func() {
		for k, v := range prior {
			if v == nil {
				_ = os.Unsetenv(k)
			} else {
				_ = os.Setenv(k, *v)
			}
		}
	}
}
