package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// mountEntry is one persisted connection, the four-tuple GET-MOUNT
// reports (server, share, root-path, user) plus the drive letter and
// obscured password the CLI itself tracks (spec.md §4.6, supplemented
// per SPEC_FULL.md's GET-MOUNT listing-mode note).
type mountEntry struct {
	Drive, URL, User, Pass, Server, Share, RootPath string
}

type mountStore struct {
	path    string
	entries []mountEntry
}

func storePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".smbfs_mounts"), nil
}

func loadStore() (*mountStore, error) {
	path, err := storePath()
	if err != nil {
		return nil, err
	}
	s := &mountStore{path: path}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != 7 {
			continue
		}
		s.entries = append(s.entries, mountEntry{
			Drive: fields[0], URL: fields[1], User: fields[2], Pass: fields[3],
			Server: fields[4], Share: fields[5], RootPath: fields[6],
		})
	}
	return s, scanner.Err()
}

func (s *mountStore) put(e mountEntry) {
	for i := range s.entries {
		if s.entries[i].Drive == e.Drive {
			s.entries[i] = e
			return
		}
	}
	s.entries = append(s.entries, e)
}

func (s *mountStore) remove(drive string) bool {
	for i := range s.entries {
		if s.entries[i].Drive == drive {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (s *mountStore) save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, e := range s.entries {
		if _, err := w.WriteString(strings.Join([]string{
			e.Drive, e.URL, e.User, e.Pass, e.Server, e.Share, e.RootPath,
		}, "\t") + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
