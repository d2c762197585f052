// Command smbmount is the mount utility CLI (spec.md §6 "CLI — mount
// utility"). The real driver's IOCTL channel is a syscall into the
// resident trampoline; since this module has no such trampoline to
// call into from a second OS process, this rendition drives
// internal/mount.Manager directly in-process and persists the
// resulting connection list to a local file so its no-args "list
// mounts" mode (original_source/smbmount/smbmount.c) has something to
// read back, mirroring the CLI's documented behaviour without
// fabricating a cross-process IPC layer spec.md never specifies the
// wire shape of.
package main

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yunkya2/smbfs-x68k/internal/hostenv"
	"github.com/yunkya2/smbfs-x68k/internal/mount"
	"github.com/yunkya2/smbfs-x68k/internal/obscure"
)

var (
	userFlag   string
	unmountAll bool
)

func main() {
	root := &cobra.Command{
		Use:   "smbmount [url] [drive:]",
		Short: "Mount or list SMB shares as drive letters",
		Args:  cobra.MaximumNArgs(2),
		RunE:  run,
	}
	root.Flags().StringVarP(&userFlag, "user", "U", "", "user[%pass]")
	root.Flags().BoolVarP(&unmountAll, "unmount", "D", false, "unmount the given drive")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "smbmount:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	if unmountAll {
		drive := ""
		if len(args) > 0 {
			drive = args[0]
		}
		return doUnmount(store, drive)
	}

	if len(args) == 0 {
		return doList(store)
	}

	return doMount(store, args)
}

func doMount(store *mountStore, args []string) error {
	url := normalizeURL(args[0])
	drive := ""
	if len(args) > 1 {
		drive = args[1]
	}
	if !driveSyntax.MatchString(drive) && drive != "" {
		return fmt.Errorf("invalid drive syntax %q", drive)
	}

	username, password := splitUserFlag(userFlag)

	env := hostenv.NewSimulated('Z')
	mgr := mount.New(env)
	result, err := mgr.Mount(context.Background(), 0, mount.MountParams{
		URL:      url,
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}
	if result.NeedPassword {
		return fmt.Errorf("password required for user %q (use -U user%%pass)", result.ResolvedUsername)
	}

	info, err := mgr.GetMount(0)
	if err != nil {
		return err
	}
	obscured, err := obscure.Obscure(password)
	if err != nil {
		return err
	}
	store.put(mountEntry{
		Drive:    drive,
		URL:      url,
		User:     info.User,
		Pass:     obscured,
		Server:   info.Server,
		Share:    info.Share,
		RootPath: info.RootPath,
	})
	return store.save()
}

func doUnmount(store *mountStore, drive string) error {
	if !store.remove(drive) {
		return fmt.Errorf("no mount recorded for drive %q", drive)
	}
	return store.save()
}

func doList(store *mountStore) error {
	if len(store.entries) == 0 {
		fmt.Println("no mounted drives")
		return nil
	}
	for _, e := range store.entries {
		fmt.Printf("%s %s (%s/%s%s) user=%s\n", e.Drive, e.URL, e.Server, e.Share, e.RootPath, e.User)
	}
	return nil
}

var driveSyntax = regexp.MustCompile(`^[A-Za-z]:$`)

// normalizeURL applies spec.md §6's URL normalisation rules exactly.
func normalizeURL(raw string) string {
	u := strings.TrimLeft(raw, " \t")
	switch {
	case u == "":
		return "smb://"
	case strings.HasPrefix(u, "//"):
		u = "smb:" + u
	case strings.HasPrefix(u, "/"):
		u = "smb:/" + u
	case !strings.Contains(u, "://"):
		u = "smb://" + u
	}
	if !strings.Contains(strings.TrimPrefix(u, "smb://"), "/") {
		u += "/"
	}
	return u
}

func splitUserFlag(v string) (user, pass string) {
	if v == "" {
		return "", ""
	}
	parts := strings.SplitN(v, "%", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}
