package systemd

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strconv"

	"github.com/net2share/sbsetup/internal/logger"
)

// ServiceUser is the unprivileged account the unit runs under.
const ServiceUser = "sing-box"

// EnsureServiceUser creates the service account if it does not exist yet.
func EnsureServiceUser() error {
	if _, err := user.Lookup(ServiceUser); err == nil {
		return nil
	}

	cmd := exec.Command("useradd", "--system", "--no-create-home", "--shell", "/usr/sbin/nologin", ServiceUser)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to create user %s: %w: %s", ServiceUser, err, out)
	}
	logger.Infof("created system user %s", ServiceUser)

	return nil
}

// ChownTree hands ownership of the install directory to the service user so
// ProtectSystem=strict still lets the proxy read its own files.
func ChownTree(dir string) error {
	u, err := user.Lookup(ServiceUser)
	if err != nil {
		return fmt.Errorf("failed to look up user %s: %w", ServiceUser, err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return err
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return err
	}

	return filepath.WalkDir(dir, func(path string, _ os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return os.Chown(path, uid, gid)
	})
}
