package publish

import (
	"context"
	"crypto/tls"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
)

const defaultTimeout = 30 * time.Second

// Config holds the connection settings for the site FTP server.
type Config struct {
	Host               string
	Port               int
	Username           string
	Password           string
	BasePath           string
	Timeout            time.Duration
	TLS                bool
	InsecureSkipVerify bool
}

// Uploader pushes local site files to the FTP server.
type Uploader interface {
	UploadTree(ctx context.Context, localDir string) error
	UploadFiles(ctx context.Context, files []string) error
}

type uploader struct {
	cfg Config
	log *logger.Logger
}

func NewUploader(cfg Config, log *logger.Logger) (Uploader, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("ftp: host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 21
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.BasePath = strings.TrimRight(cfg.BasePath, "/")
	return &uploader{cfg: cfg, log: log.With("service", "SiteUploader")}, nil
}

func (u *uploader) connect(ctx context.Context) (*ftp.ServerConn, error) {
	addr := fmt.Sprintf("%s:%d", u.cfg.Host, u.cfg.Port)
	opts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(u.cfg.Timeout),
	}
	if u.cfg.TLS {
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName:         u.cfg.Host,
			InsecureSkipVerify: u.cfg.InsecureSkipVerify,
		}))
	}

	conn, err := ftp.Dial(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("ftp: connection failed: %w", err)
	}
	if u.cfg.Username != "" {
		if err := conn.Login(u.cfg.Username, u.cfg.Password); err != nil {
			if quitErr := conn.Quit(); quitErr != nil {
				u.log.Warn("Failed to quit FTP connection after login error", "error", quitErr)
			}
			return nil, fmt.Errorf("ftp: login failed: %w", err)
		}
	}
	u.log.Info("Connected to FTP server", "host", u.cfg.Host)
	return conn, nil
}

// UploadTree mirrors localDir onto the server under BasePath, creating
// remote directories as needed. Hidden files and directories are skipped.
func (u *uploader) UploadTree(ctx context.Context, localDir string) error {
	conn, err := u.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Quit(); err != nil {
			u.log.Warn("Failed to close FTP connection", "error", err)
		}
	}()

	uploaded := 0
	err = filepath.WalkDir(localDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		remote := remotePath(u.cfg.BasePath, rel)
		if d.IsDir() {
			return u.makeDir(conn, remote)
		}
		if err := u.storeFile(conn, p, remote); err != nil {
			return err
		}
		uploaded++
		return nil
	})
	if err != nil {
		return err
	}
	u.log.Info("FTP upload completed", "dir", localDir, "files", uploaded)
	return nil
}

// UploadFiles uploads individual files into BasePath, keeping their base
// names. Missing files are skipped with a warning.
func (u *uploader) UploadFiles(ctx context.Context, files []string) error {
	conn, err := u.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Quit(); err != nil {
			u.log.Warn("Failed to close FTP connection", "error", err)
		}
	}()

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := os.Stat(file); err != nil {
			u.log.Warn("Skipping missing file", "file", file)
			continue
		}
		remote := remotePath(u.cfg.BasePath, filepath.Base(file))
		if err := u.storeFile(conn, file, remote); err != nil {
			return err
		}
	}
	return nil
}

func (u *uploader) storeFile(conn *ftp.ServerConn, local, remote string) error {
	f, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("open %s: %w", local, err)
	}
	defer f.Close()

	u.log.Info("Uploading file", "local", local, "remote", remote)
	if err := conn.Stor(remote, f); err != nil {
		return fmt.Errorf("store %s: %w", remote, err)
	}
	return nil
}

func (u *uploader) makeDir(conn *ftp.ServerConn, remote string) error {
	if err := conn.MakeDir(remote); err != nil {
		if isDirExistsError(err) {
			return nil
		}
		return fmt.Errorf("mkdir %s: %w", remote, err)
	}
	u.log.Info("Created remote directory", "remote", remote)
	return nil
}

func isDirExistsError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "file exists") ||
		strings.Contains(s, "already exists") ||
		strings.Contains(s, "directory exists") ||
		strings.Contains(s, "550")
}

// remotePath maps a local relative path to its server path under base.
func remotePath(base, rel string) string {
	rel = filepath.ToSlash(rel)
	if base == "" {
		return rel
	}
	return path.Join(base, rel)
}
