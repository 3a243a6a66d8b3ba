// Package backup exports the four domain tables into timestamped ZIP
// archives on disk, with optional S3 upload.
package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	appcfg "github.com/wiztheplanning/blogflow/internal/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const backupRootDir = "blogflow"
const backupDBDir = backupRootDir + "/db"
const backupManifestFile = backupRootDir + "/manifest.json"
const backupFormat = "blogflow-json"
const backupFormatVersion = 1

var tableNames = []string{
	"clients",
	"templates",
	"manuscripts",
	"notification_logs",
}

type manifest struct {
	Format    string    `json:"format"`
	Version   int       `json:"version"`
	Engine    string    `json:"engine"`
	CreatedAt time.Time `json:"created_at"`
	Tables    []string  `json:"tables"`
}

type Service struct {
	db     *gorm.DB
	cfg    appcfg.BackupConfig
	logger *zap.Logger
}

func NewService(db *gorm.DB, cfg appcfg.BackupConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Dir == "" {
		cfg.Dir = "backups"
	}
	return &Service{db: db, cfg: cfg, logger: logger.Named("BackupService")}
}

// Item is one archive on disk.
type Item struct {
	Filename string `json:"filename"`
	Size     string `json:"size"`
}

func (s *Service) List() []Item {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return []Item{}
	}
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return []Item{}
	}
	items := []Item{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, Item{Filename: e.Name(), Size: formatSize(info.Size())})
	}
	return items
}

// Create dumps every table into a ZIP, writes it under the backup dir and,
// when S3 is configured, uploads the same payload.
func (s *Service) Create(ctx context.Context) (*Item, error) {
	buf, err := s.createZip()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("backup-%s.zip", time.Now().Format("2006-01-02T15-04-05"))
	filePath := filepath.Join(s.cfg.Dir, filename)
	if err := os.WriteFile(filePath, buf.Bytes(), 0o644); err != nil {
		return nil, err
	}
	s.logger.Info("백업 생성", zap.String("file", filename))

	if s.cfg.S3.Enabled() {
		if err := s.uploadToS3(ctx, filename, buf.Bytes()); err != nil {
			// local archive survives; the upload can be retried by hand
			s.logger.Warn("S3 업로드 실패", zap.Error(err))
		}
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	return &Item{Filename: filename, Size: formatSize(info.Size())}, nil
}

// Path resolves a stored archive file, refusing names that escape the
// backup directory.
func (s *Service) Path(filename string) (string, bool) {
	if filename == "" || strings.ContainsAny(filename, "/\\") || !strings.HasSuffix(filename, ".zip") {
		return "", false
	}
	p := filepath.Join(s.cfg.Dir, filename)
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

func (s *Service) Delete(filename string) bool {
	p, ok := s.Path(filename)
	if !ok {
		return false
	}
	return os.Remove(p) == nil
}

func (s *Service) createZip() (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)

	exported := make([]string, 0, len(tableNames))
	for _, table := range tableNames {
		var rows []map[string]interface{}
		if err := s.db.Table(table).Find(&rows).Error; err != nil {
			s.logger.Warn("테이블 내보내기 실패", zap.String("table", table), zap.Error(err))
			continue
		}
		payload, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			continue
		}
		f, err := w.Create(path.Join(backupDBDir, table+".json"))
		if err != nil {
			continue
		}
		if _, err := f.Write(payload); err != nil {
			continue
		}
		exported = append(exported, table)
	}

	m := manifest{
		Format:    backupFormat,
		Version:   backupFormatVersion,
		Engine:    "mysql",
		CreatedAt: time.Now().UTC(),
		Tables:    exported,
	}
	if data, err := json.Marshal(m); err == nil {
		if mf, err := w.Create(backupManifestFile); err == nil {
			_, _ = mf.Write(data)
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
