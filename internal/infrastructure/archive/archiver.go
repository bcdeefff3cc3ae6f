// Package archive produces the monthly per-branch report artifacts.
// On the first of each month the worker snapshots the previous month's
// rollups into compressed JSON files so the numbers survive later edits.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"rezerve/internal/domain/audit"
	"rezerve/internal/domain/catalogs/branch"
	"rezerve/internal/domain/reports"
	"rezerve/pkg/logger"
)

const fileExt = ".json.zst"

// Artifact is the serialized monthly report for one branch.
type Artifact struct {
	BranchID    string                       `json:"branchId"`
	BranchName  string                       `json:"branchName"`
	Year        int                          `json:"year"`
	Month       int                          `json:"month"`
	GeneratedAt time.Time                    `json:"generatedAt"`
	Summary     reports.AggregateResult      `json:"summary"`
	Staff       []reports.StaffPerformanceRow `json:"staff"`
}

// ArchiveInfo describes one stored artifact.
type ArchiveInfo struct {
	BranchName string    `json:"branchName"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	FileName   string    `json:"fileName"`
	SizeBytes  int64     `json:"sizeBytes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Archiver writes monthly report artifacts to a directory.
type Archiver struct {
	dir      string
	branches *branch.Service
	reports  *reports.Service
	auditor  *audit.Service
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// New creates an archiver writing into dir.
func New(dir string, branches *branch.Service, reportsSvc *reports.Service, auditor *audit.Service) (*Archiver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Archiver{
		dir:      dir,
		branches: branches,
		reports:  reportsSvc,
		auditor:  auditor,
		encoder:  encoder,
		decoder:  decoder,
	}, nil
}

// ArchivePreviousMonth snapshots the previous calendar month for every
// branch. A failing branch is logged and skipped; the rest still archive.
func (a *Archiver) ArchivePreviousMonth(ctx context.Context, now time.Time) (int, error) {
	year, month := reports.PreviousMonth(now)
	period := reports.MonthRange(year, month)

	branches, err := a.branches.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("list branches: %w", err)
	}

	archived := 0
	for _, b := range branches {
		if err := a.archiveBranch(ctx, b, year, month, period); err != nil {
			logger.Error(ctx, "branch archive failed",
				"branch_id", b.ID,
				"branch", b.Name,
				"year", year,
				"month", int(month),
				"error", err,
			)
			continue
		}
		archived++
	}

	a.auditor.TryLog(ctx, audit.NewEntry(audit.LogTypeSystem, audit.ActionCreate,
		fmt.Sprintf("Monthly reports archived for %d/%d: %d of %d branches", int(month), year, archived, len(branches))))

	logger.Info(ctx, "monthly archive complete",
		"year", year, "month", int(month), "archived", archived, "branches", len(branches))
	return archived, nil
}

func (a *Archiver) archiveBranch(ctx context.Context, b *branch.Branch, year int, month time.Month, period reports.Range) error {
	summary, err := a.reports.Aggregate(ctx, reports.ScopeBranch, b.ID, period)
	if err != nil {
		return fmt.Errorf("aggregate branch: %w", err)
	}

	staffRows, err := a.reports.StaffPerformance(ctx, b.ID, period)
	if err != nil {
		return fmt.Errorf("staff performance: %w", err)
	}

	artifact := Artifact{
		BranchID:    b.ID.String(),
		BranchName:  b.Name,
		Year:        year,
		Month:       int(month),
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		Staff:       staffRows,
	}

	raw, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	name := fmt.Sprintf("%s_%d_%02d%s", sanitizeName(b.Name), year, int(month), fileExt)
	path := filepath.Join(a.dir, name)

	compressed := a.encoder.EncodeAll(raw, nil)
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	return nil
}

// ListArchives returns stored artifacts, newest first.
func (a *Archiver) ListArchives(ctx context.Context) ([]ArchiveInfo, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("read archive dir: %w", err)
	}

	var infos []ArchiveInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}

		info, err := parseArchiveName(entry.Name())
		if err != nil {
			continue
		}

		stat, err := entry.Info()
		if err == nil {
			info.SizeBytes = stat.Size()
			info.CreatedAt = stat.ModTime()
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Year != infos[j].Year {
			return infos[i].Year > infos[j].Year
		}
		if infos[i].Month != infos[j].Month {
			return infos[i].Month > infos[j].Month
		}
		return infos[i].BranchName < infos[j].BranchName
	})

	return infos, nil
}

// ReadArchive loads and decompresses one stored artifact.
func (a *Archiver) ReadArchive(ctx context.Context, fileName string) (*Artifact, error) {
	// Reject path traversal in user-supplied names.
	if filepath.Base(fileName) != fileName || !strings.HasSuffix(fileName, fileExt) {
		return nil, fmt.Errorf("invalid archive name: %s", fileName)
	}

	compressed, err := os.ReadFile(filepath.Join(a.dir, fileName))
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	raw, err := a.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress archive: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("unmarshal artifact: %w", err)
	}

	return &artifact, nil
}

// parseArchiveName extracts metadata from <branch>_<year>_<month>.json.zst.
func parseArchiveName(name string) (ArchiveInfo, error) {
	base := strings.TrimSuffix(name, fileExt)
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return ArchiveInfo{}, fmt.Errorf("unexpected archive name: %s", name)
	}

	var year, month int
	if _, err := fmt.Sscanf(parts[len(parts)-2], "%d", &year); err != nil {
		return ArchiveInfo{}, err
	}
	if _, err := fmt.Sscanf(parts[len(parts)-1], "%d", &month); err != nil {
		return ArchiveInfo{}, err
	}

	return ArchiveInfo{
		BranchName: strings.Join(parts[:len(parts)-2], "_"),
		Year:       year,
		Month:      month,
		FileName:   name,
	}, nil
}

func sanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			sb.WriteRune('-')
		case r == '_' || r == '/' || r == '\\':
			sb.WriteRune('-')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
