package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/SscSPs/atm_ledger/internal/apperrors"
	"github.com/SscSPs/atm_ledger/internal/middleware"
)

const fieldDelimiter = '\t'

// maxLineBytes bounds a single record line.
const maxLineBytes = 1 << 20

// scanLines calls fn with the 1-based line number and tab-split fields of every
// non-blank line of path. A missing file has no lines.
func scanLines(ctx context.Context, path string, fn func(line int, fields []string)) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		logger.Error("Failed to open record file", slog.String("file", path), slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to open %s: %v", apperrors.ErrStorage, path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fn(line, strings.Split(text, string(fieldDelimiter)))
	}
	if err := scanner.Err(); err != nil {
		logger.Error("Failed to read record file", slog.String("file", path), slog.Int("line", line+1), slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to read %s: %v", apperrors.ErrStorage, path, err)
	}
	return nil
}

// readRecords parses every line of path with decode. A missing file is an empty
// result. Malformed lines are logged and skipped; a read failure stops the scan
// and returns whatever was parsed together with an ErrStorage-wrapped error.
func readRecords[T any](ctx context.Context, path string, decode func(fields []string) (T, error)) ([]T, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var records []T
	err := scanLines(ctx, path, func(line int, fields []string) {
		record, decodeErr := decode(fields)
		if decodeErr != nil {
			logger.Warn("Skipping malformed record", slog.String("file", path), slog.Int("line", line), slog.String("error", decodeErr.Error()))
			return
		}
		records = append(records, record)
	})
	return records, err
}

// checkFields rejects field text that would split or end a line.
func checkFields(fields []string) error {
	for i, f := range fields {
		if strings.ContainsAny(f, "\t\r\n") {
			return fmt.Errorf("%w: field %d contains a tab or line break", apperrors.ErrValidation, i+1)
		}
	}
	return nil
}

func encodeLine(fields []string) string {
	return strings.Join(fields, string(fieldDelimiter)) + "\n"
}

// writeRecords replaces path with the given lines. The content is written to a
// temporary file in the same directory and renamed over the original, so a failed
// write never leaves a half-written file behind.
func writeRecords(ctx context.Context, path string, lines [][]string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	for _, fields := range lines {
		if err := checkFields(fields); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Error("Failed to create data directory", slog.String("file", path), slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to create directory for %s: %v", apperrors.ErrStorage, path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		logger.Error("Failed to create temporary record file", slog.String("file", path), slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to create temporary file for %s: %v", apperrors.ErrStorage, path, err)
	}
	tmpName := tmp.Name()

	var b strings.Builder
	for _, fields := range lines {
		b.WriteString(encodeLine(fields))
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		logger.Error("Failed to write record file", slog.String("file", path), slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to write %s: %v", apperrors.ErrStorage, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to close %s: %v", apperrors.ErrStorage, tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		logger.Error("Failed to replace record file", slog.String("file", path), slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to replace %s: %v", apperrors.ErrStorage, path, err)
	}
	return nil
}

// appendRecord appends one line to path and returns the file size before the write.
func appendRecord(ctx context.Context, path string, fields []string) (int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := checkFields(fields); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("%w: failed to create directory for %s: %v", apperrors.ErrStorage, path, err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Error("Failed to open record file for append", slog.String("file", path), slog.String("error", err.Error()))
		return 0, fmt.Errorf("%w: failed to open %s: %v", apperrors.ErrStorage, path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to stat %s: %v", apperrors.ErrStorage, path, err)
	}
	size := info.Size()

	if _, err := file.WriteString(encodeLine(fields)); err != nil {
		logger.Error("Failed to append record", slog.String("file", path), slog.String("error", err.Error()))
		// A partial line must not survive.
		if terr := os.Truncate(path, size); terr != nil {
			logger.Error("Failed to truncate partial record", slog.String("file", path), slog.String("error", terr.Error()))
		}
		return 0, fmt.Errorf("%w: failed to append to %s: %v", apperrors.ErrStorage, path, err)
	}
	return size, nil
}

func expectFields(fields []string, counts ...int) error {
	for _, n := range counts {
		if len(fields) == n {
			return nil
		}
	}
	return fmt.Errorf("unexpected field count %d", len(fields))
}
