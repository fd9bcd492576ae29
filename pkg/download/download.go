// Package download streams a remote asset into a staging file and gates it
// on an integrity heuristic before the orchestrator commits it.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/h2non/filetype"
	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
)

const (
	// MinAssetSize - a staged transfer smaller than this is treated as a
	// failed download. The remote service supplies no checksums, so the
	// size threshold substitutes for one.
	MinAssetSize = 500000

	stagingSuffix = ".tmp"

	transferBase = "https://drive.google.com/uc?export=download&id="
)

var (
	// ErrInvalidResource - the sharing link does not match any known shape
	ErrInvalidResource = errors.New("invalid resource link")

	// ErrTransferFailed - the transfer ended below the integrity threshold
	ErrTransferFailed = errors.New("download failed integrity check")
)

// ProgressFunc receives coarse-grained transfer milestones. The underlying
// transfer mechanism may not expose continuous progress, so updates arrive
// in discrete steps rather than exact byte counts.
type ProgressFunc func(percent int, message string)

// ExtractFileID pulls the embedded file identifier out of a sharing-service
// link. Two URL shapes are recognized.
func ExtractFileID(ref string) (string, error) {
	if _, after, ok := strings.Cut(ref, "/file/d/"); ok {
		if id, _, _ := strings.Cut(after, "/"); id != "" {
			return id, nil
		}
	}

	if _, after, ok := strings.Cut(ref, "id="); ok {
		if id, _, _ := strings.Cut(after, "&"); id != "" {
			return id, nil
		}
	}

	return "", ErrInvalidResource
}

type Engine struct {
	// TransferBase - prefix the resolved file identifier is appended to,
	// overridable for tests
	TransferBase string

	client *http.Client
}

// New creates a download engine. Transfers get a generous bound so a large
// asset can finish, while an unreachable host still fails eventually.
func New(timeout time.Duration) *Engine {
	if timeout == 0 {
		timeout = 15 * time.Minute
	}

	return &Engine{
		TransferBase: transferBase,
		client:       &http.Client{Timeout: timeout},
	}
}

// StagePath returns the staging location for a final asset path.
func (e *Engine) StagePath(finalPath string) string {
	return finalPath + stagingSuffix
}

// Stage streams the resource for fileID into the staging path and verifies
// the minimum-size gate. On success the staged file is complete and ready to
// commit, and its content digest is returned for the caller to record; on
// any failure it is removed, so the filesystem never holds a partial or
// undersized staging file.
func (e *Engine) Stage(ctx context.Context, fileID, stagedPath string, onProgress ProgressFunc) (digest.Digest, error) {
	onProgress(0, "Initializing Download...")

	dgst, err := e.stream(ctx, fileID, stagedPath, onProgress)
	if err != nil {
		e.Discard(stagedPath)
		onProgress(0, "Download Failed")
		return "", err
	}

	info, err := os.Stat(stagedPath)
	if err != nil || info.Size() < MinAssetSize {
		e.Discard(stagedPath)
		onProgress(0, "Download Failed")
		return "", ErrTransferFailed
	}

	e.sniff(stagedPath)

	onProgress(100, "Download Complete")

	return dgst, nil
}

// Discard removes a staging file, tolerating one that never got created.
func (e *Engine) Discard(stagedPath string) {
	if err := os.Remove(stagedPath); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warnf("unable to remove staging file %s", stagedPath)
	}
}

func (e *Engine) stream(ctx context.Context, fileID, stagedPath string, onProgress ProgressFunc) (digest.Digest, error) {
	url := e.TransferBase + fileID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transfer failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transfer failed: unexpected status %s", resp.Status)
	}

	staged, err := os.Create(stagedPath)
	if err != nil {
		return "", err
	}
	defer staged.Close()

	digester := digest.SHA256.Digester()
	writer := &milestoneWriter{
		out:        io.MultiWriter(staged, digester.Hash()),
		total:      resp.ContentLength,
		onProgress: onProgress,
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return "", fmt.Errorf("transfer failed: %w", err)
	}

	dgst := digester.Digest()
	logrus.Debugf("staged %s (%s)", stagedPath, dgst)

	return dgst, nil
}

// sniff is advisory only: a staged mod asset is normally a zip container,
// anything else is worth a warning but never a rejection.
func (e *Engine) sniff(stagedPath string) {
	head := make([]byte, 261)
	f, err := os.Open(stagedPath)
	if err != nil {
		return
	}
	n, _ := io.ReadFull(f, head)
	f.Close()

	if !filetype.IsArchive(head[:n]) {
		m, err := mimetype.DetectFile(stagedPath)
		if err != nil {
			return
		}
		logrus.Warnf("staged asset does not look like an archive (detected %s)", m.String())
	}
}

// milestoneWriter reports transfer progress every 10% when the length is
// known, and a single in-flight marker when it is not.
type milestoneWriter struct {
	out        io.Writer
	total      int64
	written    int64
	reported   int
	onProgress ProgressFunc
}

func (w *milestoneWriter) Write(p []byte) (int, error) {
	n, err := w.out.Write(p)
	w.written += int64(n)

	if w.total > 0 {
		percent := int(w.written * 100 / w.total)
		step := percent - percent%10
		if step > w.reported {
			w.reported = step
			w.onProgress(step, fmt.Sprintf("Downloading: %d%%", step))
		}
	} else if w.reported == 0 {
		w.reported = 50
		w.onProgress(50, "Downloading...")
	}

	return n, err
}
