// Package install ties catalog, download engine and store together into the
// per-mod install lifecycle.
package install

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/sirupsen/logrus"

	"github.com/lynx96/modvault/pkg/catalog"
	"github.com/lynx96/modvault/pkg/download"
	"github.com/lynx96/modvault/pkg/store"
)

const rotateAttempts = 3

// ErrInvalidKey - the supplied serial key does not match the current catalog
// record, or no record matches the mod at all. The two cases are not
// distinguished so a probing user learns nothing from the difference.
var ErrInvalidKey = errors.New("invalid serial key")

// Request describes one install intent coming from the presentation layer.
type Request struct {
	ModName      string
	InternalName string
	ResourceRef  string
	SerialKey    string
}

// Entry is one catalog row visible to the current user, with the install
// state probed fresh from disk.
type Entry struct {
	Descriptor catalog.Descriptor
	Installed  bool
}

type Installer struct {
	Catalog *catalog.Client
	Store   *store.Store
	Engine  *download.Engine

	// RetryDelay - base delay between key rotation attempts
	RetryDelay time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	wg    sync.WaitGroup
}

func New(c *catalog.Client, st *store.Store, engine *download.Engine) *Installer {
	return &Installer{
		Catalog:    c,
		Store:      st,
		Engine:     engine,
		RetryDelay: time.Second,
		locks:      make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex guarding one internal name. Install paths are
// partitioned by internal name, the lock turns that convention into a hard
// guarantee.
func (i *Installer) lockFor(internalName string) *sync.Mutex {
	i.mu.Lock()
	defer i.mu.Unlock()

	lock, ok := i.locks[internalName]
	if !ok {
		lock = &sync.Mutex{}
		i.locks[internalName] = lock
	}

	return lock
}

// Install validates the serial key against the live catalog and the resource
// reference, both synchronously, then runs the transfer in the background.
// The terminal state arrives through the sink; validation failures are also
// returned to the caller before any background work starts.
func (i *Installer) Install(ctx context.Context, req Request, sink Sink) error {
	sink(Progress{State: StateValidating, Message: fmt.Sprintf("Preparing %s...", req.ModName)})

	mods, err := i.Catalog.AllMods(ctx)
	if err != nil {
		sink(Progress{State: StateFailed, Message: "Catalog Unavailable"})
		log.WithError(err).Errorf("unable to fetch catalog for %s", req.ModName)
		return err
	}

	if !keyMatches(mods, req.ModName, req.SerialKey) {
		sink(Progress{State: StateFailed, Message: "Invalid Key"})
		log.Errorf("invalid serial key for %s", req.ModName)
		return ErrInvalidKey
	}

	sink(Progress{State: StateFetchingResource, Message: "Resolving resource..."})

	fileID, err := download.ExtractFileID(req.ResourceRef)
	if err != nil {
		sink(Progress{State: StateFailed, Message: "Invalid Resource Link"})
		log.Errorf("invalid resource link for %s", req.ModName)
		return err
	}

	i.wg.Add(1)
	go i.run(ctx, req, fileID, sink)

	return nil
}

// run executes fetch, commit and rotation under the per-name lock.
func (i *Installer) run(ctx context.Context, req Request, fileID string, sink Sink) {
	defer i.wg.Done()

	lock := i.lockFor(req.InternalName)
	lock.Lock()
	defer lock.Unlock()

	// idempotent re-install: any previous asset goes first
	if err := i.Store.Remove(req.InternalName); err != nil && !errors.Is(err, store.ErrNotInstalled) {
		sink(Progress{State: StateFailed, Message: "Install Failed"})
		log.WithError(err).Errorf("unable to replace existing asset for %s", req.ModName)
		return
	}

	finalPath := i.Store.Path(req.InternalName)
	stagedPath := i.Engine.StagePath(finalPath)

	dgst, err := i.Engine.Stage(ctx, fileID, stagedPath, func(percent int, message string) {
		sink(Progress{State: StateDownloading, Percent: percent, Message: message})
	})
	if err != nil {
		sink(Progress{State: StateFailed, Message: "Download Failed"})
		log.WithError(err).Errorf("download failed for %s", req.ModName)
		return
	}

	sink(Progress{State: StateCommitting, Percent: 100, Message: "Committing..."})

	if err := i.Store.Place(stagedPath, finalPath); err != nil {
		i.Engine.Discard(stagedPath)
		sink(Progress{State: StateFailed, Message: "Install Failed"})
		log.WithError(err).Errorf("unable to place asset for %s", req.ModName)
		return
	}

	i.Store.Protect(finalPath)

	// key consumption runs independently, its outcome never rolls back an
	// already completed install or delays the installed signal
	sink(Progress{State: StateRotatingKey, Percent: 100, Message: "Consuming serial key..."})

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		i.rotateKey(req.InternalName)
	}()

	sink(Progress{State: StateDone, Percent: 100, Message: "Mod Installed!"})
	log.Infof("%s installed (%s)", req.ModName, dgst)
}

// rotateKey retries the rotation a few times before giving up. A final
// failure means the consumed key theoretically remains swappable on the
// server, which is logged loudly but never surfaced as an install failure.
func (i *Installer) rotateKey(internalName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for attempt := 1; attempt <= rotateAttempts; attempt++ {
		if _, err := i.Catalog.RotateSerialKey(ctx, internalName); err != nil {
			logrus.WithError(err).Warnf("serial key rotation attempt %d/%d failed for %s",
				attempt, rotateAttempts, internalName)
			time.Sleep(time.Duration(attempt) * i.RetryDelay)
			continue
		}

		logrus.Infof("serial key rotated for %s", internalName)
		return
	}

	log.Errorf("serial key rotation failed for %s, the consumed key may remain valid", internalName)
}

// Uninstall removes the installed asset. It never contacts the remote
// service. A missing asset is reported distinctly as store.ErrNotInstalled.
func (i *Installer) Uninstall(internalName string) error {
	lock := i.lockFor(internalName)
	lock.Lock()
	defer lock.Unlock()

	return i.Store.Remove(internalName)
}

// RefreshCatalog returns the catalog entries the session's user is entitled
// to, with install state probed per entry. Mods outside the entitlement set
// are never exposed.
func (i *Installer) RefreshCatalog(ctx context.Context, session catalog.Session) ([]Entry, error) {
	entitled := map[string]bool{}
	for _, name := range i.Catalog.EntitledMods(ctx, session) {
		entitled[name] = true
	}

	mods, err := i.Catalog.AllMods(ctx)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, mod := range mods {
		if !entitled[strings.ToLower(strings.TrimSpace(mod.DisplayName))] {
			continue
		}

		entries = append(entries, Entry{
			Descriptor: mod,
			Installed:  i.Store.IsInstalled(mod.InternalName),
		})
	}

	return entries, nil
}

// Wait blocks until every in-flight transfer and key rotation has finished.
func (i *Installer) Wait() {
	i.wg.Wait()
}

// keyMatches accepts the key if any catalog record carrying the display name
// holds it. Display names are not guaranteed unique, so every record is
// consulted.
func keyMatches(mods []catalog.Descriptor, modName, suppliedKey string) bool {
	for _, mod := range mods {
		if mod.DisplayName != modName {
			continue
		}

		if strings.EqualFold(strings.TrimSpace(mod.SerialKey), strings.TrimSpace(suppliedKey)) {
			return true
		}
	}

	return false
}
