// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrootRISCassembler/GameInfo/internal/docstore"
)

// DefaultCheckTimeout bounds a single store probe.
const DefaultCheckTimeout = 2 * time.Second

// Snapshot is the view of a live catalog the catalog check needs.
type Snapshot interface {
	LoadedAt() time.Time
	LastError() error
}

// CatalogChecker reports whether a catalog snapshot is being served.
type CatalogChecker struct {
	snapshot Snapshot
}

// NewCatalogChecker creates a checker for a live catalog.
func NewCatalogChecker(s Snapshot) *CatalogChecker {
	return &CatalogChecker{snapshot: s}
}

func (c *CatalogChecker) Name() string { return "catalog" }

func (c *CatalogChecker) Check(ctx context.Context) CheckResult {
	loadedAt := c.snapshot.LoadedAt()
	lastErr := c.snapshot.LastError()

	if loadedAt.IsZero() {
		res := CheckResult{Status: StatusUnhealthy, Message: "catalog has not been loaded"}
		if lastErr != nil {
			res.Error = lastErr.Error()
		}
		return res
	}
	if lastErr != nil {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "last reload failed, serving snapshot from " + loadedAt.UTC().Format(time.RFC3339),
			Error:   lastErr.Error(),
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "loaded at " + loadedAt.UTC().Format(time.RFC3339),
	}
}

// DocumentChecker checks that a document can be read from a store.
type DocumentChecker struct {
	name     string
	store    docstore.Store
	location string
	timeout  time.Duration
}

// NewDocumentChecker creates a checker that reads location from store.
func NewDocumentChecker(name string, store docstore.Store, location string) *DocumentChecker {
	return &DocumentChecker{
		name:     name,
		store:    store,
		location: location,
		timeout:  DefaultCheckTimeout,
	}
}

func (c *DocumentChecker) Name() string { return c.name }

func (c *DocumentChecker) Check(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.store.ReadText(ctx, c.location)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return CheckResult{
			Status:  StatusUnhealthy,
			Error:   "document not found",
			Message: c.location,
		}
	case err != nil:
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	case len(data) == 0:
		return CheckResult{
			Status:  StatusDegraded,
			Message: "document is empty",
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("%s readable (%d bytes)", c.location, len(data)),
	}
}
