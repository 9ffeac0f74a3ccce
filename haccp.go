// Package haccp loads the 2024 HACCP survey-evaluation dataset and joins
// entity registrations onto per-round evaluation outcomes.
//
// The heavy lifting lives in sub-packages: pkg/schema describes the input
// files, pkg/sources reads them, pkg/reconcile builds the joined table,
// pkg/export writes it out and pkg/chart and pkg/report render figures.
// This package is the short path for the common case:
//
//	result, err := haccp.Load(ctx, reconcile.WithDataDir("./data"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Joined), "joined rows")
package haccp

import (
	"context"

	"github.com/haccpkit/haccp/pkg/reconcile"
	"github.com/haccpkit/haccp/pkg/records"
	"github.com/haccpkit/haccp/pkg/schema"
)

// Load reads the configured sources and returns the reconciled tables.
func Load(ctx context.Context, opts ...reconcile.Option) (*reconcile.Result, error) {
	return reconcile.Load(ctx, opts...)
}

// LoadJoined is Load returning only the joined table.
func LoadJoined(ctx context.Context, opts ...reconcile.Option) (records.Joined, error) {
	result, err := reconcile.Load(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return result.Joined, nil
}

// DefaultManifest returns the built-in manifest of the ten survey files.
func DefaultManifest() *schema.Manifest {
	return schema.Default()
}
