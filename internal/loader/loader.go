//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package loader implements the load stage: it reads the entity files,
// checks them, and replaces the store contents in one transaction.
package loader

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-shopinsights/internal/model"
	"github.com/pgEdge/pgedge-shopinsights/internal/store"
	"github.com/pgEdge/pgedge-shopinsights/internal/tabular"
	"github.com/pgEdge/pgedge-shopinsights/pkg/version"
)

// Config controls one load.
type Config struct {
	DataDir string

	// VerifyTotals rejects datasets whose order totals or item subtotals
	// do not add up.
	VerifyTotals bool

	RunID string
}

// Result summarizes a completed load.
type Result struct {
	Counts   map[string]int
	Duration time.Duration
}

// Load reads cfg.DataDir and replaces the contents of st with it. The
// dataset is checked in memory before the store is touched; nothing is
// written if a reference or (with VerifyTotals) a total is broken.
func Load(ctx context.Context, st store.Store, cfg Config, log zerolog.Logger) (*Result, error) {
	start := time.Now()
	log.Info().Str("data_dir", cfg.DataDir).Str("store", st.Location()).Msg("Loading dataset")

	ds, err := tabular.ReadDataset(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	if err := ds.CheckKeys(); err != nil {
		return nil, err
	}
	if err := ds.CheckReferences(); err != nil {
		return nil, err
	}
	if cfg.VerifyTotals {
		if err := ds.CheckTotals(); err != nil {
			return nil, err
		}
	} else {
		log.Debug().Msg("Skipping order total verification")
	}

	counts := ds.Counts()
	meta := map[string]string{
		store.MetaRunID:           cfg.RunID,
		store.MetaLoadedAt:        time.Now().UTC().Format(time.RFC3339),
		store.MetaVersion:         version.Short(),
		store.MetaContractVersion: tabular.ContractVersion,
		store.MetaSourceDir:       cfg.DataDir,
	}
	for table, n := range counts {
		meta[store.RowsKey(table)] = strconv.Itoa(n)
	}

	if err := st.Replace(ctx, ds, meta); err != nil {
		return nil, err
	}

	for _, table := range model.Tables {
		log.Info().Str("table", table).Int("rows", counts[table]).Msg("Table loaded")
	}

	res := &Result{Counts: counts, Duration: time.Since(start)}
	log.Info().Dur("duration", res.Duration).Msg("Load complete")
	return res, nil
}

// Run opens the store at storeURL, loads into it and closes it.
func Run(ctx context.Context, storeURL string, opts store.Options, cfg Config, log zerolog.Logger) (*Result, error) {
	st, err := store.Open(ctx, storeURL, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	return Load(ctx, st, cfg, log)
}
