//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package store

import (
	"context"
	"fmt"
	"sort"
)

// Metadata keys written by every load.
const (
	MetaRunID           = "run_id"
	MetaLoadedAt        = "loaded_at"
	MetaVersion         = "version"
	MetaContractVersion = "contract_version"
	MetaSourceDir       = "source_dir"
)

// RowsKey is the metadata key holding the loaded row count of table.
func RowsKey(table string) string {
	return "rows." + table
}

const selectMetadataSQL = `SELECT meta_key, meta_value FROM ` + MetadataTable + ` ORDER BY meta_key`

// readMetadata is shared by all backends.
func readMetadata(ctx context.Context, s Store) (map[string]string, error) {
	rows, err := s.Query(ctx, selectMetadataSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to read load metadata: %w", err)
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to read load metadata: %w", err)
		}
		metadata[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read load metadata: %w", err)
	}
	if len(metadata) == 0 {
		return nil, fmt.Errorf("load metadata is empty")
	}
	return metadata, nil
}

// sortedKeys makes metadata inserts deterministic.
func sortedKeys(meta map[string]string) []string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
