package store

import (
	"encoding/json"
	"fmt"
	"os"

	"payscope/internal/model"
)

// LegacyCategoryID 旧版单类别配置对应的规范类别标识
const LegacyCategoryID = "dispatcher_earnings"

// GetRateTable 读取指定类别的费率表快照
// 类别不存在时返回空表；首次读取规范类别且存在旧版配置文件时先做一次性迁移
func (s *Store) GetRateTable(categoryID string) (model.RateTable, error) {
	if err := s.migrateLegacyConfig(categoryID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT entity_key, entity_name, rate FROM rate_entries WHERE category_id = ?",
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate entries: %w", err)
	}
	defer rows.Close()

	table := make(model.RateTable)
	for rows.Next() {
		var key, name string
		var rate float64
		if err := rows.Scan(&key, &name, &rate); err != nil {
			return nil, err
		}
		table[key] = model.RateEntry{Name: name, Rate: rate}
	}

	return table, rows.Err()
}

// PutRateTable 原子替换指定类别的费率表
// 同一类别的并发写入被串行化，后写者胜
func (s *Store) PutRateTable(categoryID string, table model.RateTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM rate_entries WHERE category_id = ?", categoryID); err != nil {
		return fmt.Errorf("failed to clear rate entries: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO rate_entries (category_id, entity_key, entity_name, rate)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for key, entry := range table {
		if _, err := stmt.Exec(categoryID, key, entry.Name, entry.Rate); err != nil {
			return fmt.Errorf("failed to insert rate entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListCategories 列出已有费率配置的类别标识
func (s *Store) ListCategories() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT category_id FROM rate_entries ORDER BY category_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// migrateLegacyConfig 旧版单类别配置的一次性惰性迁移
// 旧格式为扁平 JSON（实体名→百分比）。仅当规范类别下无任何记录且
// 尚未迁移过时导入；迁移完成后写入标记，旧文件保留原地、不再读取
func (s *Store) migrateLegacyConfig(categoryID string) error {
	if categoryID != LegacyCategoryID || s.legacyPath == "" {
		return nil
	}

	markerKey := "legacy_migrated_" + categoryID
	if s.hasConfig(markerKey) {
		return nil
	}

	var count int
	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM rate_entries WHERE category_id = ?", categoryID,
	).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		// 已有正式配置，旧文件视为失效
		return s.SetConfig(markerKey, "1")
	}

	data, err := os.ReadFile(s.legacyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read legacy config: %w", err)
	}

	var legacy map[string]float64
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("failed to parse legacy config: %w", err)
	}

	table := make(model.RateTable, len(legacy))
	for name, rate := range legacy {
		table.Set(name, rate)
	}

	if err := s.PutRateTable(categoryID, table); err != nil {
		return fmt.Errorf("failed to import legacy config: %w", err)
	}

	return s.SetConfig(markerKey, "1")
}
