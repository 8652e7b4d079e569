package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"nodepilot/internal/graph"
)

// SnapshotStorage 工作区快照存储，每个命名空间一个文件
type SnapshotStorage struct {
	pathManager *PathManager
	codec       Codec
	mu          sync.RWMutex
}

// NewSnapshotStorage 创建快照存储
func NewSnapshotStorage(pathManager *PathManager, codec Codec) *SnapshotStorage {
	return &SnapshotStorage{
		pathManager: pathManager,
		codec:       codec,
	}
}

// Path 快照文件路径
func (s *SnapshotStorage) Path() string {
	return s.pathManager.GetSnapshotPath(s.codec.Ext())
}

// Save 写入快照，先写临时文件再替换
func (s *SnapshotStorage) Save(p graph.Persisted) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.codec.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	// 确保目录存在
	dir := s.pathManager.GetWorkspaceDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".workspace-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load 读取快照，文件不存在时 ok 为 false
func (s *SnapshotStorage) Load() (p graph.Persisted, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return graph.Persisted{}, false, nil
		}
		return graph.Persisted{}, false, fmt.Errorf("failed to read file: %w", err)
	}

	if err := s.codec.Unmarshal(data, &p); err != nil {
		return graph.Persisted{}, false, fmt.Errorf("failed to decode snapshot %s: %w", filepath.Base(s.Path()), err)
	}
	return p, true, nil
}
