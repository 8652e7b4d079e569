package storage

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// PathManager 路径管理器
type PathManager struct {
	dataRoot  string
	namespace string
}

// NewPathManager 创建路径管理器
func NewPathManager(dataRoot, namespace string) *PathManager {
	return &PathManager{
		dataRoot:  dataRoot,
		namespace: normalizeNamespace(namespace),
	}
}

// Namespace 规范化后的命名空间
func (pm *PathManager) Namespace() string {
	return pm.namespace
}

// GetWorkspaceDir 获取工作区目录
func (pm *PathManager) GetWorkspaceDir() string {
	return filepath.Join(pm.dataRoot, pm.namespace)
}

// GetSnapshotPath 获取工作区快照文件路径，扩展名随编码变化
func (pm *PathManager) GetSnapshotPath(ext string) string {
	return filepath.Join(pm.GetWorkspaceDir(), fmt.Sprintf("workspace.%s", ext))
}

// GetHistoryDBPath 获取生成记录数据库路径
func (pm *PathManager) GetHistoryDBPath() string {
	return filepath.Join(pm.GetWorkspaceDir(), "history.db")
}

// normalizeNamespace 规范化命名空间
func normalizeNamespace(namespace string) string {
	if namespace == "" {
		return "default"
	}
	// 将命名空间中的点、冒号等替换为下划线
	return unsafeNameChars.ReplaceAllString(strings.ToLower(namespace), "_")
}
