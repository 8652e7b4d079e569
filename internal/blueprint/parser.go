package blueprint

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"nodepilot/internal/schema"
)

// Parser 蓝图解析器
type Parser struct {
	filePath string
}

// NewParser 创建新的解析器
func NewParser(filePath string) *Parser {
	return &Parser{
		filePath: filePath,
	}
}

// Parse 解析 YAML 文件
func (p *Parser) Parse() (*Blueprint, error) {
	data, err := os.ReadFile(p.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read blueprint file: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes 解析 YAML 内容，未写出的功能开关保持默认值
func ParseBytes(data []byte) (*Blueprint, error) {
	bp := Blueprint{
		Project: ProjectDef{Features: schema.DefaultFeatures()},
	}
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &bp, nil
}
